package learning

import "groupRecommender/domain"

const (
	adaptiveMinFeedback = 3
	baseLearningRate    = 0.1
	minConfidence       = 0.3
	maxConfidence       = 0.95

	// feedback volume at which volume confidence saturates
	fullVolume = 20.0
)

// AdaptiveLearner scales every record's adjustment by a confidence derived
// from feedback volume and how consistently the user gives the same reasons.
type AdaptiveLearner struct{}

func NewAdaptiveLearner() *AdaptiveLearner {
	return &AdaptiveLearner{}
}

func (l *AdaptiveLearner) Policy() string {
	return domain.PolicyAdaptive
}

func (l *AdaptiveLearner) Learn(history []domain.FeedbackRecord) domain.LearnedWeights {
	if len(history) < adaptiveMinFeedback {
		return defaultResult(l.Policy(), len(history))
	}

	consistency := ReasonConsistency(history)
	learningRate := baseLearningRate * (1 + consistency)

	volume := min(float64(len(history))/fullVolume, 1.0)
	confidence := volume*0.6 + consistency*0.4
	confidence = min(max(confidence, minConfidence), maxConfidence)

	var weighted domain.WeightSet
	totalWeight := 0.0
	for _, r := range history {
		codes, ok := reasonedCodes(r)
		if !ok {
			continue
		}
		w := confidence * learningRate
		totalWeight += w
		weighted = weighted.Add(adjustmentFor(codes).Scale(w))
	}

	weights := DefaultWeights()
	if totalWeight > 0 {
		weights = finalize(weights.Add(weighted.Scale(1 / totalWeight)))
	}

	return domain.LearnedWeights{
		Policy:           l.Policy(),
		Weights:          weights,
		Confidence:       confidence,
		ConsistencyScore: consistency,
		FeedbackCount:    len(history),
		Learned:          weights != DefaultWeights(),
	}
}

// ReasonConsistency is the mean Jaccard similarity of the reason sets of
// consecutive records, in the order given (newest first). Records without a
// reason are skipped, an empty list contributes an empty set and pairs with
// an empty side are not compared.
func ReasonConsistency(history []domain.FeedbackRecord) float64 {
	if len(history) < 2 {
		return 0
	}

	sets := make([]map[string]struct{}, 0, len(history))
	for _, r := range history {
		codes, payload := r.ParseReasons()
		if payload != domain.ReasonList {
			continue
		}
		set := make(map[string]struct{}, len(codes))
		for _, c := range codes {
			set[c] = struct{}{}
		}
		sets = append(sets, set)
	}

	if len(sets) < 2 {
		return 0
	}

	var sum float64
	pairs := 0
	for i := 0; i+1 < len(sets); i++ {
		a, b := sets[i], sets[i+1]
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		sum += jaccard(a, b)
		pairs++
	}

	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
