package learning

import "groupRecommender/domain"

// SimpleLearner averages the reason adjustments over every record that
// carries reasons and applies the mean to the defaults.
type SimpleLearner struct {
	minFeedback int
}

func NewSimpleLearner(minFeedback int) *SimpleLearner {
	if minFeedback <= 0 {
		minFeedback = defaultMinFeedback
	}
	return &SimpleLearner{minFeedback: minFeedback}
}

func (l *SimpleLearner) Policy() string {
	return domain.PolicySimple
}

func (l *SimpleLearner) Learn(history []domain.FeedbackRecord) domain.LearnedWeights {
	if len(history) < l.minFeedback {
		return defaultResult(l.Policy(), len(history))
	}

	var total domain.WeightSet
	reasoned := 0
	for _, r := range history {
		codes, ok := reasonedCodes(r)
		if !ok {
			continue
		}
		reasoned++
		total = total.Add(adjustmentFor(codes))
	}

	if reasoned == 0 {
		return defaultResult(l.Policy(), len(history))
	}

	weights := finalize(DefaultWeights().Add(total.Scale(1 / float64(reasoned))))

	return domain.LearnedWeights{
		Policy:        l.Policy(),
		Weights:       weights,
		FeedbackCount: len(history),
		Learned:       weights != DefaultWeights(),
	}
}
