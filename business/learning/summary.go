package learning

import "groupRecommender/domain"

// Summarize reports what a user's feedback history contains and what the
// learner makes of it.
func Summarize(history []domain.FeedbackRecord, l Learner) domain.FeedbackSummary {
	learned := l.Learn(history)

	summary := domain.FeedbackSummary{
		Policy:            l.Policy(),
		TotalFeedback:     len(history),
		ReasonCounts:      map[string]int{},
		LearnedWeights:    learned.Weights,
		DefaultWeights:    DefaultWeights(),
		HasLearnedWeights: learned.Learned,
		Confidence:        learned.Confidence,
		ConsistencyScore:  learned.ConsistencyScore,
	}

	for _, r := range history {
		codes, ok := reasonedCodes(r)
		if !ok {
			continue
		}
		summary.WithReasons++
		for _, c := range codes {
			summary.ReasonCounts[c]++
		}
	}

	return summary
}
