package learning

import "groupRecommender/domain"

const defaultMinFeedback = 3

// Learner derives a user's weights from their A/B history. Implementations
// are pure functions of the history: the same records always give the same
// weights.
type Learner interface {
	Policy() string
	Learn(history []domain.FeedbackRecord) domain.LearnedWeights
}

// New returns the learner for a policy name, or ErrInvalidPolicy.
func New(policy string, minFeedback int) (Learner, error) {
	switch policy {
	case domain.PolicySimple:
		return NewSimpleLearner(minFeedback), nil
	case domain.PolicyAdaptive:
		return NewAdaptiveLearner(), nil
	default:
		return nil, domain.ErrInvalidPolicy
	}
}

func defaultResult(policy string, count int) domain.LearnedWeights {
	return domain.LearnedWeights{
		Policy:        policy,
		Weights:       DefaultWeights(),
		FeedbackCount: count,
	}
}

// reasonedCodes returns the codes of a record that counts towards learning:
// its reason must decode to a non-empty list.
func reasonedCodes(r domain.FeedbackRecord) ([]string, bool) {
	codes, payload := r.ParseReasons()
	if payload != domain.ReasonList || len(codes) == 0 {
		return nil, false
	}
	return codes, true
}
