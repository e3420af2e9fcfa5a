package personality

import (
	"math"

	"groupRecommender/domain"
)

// unanswered quiz items count as the scale midpoint
const defaultAnswer = 4

// QuizAnswers are the six TIPI items on a 1..7 scale. Q6, Q8 and Q10 are
// reverse scored.
type QuizAnswers struct {
	Q1  *int `json:"q1" validate:"omitempty,min=1,max=7"`
	Q6  *int `json:"q6" validate:"omitempty,min=1,max=7"`
	Q3  *int `json:"q3" validate:"omitempty,min=1,max=7"`
	Q8  *int `json:"q8" validate:"omitempty,min=1,max=7"`
	Q5  *int `json:"q5" validate:"omitempty,min=1,max=7"`
	Q10 *int `json:"q10" validate:"omitempty,min=1,max=7"`
}

func (q QuizAnswers) Complete() bool {
	return q.Q1 != nil && q.Q6 != nil && q.Q3 != nil && q.Q8 != nil && q.Q5 != nil && q.Q10 != nil
}

// TraitCategories is the level of each trait, as returned next to the scores.
type TraitCategories struct {
	Extraversion      string `json:"extraversion"`
	Conscientiousness string `json:"conscientiousness"`
	Openness          string `json:"openness"`
}

func CalculateTraitScores(q QuizAnswers) domain.TraitScores {
	return domain.TraitScores{
		Extraversion:      intOr(q.Q1, defaultAnswer) + reverse(intOr(q.Q6, defaultAnswer)),
		Conscientiousness: intOr(q.Q3, defaultAnswer) + reverse(intOr(q.Q8, defaultAnswer)),
		Openness:          intOr(q.Q5, defaultAnswer) + reverse(intOr(q.Q10, defaultAnswer)),
	}
}

func Categorize(t domain.TraitScores) TraitCategories {
	return TraitCategories{
		Extraversion:      TraitLevel(t.Extraversion),
		Conscientiousness: TraitLevel(t.Conscientiousness),
		Openness:          TraitLevel(t.Openness),
	}
}

func reverse(answer int) int {
	return 8 - answer
}

// MotivationAnswers are six items on a 1..5 scale, paired (m1,m4) intrinsic,
// (m2,m5) social and (m3,m6) achievement.
type MotivationAnswers struct {
	M1 *int `json:"m1" validate:"omitempty,min=1,max=5"`
	M2 *int `json:"m2" validate:"omitempty,min=1,max=5"`
	M3 *int `json:"m3" validate:"omitempty,min=1,max=5"`
	M4 *int `json:"m4" validate:"omitempty,min=1,max=5"`
	M5 *int `json:"m5" validate:"omitempty,min=1,max=5"`
	M6 *int `json:"m6" validate:"omitempty,min=1,max=5"`
}

func (m MotivationAnswers) Complete() bool {
	return m.M1 != nil && m.M2 != nil && m.M3 != nil && m.M4 != nil && m.M5 != nil && m.M6 != nil
}

// CalculateMotivations returns nil unless all six answers are present.
func CalculateMotivations(m MotivationAnswers) *domain.Motivations {
	if !m.Complete() {
		return nil
	}

	return &domain.Motivations{
		Intrinsic:   domain.FloatPtr(pairAverage(*m.M1, *m.M4)),
		Social:      domain.FloatPtr(pairAverage(*m.M2, *m.M5)),
		Achievement: domain.FloatPtr(pairAverage(*m.M3, *m.M6)),
	}
}

func pairAverage(a, b int) float64 {
	return math.Round(float64(a+b)/2*100) / 100
}
