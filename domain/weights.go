package domain

import (
	"errors"
	"time"
)

// Weight keys, also used in API payloads.
const (
	WeightPersonality = "personality"
	WeightInterest    = "interest"
	WeightSocialNeeds = "social_needs"
	WeightMotivations = "motivations"
)

// WeightSet mixes the four component scores into a final score.
type WeightSet struct {
	Personality float64 `json:"personality"`
	Interest    float64 `json:"interest"`
	SocialNeeds float64 `json:"social_needs"`
	Motivations float64 `json:"motivations"`
}

func (w WeightSet) Sum() float64 {
	return w.Personality + w.Interest + w.SocialNeeds + w.Motivations
}

func (w WeightSet) Add(o WeightSet) WeightSet {
	return WeightSet{
		Personality: w.Personality + o.Personality,
		Interest:    w.Interest + o.Interest,
		SocialNeeds: w.SocialNeeds + o.SocialNeeds,
		Motivations: w.Motivations + o.Motivations,
	}
}

func (w WeightSet) Scale(f float64) WeightSet {
	return WeightSet{
		Personality: w.Personality * f,
		Interest:    w.Interest * f,
		SocialNeeds: w.SocialNeeds * f,
		Motivations: w.Motivations * f,
	}
}

// Values returns the components in a fixed order: personality, interest,
// social_needs, motivations.
func (w WeightSet) Values() [4]float64 {
	return [4]float64{w.Personality, w.Interest, w.SocialNeeds, w.Motivations}
}

func WeightSetFromValues(v [4]float64) WeightSet {
	return WeightSet{Personality: v[0], Interest: v[1], SocialNeeds: v[2], Motivations: v[3]}
}

// Learning policies.
const (
	PolicySimple   = "simple"
	PolicyAdaptive = "adaptive"
)

var ErrInvalidPolicy = errors.New("policy must be simple or adaptive")

func ValidPolicy(p string) bool {
	return p == PolicySimple || p == PolicyAdaptive
}

// UserLearningPolicy pins a user to one learner.
type UserLearningPolicy struct {
	UserID    string    `json:"user_id" gorm:"column:user_id;primaryKey"`
	Policy    string    `json:"policy" gorm:"column:policy;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserLearningPolicy) TableName() string {
	return "user_learning_policies"
}

// LearnedWeights is the outcome of running a learner over a feedback history.
// Confidence and ConsistencyScore are only filled by the adaptive learner.
type LearnedWeights struct {
	Policy           string    `json:"policy"`
	Weights          WeightSet `json:"weights"`
	Confidence       float64   `json:"confidence"`
	ConsistencyScore float64   `json:"consistency_score"`
	FeedbackCount    int       `json:"feedback_count"`
	Learned          bool      `json:"learned"`
}

type FeedbackSummary struct {
	Policy            string         `json:"policy"`
	TotalFeedback     int            `json:"total_feedback"`
	WithReasons       int            `json:"with_reasons"`
	ReasonCounts      map[string]int `json:"reason_counts"`
	LearnedWeights    WeightSet      `json:"learned_weights"`
	DefaultWeights    WeightSet      `json:"default_weights"`
	HasLearnedWeights bool           `json:"has_learned_weights"`
	Confidence        float64        `json:"confidence"`
	ConsistencyScore  float64        `json:"consistency_score"`
}
