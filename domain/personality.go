package domain

// Trait levels derived from a 2..14 trait score.
const (
	TraitLow    = "low"
	TraitMedium = "medium"
	TraitHigh   = "high"
)

// TraitScores holds the three quiz-derived traits, each in [2,14].
type TraitScores struct {
	Extraversion      int `json:"extraversion" validate:"min=2,max=14"`
	Conscientiousness int `json:"conscientiousness" validate:"min=2,max=14"`
	Openness          int `json:"openness" validate:"min=2,max=14"`
}

// SocialNeeds fields are optional; nil means the user did not answer.
type SocialNeeds struct {
	LonelinessFrequency *int `json:"loneliness_frequency,omitempty" validate:"omitempty,min=1,max=5"`
	CloseFriendsCount   *int `json:"close_friends_count,omitempty" validate:"omitempty,min=0"`
	SocialSatisfaction  *int `json:"social_satisfaction,omitempty" validate:"omitempty,min=1,max=7"`
}

// IsEmpty is true for a struct with no answered field, which counts as absent.
func (s *SocialNeeds) IsEmpty() bool {
	return s == nil || (s.LonelinessFrequency == nil && s.CloseFriendsCount == nil && s.SocialSatisfaction == nil)
}

// Motivations are averages of two 1..5 answers each.
type Motivations struct {
	Intrinsic   *float64 `json:"intrinsic,omitempty" validate:"omitempty,min=1,max=5"`
	Social      *float64 `json:"social,omitempty" validate:"omitempty,min=1,max=5"`
	Achievement *float64 `json:"achievement,omitempty" validate:"omitempty,min=1,max=5"`
}

func (m *Motivations) IsEmpty() bool {
	return m == nil || (m.Intrinsic == nil && m.Social == nil && m.Achievement == nil)
}

// Personality dimension names used as component keys.
const (
	DimExtraversion      = "extraversion"
	DimConscientiousness = "conscientiousness"
	DimOpenness          = "openness"
	DimSocialNeeds       = "social_needs"
	DimMotivations       = "motivations"
)

// PersonalityFit is the overall fit plus only the dimensions that could be computed.
type PersonalityFit struct {
	Overall    float64            `json:"overall"`
	Components map[string]float64 `json:"components"`
}

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

func BoolPtr(v bool) *bool { return &v }
