package domain

// ScoredCandidate is one ranked group with everything needed to explain its
// position. It only lives for the duration of a recommend call.
type ScoredCandidate struct {
	Group                 GroupSummary       `json:"group"`
	PersonalityScore      float64            `json:"personality_score"`
	PersonalityComponents map[string]float64 `json:"personality_components"`
	InterestScore         float64            `json:"interest_score"`
	SocialNeedsScore      float64            `json:"social_needs_score"`
	MotivationsScore      float64            `json:"motivations_score"`
	WeightsUsed           WeightSet          `json:"weights_used"`
	Breakdown             WeightSet          `json:"breakdown"`
	FinalScore            float64            `json:"final_score"`
}

// ExclusionInfo is attached when recommendations were made for a known user.
type ExclusionInfo struct {
	ExcludedCount int `json:"excluded_count"`
	TotalGroups   int `json:"total_groups"`
}

type RecommendationResult struct {
	City       string            `json:"city"`
	Candidates []ScoredCandidate `json:"candidates"`
	Weights    WeightSet         `json:"weights"`
	Policy     string            `json:"policy,omitempty"`
	Exclusion  *ExclusionInfo    `json:"exclusion,omitempty"`
}

// ABPair is two consecutive candidates offered for comparison.
type ABPair struct {
	TestID   string          `json:"test_id"`
	VariantA ScoredCandidate `json:"variant_a"`
	VariantB ScoredCandidate `json:"variant_b"`
}

type ABPairsResult struct {
	UserID              string          `json:"user_id"`
	Pairs               []ABPair        `json:"pairs"`
	Count               int             `json:"count"`
	ExcludedGroupsCount int             `json:"excluded_groups_count"`
	Learning            FeedbackSummary `json:"learning"`
}
