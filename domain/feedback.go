package domain

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
)

const (
	VariantA = "A"
	VariantB = "B"
)

var ErrInvalidVariant = errors.New("selected_variant must be A or B")

// Reason codes understood by the weight learners. Unknown codes are ignored.
const (
	ReasonBetterInterestMatch  = "better_interest_match"
	ReasonMoreWelcoming        = "more_welcoming"
	ReasonBetterPersonalityFit = "better_personality_fit"
	ReasonMoreConvenient       = "more_convenient"
	ReasonLargerGroup          = "larger_group"
	ReasonMoreStructured       = "more_structured"
	ReasonMoreCasual           = "more_casual"
	ReasonBetterDescription    = "better_description"
)

// FeedbackRecord is one A/B comparison result. Reason holds the raw JSON
// encoded list of reason codes and may be empty or malformed.
type FeedbackRecord struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	UserID          string    `json:"user_id" gorm:"column:user_id;index;not null"`
	TestID          string    `json:"test_id" gorm:"column:test_id;index"`
	VariantAGroupID string    `json:"variant_a_group_id" gorm:"column:variant_a_group_id;not null"`
	VariantBGroupID string    `json:"variant_b_group_id" gorm:"column:variant_b_group_id;not null"`
	SelectedVariant string    `json:"selected_variant" gorm:"column:selected_variant;not null"`
	Reason          string    `json:"reason,omitempty" gorm:"column:reason;type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (FeedbackRecord) TableName() string {
	return "ab_test_results"
}

// ReasonPayload describes what a record's reason text decoded to.
type ReasonPayload int

const (
	// ReasonMissing: empty text.
	ReasonMissing ReasonPayload = iota
	// ReasonMalformed: invalid JSON or not a list.
	ReasonMalformed
	// ReasonList: a JSON list (possibly empty) or null.
	ReasonList
)

// ParseReasons decodes the reason payload. Non-string list elements are dropped.
func (f FeedbackRecord) ParseReasons() ([]string, ReasonPayload) {
	if f.Reason == "" {
		return nil, ReasonMissing
	}

	var raw any
	if err := json.Unmarshal([]byte(f.Reason), &raw); err != nil {
		return nil, ReasonMalformed
	}
	if raw == nil {
		return nil, ReasonList
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, ReasonMalformed
	}

	codes := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			codes = append(codes, s)
		}
	}

	return codes, ReasonList
}

// EncodeReasons returns "" for an empty list so no reason is stored.
func EncodeReasons(codes []string) string {
	if len(codes) == 0 {
		return ""
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return ""
	}
	return string(b)
}

// FeedbackView is a record with its reasons decoded, for API responses.
type FeedbackView struct {
	ID              string    `json:"id"`
	TestID          string    `json:"test_id"`
	VariantAGroupID string    `json:"variant_a_group_id"`
	VariantBGroupID string    `json:"variant_b_group_id"`
	SelectedVariant string    `json:"selected_variant"`
	Reasons         []string  `json:"reasons"`
	CreatedAt       time.Time `json:"created_at"`
}

func (f FeedbackRecord) View() FeedbackView {
	reasons, _ := f.ParseReasons()
	if reasons == nil {
		reasons = []string{}
	}
	return FeedbackView{
		ID:              f.ID,
		TestID:          f.TestID,
		VariantAGroupID: f.VariantAGroupID,
		VariantBGroupID: f.VariantBGroupID,
		SelectedVariant: f.SelectedVariant,
		Reasons:         reasons,
		CreatedAt:       f.CreatedAt,
	}
}
