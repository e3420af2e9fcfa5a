package domain

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

var ErrUserNotFound = errors.New("user not found")

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                string                           `json:"id" gorm:"column:id;primaryKey"`
	Name              string                           `json:"name" gorm:"column:name"`
	Email             string                           `json:"email,omitempty" gorm:"column:email;index"`
	Role              string                           `json:"role" gorm:"column:role;default:user"`
	PersonalityScores datatypes.JSONType[*TraitScores] `json:"personality_scores" gorm:"column:personality_scores"`
	Interests         datatypes.JSONSlice[string]      `json:"interests" gorm:"column:interests"`
	Location          Location                         `json:"location" gorm:"embedded"`
	SocialNeeds       datatypes.JSON                   `json:"social_needs,omitempty" gorm:"column:social_needs"`
	Motivations       datatypes.JSON                   `json:"motivations,omitempty" gorm:"column:motivations"`
	AffinityGroups    datatypes.JSONSlice[string]      `json:"affinity_groups,omitempty" gorm:"column:affinity_groups"`
	Preferences       datatypes.JSONMap                `json:"preferences,omitempty" gorm:"column:preferences"`
	CreatedAt         time.Time                        `json:"created_at"`
	UpdatedAt         time.Time                        `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Traits returns nil when the quiz was not completed.
func (u User) Traits() *TraitScores {
	return u.PersonalityScores.Data()
}

func (u *User) SetTraits(t *TraitScores) {
	u.PersonalityScores = datatypes.NewJSONType(t)
}

// ParsedSocialNeeds returns nil for a missing or empty column.
func (u User) ParsedSocialNeeds() *SocialNeeds {
	var sn SocialNeeds
	if !decodeOptional(u.SocialNeeds, &sn) || sn.IsEmpty() {
		return nil
	}
	return &sn
}

func (u *User) SetSocialNeeds(sn *SocialNeeds) {
	u.SocialNeeds = encodeOptional(sn, sn.IsEmpty())
}

func (u User) ParsedMotivations() *Motivations {
	var m Motivations
	if !decodeOptional(u.Motivations, &m) || m.IsEmpty() {
		return nil
	}
	return &m
}

func (u *User) SetMotivations(m *Motivations) {
	u.Motivations = encodeOptional(m, m.IsEmpty())
}

// Profile builds the scoring view of the user.
func (u User) Profile() UserProfile {
	return UserProfile{
		Personality: u.Traits(),
		Interests:   []string(u.Interests),
		Location:    u.Location,
		SocialNeeds: u.ParsedSocialNeeds(),
		Motivations: u.ParsedMotivations(),
	}
}

// UserProfile is everything the scorer needs about a user.
type UserProfile struct {
	Personality *TraitScores `json:"personality_scores"`
	Interests   []string     `json:"interests"`
	Location    Location     `json:"location"`
	SocialNeeds *SocialNeeds `json:"social_needs,omitempty"`
	Motivations *Motivations `json:"motivations,omitempty"`
}

func decodeOptional(raw datatypes.JSON, dst any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func encodeOptional(v any, empty bool) datatypes.JSON {
	if empty {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
