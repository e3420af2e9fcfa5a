package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupType string

const (
	GroupTypeSocial       GroupType = "social"
	GroupTypeProfessional GroupType = "professional"
	GroupTypeHobby        GroupType = "hobby"
	GroupTypeSport        GroupType = "sport"
	GroupTypeVolunteer    GroupType = "volunteer"
	GroupTypeEducational  GroupType = "educational"
)

// ParseGroupType falls back to social for unknown values.
func ParseGroupType(s string) GroupType {
	switch GroupType(s) {
	case GroupTypeSocial, GroupTypeProfessional, GroupTypeHobby,
		GroupTypeSport, GroupTypeVolunteer, GroupTypeEducational:
		return GroupType(s)
	}
	return GroupTypeSocial
}

const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"

	StructureStructured     = "structured"
	StructureSemiStructured = "semi-structured"
	StructureFlexible       = "flexible"
)

type Location struct {
	City  string `json:"city" gorm:"column:city;index"`
	State string `json:"state" gorm:"column:state"`
}

// Group is a local interest group. Empty GroupSizeCategory, StructureLevel
// and a nil NewcomerFriendly mean the attribute is unknown.
type Group struct {
	ID                string                       `json:"id" gorm:"column:id;primaryKey"`
	Name              string                       `json:"name" gorm:"column:name;not null"`
	Description       string                       `json:"description" gorm:"column:description"`
	MemberCount       int                          `json:"member_count" gorm:"column:member_count;default:0"`
	GroupType         GroupType                    `json:"group_type" gorm:"column:group_type;default:social"`
	Location          Location                     `json:"location" gorm:"embedded"`
	Source            string                       `json:"source,omitempty" gorm:"column:source"`
	URL               string                       `json:"url,omitempty" gorm:"column:url"`
	GroupSizeCategory string                       `json:"group_size_category,omitempty" gorm:"column:group_size_category"`
	StructureLevel    string                       `json:"structure_level,omitempty" gorm:"column:structure_level"`
	Atmosphere        string                       `json:"atmosphere,omitempty" gorm:"column:atmosphere"`
	MeetingFrequency  string                       `json:"meeting_frequency,omitempty" gorm:"column:meeting_frequency"`
	NewcomerFriendly  *bool                        `json:"newcomer_friendly,omitempty" gorm:"column:newcomer_friendly"`
	Topics            datatypes.JSONSlice[string]  `json:"topics,omitempty" gorm:"column:topics"`
	HealthScore       float64                      `json:"health_score,omitempty" gorm:"column:health_score;default:0"`
	Embedding         datatypes.JSONSlice[float32] `json:"-" gorm:"column:embedding"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// IsNewcomerFriendly reports true only when the attribute is known and set.
func (g Group) IsNewcomerFriendly() bool {
	return g.NewcomerFriendly != nil && *g.NewcomerFriendly
}

func (g Group) HasEmbedding() bool {
	return len(g.Embedding) > 0
}

// GroupSummary is the subset of a group rendered alongside a score.
type GroupSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	GroupType         GroupType `json:"group_type"`
	MemberCount       int       `json:"member_count"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	URL               string    `json:"url,omitempty"`
	GroupSizeCategory string    `json:"group_size_category,omitempty"`
	StructureLevel    string    `json:"structure_level,omitempty"`
	Atmosphere        string    `json:"atmosphere,omitempty"`
	MeetingFrequency  string    `json:"meeting_frequency,omitempty"`
	NewcomerFriendly  *bool     `json:"newcomer_friendly,omitempty"`
}

func (g Group) Summary() GroupSummary {
	return GroupSummary{
		ID:                g.ID,
		Name:              g.Name,
		Description:       g.Description,
		GroupType:         g.GroupType,
		MemberCount:       g.MemberCount,
		City:              g.Location.City,
		State:             g.Location.State,
		URL:               g.URL,
		GroupSizeCategory: g.GroupSizeCategory,
		StructureLevel:    g.StructureLevel,
		Atmosphere:        g.Atmosphere,
		MeetingFrequency:  g.MeetingFrequency,
		NewcomerFriendly:  g.NewcomerFriendly,
	}
}
