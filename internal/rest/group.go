package rest

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"groupRecommender/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type GroupService interface {
	ListByCity(ctx context.Context, city string) ([]domain.Group, error)
	GetGroupByID(ctx context.Context, id string) (domain.Group, error)
	UpsertGroup(ctx context.Context, g *domain.Group) (*domain.Group, error)
	RegenerateEmbeddings(ctx context.Context, city string) (int, error)
}

type GroupHandler struct {
	groupService GroupService
	validator    *validator.Validate
	defaultCity  string
	timeout      time.Duration
}

func NewGroupHandler(groupService GroupService, validate *validator.Validate, defaultCity string) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		validator:    validate,
		defaultCity:  defaultCity,
		timeout:      10 * time.Second,
	}
}

const listDescriptionLimit = 100

type GroupListItem struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	MemberCount       int              `json:"member_count"`
	GroupType         domain.GroupType `json:"group_type"`
	GroupSizeCategory string           `json:"group_size_category,omitempty"`
	URL               string           `json:"url,omitempty"`
}

type GroupListResponse struct {
	City   string          `json:"city"`
	Count  int             `json:"count"`
	Groups []GroupListItem `json:"groups"`
}

type UpsertGroupRequest struct {
	ID                string   `json:"id" validate:"omitempty,max=100"`
	Name              string   `json:"name" validate:"required,max=200"`
	Description       string   `json:"description" validate:"max=5000"`
	MemberCount       int      `json:"member_count" validate:"min=0"`
	GroupType         string   `json:"group_type"`
	City              string   `json:"city" validate:"required,max=100"`
	State             string   `json:"state" validate:"max=50"`
	Source            string   `json:"source"`
	URL               string   `json:"url" validate:"omitempty,url"`
	GroupSizeCategory string   `json:"group_size_category" validate:"omitempty,oneof=small medium large"`
	StructureLevel    string   `json:"structure_level" validate:"omitempty,oneof=structured semi-structured flexible"`
	Atmosphere        string   `json:"atmosphere"`
	MeetingFrequency  string   `json:"meeting_frequency"`
	NewcomerFriendly  *bool    `json:"newcomer_friendly"`
	Topics            []string `json:"topics"`
	HealthScore       float64  `json:"health_score" validate:"min=0"`
}

type RegenerateEmbeddingsResponse struct {
	City    string `json:"city"`
	Updated int    `json:"updated"`
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		city = h.defaultCity
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	groups, err := h.groupService.ListByCity(ctx, city)
	if err != nil {
		return fail(c, "Failed to list groups", err)
	}

	items := make([]GroupListItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, GroupListItem{
			ID:                g.ID,
			Name:              g.Name,
			Description:       truncate(g.Description, listDescriptionLimit),
			MemberCount:       g.MemberCount,
			GroupType:         g.GroupType,
			GroupSizeCategory: g.GroupSizeCategory,
			URL:               g.URL,
		})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(GroupListResponse{
		City:   city,
		Count:  len(items),
		Groups: items,
	}))
}

func (h *GroupHandler) GetGroupByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	g, err := h.groupService.GetGroupByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, "Failed to find group", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(g))
}

func (h *GroupHandler) UpsertGroup(c echo.Context) error {
	var req UpsertGroupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	saved, err := h.groupService.UpsertGroup(ctx, &domain.Group{
		ID:                req.ID,
		Name:              req.Name,
		Description:       req.Description,
		MemberCount:       req.MemberCount,
		GroupType:         domain.GroupType(req.GroupType),
		Location:          domain.Location{City: req.City, State: req.State},
		Source:            req.Source,
		URL:               req.URL,
		GroupSizeCategory: req.GroupSizeCategory,
		StructureLevel:    req.StructureLevel,
		Atmosphere:        req.Atmosphere,
		MeetingFrequency:  req.MeetingFrequency,
		NewcomerFriendly:  req.NewcomerFriendly,
		Topics:            req.Topics,
		HealthScore:       req.HealthScore,
	})
	if err != nil {
		return fail(c, "Failed to upsert group", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(saved))
}

// RegenerateEmbeddings recomputes description vectors for one city and runs
// with ten times the usual timeout.
func (h *GroupHandler) RegenerateEmbeddings(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		city = h.defaultCity
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*h.timeout)
	defer cancel()

	n, err := h.groupService.RegenerateEmbeddings(ctx, city)
	if err != nil {
		return fail(c, "Failed to regenerate embeddings", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RegenerateEmbeddingsResponse{City: city, Updated: n}))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
