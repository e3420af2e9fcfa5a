package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"groupRecommender/business/recommendation"
	"groupRecommender/domain"
	"groupRecommender/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate              *validator.Validate
		recommendationService RecommendationService
		defaults              RecommendDefaults
		timeout               time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, profile domain.UserProfile, topK int, userID string) (*domain.RecommendationResult, error)
		RecommendForUser(ctx context.Context, userID string, topK int) (*domain.RecommendationResult, error)
		ABPairs(ctx context.Context, userID string, count int) (*domain.ABPairsResult, error)
		RecordFeedback(ctx context.Context, in recommendation.FeedbackInput) (*domain.FeedbackRecord, error)
		FeedbackHistory(ctx context.Context, userID string) ([]domain.FeedbackView, error)
		FeedbackSummary(ctx context.Context, userID string) (*domain.FeedbackSummary, error)
	}

	RecommendDefaults struct {
		City  string
		State string
		TopK  int
	}

	RecommendRequest struct {
		PersonalityScores *domain.TraitScores `json:"personality_scores" validate:"required"`
		Interests         []string            `json:"interests" validate:"max=50,dive,max=100"`
		City              string              `json:"city" validate:"max=100"`
		State             string              `json:"state" validate:"max=50"`
		SocialNeeds       *domain.SocialNeeds `json:"social_needs"`
		Motivations       *domain.Motivations `json:"motivations"`
	}

	RecommendResponse struct {
		City            string                   `json:"city"`
		Count           int                      `json:"count"`
		Recommendations []domain.ScoredCandidate `json:"recommendations"`
		Weights         domain.WeightSet         `json:"weights"`
		Policy          string                   `json:"policy,omitempty"`
		Exclusion       *domain.ExclusionInfo    `json:"exclusion,omitempty"`
	}

	FeedbackHistoryResponse struct {
		Count    int                   `json:"count"`
		Feedback []domain.FeedbackView `json:"feedback"`
	}
)

const (
	maxTopK    = 50
	maxABPairs = 10
)

func NewRecommendationHandler(svc RecommendationService, validate *validator.Validate, defaults RecommendDefaults) *RecommendationHandler {
	if defaults.TopK <= 0 {
		defaults.TopK = 10
	}
	return &RecommendationHandler{
		validate:              validate,
		recommendationService: svc,
		defaults:              defaults,
		timeout:               15 * time.Second,
	}
}

// POST /api/v1/recommend?n=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	n, err := queryInt(c, "n", h.defaults.TopK, maxTopK)
	if err != nil {
		return badRequest(c, err)
	}

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	loc := domain.Location{City: strings.TrimSpace(req.City), State: strings.TrimSpace(req.State)}
	if loc.City == "" {
		loc = domain.Location{City: h.defaults.City, State: h.defaults.State}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.recommendationService.Recommend(ctx, domain.UserProfile{
		Personality: req.PersonalityScores,
		Interests:   req.Interests,
		Location:    loc,
		SocialNeeds: req.SocialNeeds,
		Motivations: req.Motivations,
	}, n, "")
	if err != nil {
		return fail(c, "Failed to recommend groups", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(toRecommendResponse(res)))
}

// GET /api/v1/me/recommendations?n=10
func (h *RecommendationHandler) MyRecommendations(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	n, err := queryInt(c, "n", h.defaults.TopK, maxTopK)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.recommendationService.RecommendForUser(ctx, userID, n)
	if err != nil {
		return fail(c, "Failed to recommend groups for user", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(toRecommendResponse(res)))
}

// GET /api/v1/me/ab-pairs?count=3
func (h *RecommendationHandler) ABPairs(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	count, err := queryInt(c, "count", 1, maxABPairs)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.recommendationService.ABPairs(ctx, userID, count)
	if err != nil {
		return fail(c, "Failed to build A/B pairs", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/me/feedback
func (h *RecommendationHandler) Feedback(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req recommendation.FeedbackInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}
	req.UserID = userID

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.RecordFeedback(ctx, req)
	if err != nil {
		return fail(c, "Failed to record feedback", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(rec.View()))
}

// GET /api/v1/me/feedback
func (h *RecommendationHandler) FeedbackHistory(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	views, err := h.recommendationService.FeedbackHistory(ctx, userID)
	if err != nil {
		return fail(c, "Failed to load feedback history", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(FeedbackHistoryResponse{
		Count:    len(views),
		Feedback: views,
	}))
}

// GET /api/v1/me/feedback/summary
func (h *RecommendationHandler) FeedbackSummary(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.recommendationService.FeedbackSummary(ctx, userID)
	if err != nil {
		return fail(c, "Failed to summarize feedback", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// GET /api/v1/admin/feedback?user_id=
// Without user_id every user's results are listed, newest first.
func (h *RecommendationHandler) AdminFeedbackHistory(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	views, err := h.recommendationService.FeedbackHistory(ctx, userID)
	if err != nil {
		return fail(c, "Failed to load feedback history", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(FeedbackHistoryResponse{
		Count:    len(views),
		Feedback: views,
	}))
}

func toRecommendResponse(res *domain.RecommendationResult) RecommendResponse {
	return RecommendResponse{
		City:            res.City,
		Count:           len(res.Candidates),
		Recommendations: res.Candidates,
		Weights:         res.Weights,
		Policy:          res.Policy,
		Exclusion:       res.Exclusion,
	}
}
