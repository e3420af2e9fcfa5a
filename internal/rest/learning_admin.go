package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	LearningAdminHandler struct {
		validate *validator.Validate
		policies PolicyResolver
		timeout  time.Duration
	}

	PolicyResolver interface {
		Resolve(ctx context.Context, userID string) (string, string)
		SetPolicy(ctx context.Context, userID, policy string) error
	}

	PolicyRequest struct {
		UserID string `json:"user_id" validate:"required,max=100"`
		Policy string `json:"policy" validate:"required"`
	}

	PolicyResponse struct {
		UserID string `json:"user_id"`
		Policy string `json:"policy"`
		Source string `json:"source"`
	}
)

func NewLearningAdminHandler(policies PolicyResolver, validate *validator.Validate) *LearningAdminHandler {
	return &LearningAdminHandler{
		validate: validate,
		policies: policies,
		timeout:  5 * time.Second,
	}
}

// GET /api/v1/admin/learning/policy?user_id=...
func (h *LearningAdminHandler) GetPolicy(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))
	if userID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "user_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policy, source := h.policies.Resolve(ctx, userID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PolicyResponse{
		UserID: userID,
		Policy: policy,
		Source: source,
	}))
}

// PUT /api/v1/admin/learning/policy
func (h *LearningAdminHandler) SetPolicy(c echo.Context) error {
	var req PolicyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	policy := strings.ToLower(strings.TrimSpace(req.Policy))
	if err := h.policies.SetPolicy(ctx, req.UserID, policy); err != nil {
		return fail(c, "Failed to set learning policy", err)
	}

	resolved, source := h.policies.Resolve(ctx, req.UserID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PolicyResponse{
		UserID: req.UserID,
		Policy: resolved,
		Source: source,
	}))
}
