package rest

import (
	"context"
	"net/http"
	"time"

	userService "groupRecommender/business/user"
	"groupRecommender/domain"
	"groupRecommender/internal/middleware"
	"groupRecommender/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	CreateProfile(ctx context.Context, in userService.ProfileInput) (domain.User, string, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, in userService.ProfileUpdate) (domain.User, error)
}

type UserHandler struct {
	userService UserService
	timeout     time.Duration
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		userService: svc,
		timeout:     10 * time.Second,
	}
}

type CreateUserResponse struct {
	UserID string      `json:"user_id"`
	Token  string      `json:"token"`
	User   domain.User `json:"user"`
}

// CreateUser stores a profile built from quiz answers and returns a bearer
// token for the /me routes. Validation happens in the service.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userService.ProfileInput
	if err := c.Bind(&req); err != nil {
		logger.Debug("Invalid request body", "error", err)
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, token, err := h.userService.CreateProfile(ctx, req)
	if err != nil {
		return fail(c, "Failed to create user profile", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(CreateUserResponse{
		UserID: u.ID,
		Token:  token,
		User:   u,
	}))
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return fail(c, "Failed to get user", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(u))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req userService.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		return fail(c, "Failed to update user", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(u))
}
