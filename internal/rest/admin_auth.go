package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type AdminAuthHandler struct {
	authService AdminAuthService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewAdminAuthHandler(authService AdminAuthService, validate *validator.Validate) *AdminAuthHandler {
	return &AdminAuthHandler{
		authService: authService,
		validator:   validate,
		timeout:     5 * time.Second,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

// POST /api/v1/admin/login
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, "Failed to log in admin", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(AdminLoginResponse{Token: token}))
}
