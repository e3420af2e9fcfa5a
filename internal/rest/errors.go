package rest

import (
	"errors"
	"net/http"
	"strconv"

	"groupRecommender/business/group"
	"groupRecommender/business/recommendation"
	userService "groupRecommender/business/user"
	"groupRecommender/domain"
	"groupRecommender/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP codes: bad credentials are 401,
// missing records 404 and rejected input 400. Anything else is a server
// failure.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, userService.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.As(err, &verrs),
		errors.Is(err, userService.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidVariant),
		errors.Is(err, domain.ErrInvalidPolicy),
		errors.Is(err, recommendation.ErrSameGroup),
		errors.Is(err, group.ErrGroupNameRequired),
		errors.Is(err, group.ErrGroupCityRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail logs server side failures and writes the error body. Internal error
// details are not leaked to the client.
func fail(c echo.Context, msg string, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, "error", err, "trace_id", recommendation.TraceIDFromContext(c.Request().Context()))
		return c.JSON(status, ResponseError{Message: "internal server error"})
	}
	return c.JSON(status, ResponseError{Message: err.Error()})
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

// queryInt reads a positive integer query parameter, falling back to def
// when it is absent. Values above limit are clamped.
func queryInt(c echo.Context, name string, def, limit int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	if n > limit {
		n = limit
	}
	return n, nil
}
