package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"groupRecommender/business/recommendation"
	"groupRecommender/pkg/logger"

	jsonres "groupRecommender/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped a handler. echo's own HTTP errors
// (404 route, 405, bind failures) keep their status; anything else is a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	traceID := recommendation.TraceIDFromContext(c.Request().Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "error", err, "path", c.Path(), "trace_id", traceID)
	} else {
		logger.Debug("Request rejected", "status", status, "path", c.Path(), "trace_id", traceID)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(codeFor(status), message, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}
