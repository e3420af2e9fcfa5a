package middleware

import (
	"strings"

	"groupRecommender/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestID reuses an incoming X-Request-ID or mints one, echoes it back and
// carries it on the request context so service logs can be correlated.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := strings.TrimSpace(req.Header.Get(echo.HeaderXRequestID))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(recommendation.WithTraceID(req.Context(), id)))

			return next(c)
		}
	}
}
