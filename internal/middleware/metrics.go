package middleware

import (
	"strconv"
	"time"

	"groupRecommender/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records latency and a status-class counter per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status

			metrics.RecommendLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			metrics.RecommendRequests.WithLabelValues(route, strconv.Itoa(status/100)+"xx").Inc()

			return nil
		}
	}
}
