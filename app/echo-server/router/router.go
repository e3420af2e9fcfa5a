package router

import (
	"groupRecommender/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupQuizRoutes(api *echo.Group, handler *rest.QuizHandler) {
	api.POST("/personality-quiz", handler.PersonalityQuiz)
	api.POST("/motivation-quiz", handler.MotivationQuiz)
}

func SetupGroupRoutes(api *echo.Group, handler *rest.GroupHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	groups := api.Group("/groups")
	groups.GET("", handler.ListGroups)
	groups.GET("/:id", handler.GetGroupByID)

	admin := api.Group("/admin/groups", authRequired, adminOnly)
	admin.PUT("", handler.UpsertGroup)
	admin.POST("/embeddings", handler.RegenerateEmbeddings)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/users", handler.CreateUser)

	api.GET("/me", handler.GetMe, authRequired)
	api.PUT("/me", handler.UpdateMe, authRequired)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/recommend", handler.Recommend)

	api.GET("/me/recommendations", handler.MyRecommendations, authRequired)
	api.GET("/me/ab-pairs", handler.ABPairs, authRequired)
	api.POST("/me/feedback", handler.Feedback, authRequired)
	api.GET("/me/feedback", handler.FeedbackHistory, authRequired)
	api.GET("/me/feedback/summary", handler.FeedbackSummary, authRequired)
}

func SetupFeedbackAdminRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/feedback", authRequired, adminOnly)
	admin.GET("", handler.AdminFeedbackHistory)
}

func SetupAdminAuthRoutes(api *echo.Group, handler *rest.AdminAuthHandler) {
	api.POST("/admin/login", handler.Login)
}

func SetupLearningAdminRoutes(api *echo.Group, handler *rest.LearningAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/learning", authRequired, adminOnly)
	admin.GET("/policy", handler.GetPolicy)
	admin.PUT("/policy", handler.SetPolicy)
}

// SetupOpsRoutes mounts health and Prometheus endpoints at the root, outside
// the versioned API.
func SetupOpsRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/healthz", handler.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
