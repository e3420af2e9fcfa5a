package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupRecommender/app/echo-server/router"
	groupService "groupRecommender/business/group"
	"groupRecommender/business/interest"
	"groupRecommender/business/learning"
	"groupRecommender/business/recommendation"
	userService "groupRecommender/business/user"
	"groupRecommender/domain"
	"groupRecommender/internal/middleware"
	"groupRecommender/internal/repository/embedding"
	psqlRepo "groupRecommender/internal/repository/postgres"
	redisRepo "groupRecommender/internal/repository/redis"
	"groupRecommender/internal/rest"
	"groupRecommender/pkg/config"
	"groupRecommender/pkg/database"
	redisClient "groupRecommender/pkg/database/redis"
	"groupRecommender/pkg/logger"
	"groupRecommender/pkg/metrics"
	"groupRecommender/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting group recommender", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis only backs the embedding cache; without it vectors are memoized
	// in process.
	var rdb *redis.Client
	var vectorStore embedding.VectorStore
	if cfg.Redis.Enabled {
		rdb, err = redisClient.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, embedding cache is in-process only", "error", err)
		} else {
			vectorStore = redisRepo.NewVectorRepository(rdb)
			defer redisClient.CloseRedisClient(rdb)
		}
	}

	embedder := embedding.NewCached(newEmbeddingProvider(cfg.Embedding), vectorStore, cfg.Embedding.CacheTTL)
	logger.Info("Embedding provider ready", "provider", cfg.Embedding.Provider, "model", embedder.ModelID())

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	groupRepo := psqlRepo.NewGroupRepository(db)
	feedbackRepo := psqlRepo.NewFeedbackRepository(db)
	policyRepo := psqlRepo.NewLearningPolicyRepository(db)

	// Init service
	defaultLocation := domain.Location{City: cfg.Recommend.DefaultCity, State: cfg.Recommend.DefaultState}

	resolver := learning.NewResolver(policyRepo, learning.Config{
		Policy:          cfg.Learning.Policy,
		AdaptivePercent: cfg.Learning.AdaptivePercent,
		MinFeedback:     cfg.Learning.MinFeedback,
	})
	users := userService.NewUserService(userRepo, validate, defaultLocation)
	adminAuth := userService.NewAdminAuth(userService.AdminCredentials{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	groups := groupService.NewGroupService(groupRepo, embedder)
	recommender := recommendation.NewService(
		groupRepo,
		feedbackRepo,
		userRepo,
		interest.NewMatcher(embedder),
		resolver,
		recommendation.Config{
			DefaultTopK:  cfg.Recommend.DefaultTopK,
			DefaultCity:  cfg.Recommend.DefaultCity,
			DefaultState: cfg.Recommend.DefaultState,
		},
	)

	// Init handler
	quizHandler := rest.NewQuizHandler(validate)
	userHandler := rest.NewUserHandler(users)
	groupHandler := rest.NewGroupHandler(groups, validate, cfg.Recommend.DefaultCity)
	recommendationHandler := rest.NewRecommendationHandler(recommender, validate, rest.RecommendDefaults{
		City:  cfg.Recommend.DefaultCity,
		State: cfg.Recommend.DefaultState,
		TopK:  cfg.Recommend.DefaultTopK,
	})
	learningAdminHandler := rest.NewLearningAdminHandler(resolver, validate)
	adminAuthHandler := rest.NewAdminAuthHandler(adminAuth, validate)

	checks := map[string]rest.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	healthHandler := rest.NewHealthHandler(cfg.App.Version, checks)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupOpsRoutes(e, healthHandler)

	api := e.Group("/api/v1")
	router.SetupQuizRoutes(api, quizHandler)
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupGroupRoutes(api, groupHandler, authRequired, adminOnly)
	router.SetupRecommendationRoutes(api, recommendationHandler, authRequired)
	router.SetupAdminAuthRoutes(api, adminAuthHandler)
	router.SetupLearningAdminRoutes(api, learningAdminHandler, authRequired, adminOnly)
	router.SetupFeedbackAdminRoutes(api, recommendationHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func newEmbeddingProvider(cfg config.EmbeddingConfig) embedding.Provider {
	if cfg.Provider == "http" {
		return embedding.NewHTTPProvider(embedding.HTTPConfig{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			APIKey:            cfg.APIKey,
			BasicAuthUsername: cfg.BasicAuthUsername,
			BasicAuthPassword: cfg.BasicAuthPassword,
			Dimension:         cfg.Dimension,
			Timeout:           cfg.Timeout,
		})
	}
	return embedding.NewHashingProvider(cfg.Dimension)
}
