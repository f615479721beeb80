package router

import (
	"context"

	"github.com/ideanest/backend/internal/handlers"
	"github.com/ideanest/backend/internal/middleware"
	"github.com/ideanest/backend/internal/notify"
	"github.com/ideanest/backend/internal/realtime"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/ideanest/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(ctx context.Context, e *echo.Echo, cfg *config.Config, db *config.DB, log zerolog.Logger) {
	mongoDB := db.Mongo.Database(cfg.MongoDB)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	ideaRepo := repositories.NewMongoIdeaRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	// --- Live delivery channel ---
	hub := realtime.NewHub(log)
	wsHandler := realtime.NewHandler(hub, log)
	wsHandler.RegisterRoutes(e)

	// With Redis configured, pushes fan out across instances; otherwise the
	// in-memory hub serves the single-instance case.
	var pusher realtime.Pusher = hub
	if db.Redis != nil {
		bridge := realtime.NewRedisBridge(db.Redis, hub, log)
		go bridge.Run(ctx)
		pusher = bridge
		log.Info().Msg("live delivery using redis pub/sub bridge")
	}

	dispatcher := notify.NewDispatcher(notificationRepo, userRepo, ideaRepo, pusher, log)

	// --- Unprotected routes for authentication ---
	public := e.Group("/api")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.IsProduction())
	authHandler.RegisterAuthRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	protected := e.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(protected)

	ideaHandler := handlers.NewIdeaHandler(ideaRepo, userRepo, commentRepo, dispatcher, log)
	ideaHandler.RegisterIdeaRoutes(public, protected)

	commentHandler := handlers.NewCommentHandler(commentRepo, userRepo)
	commentHandler.RegisterCommentRoutes(protected)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, ideaRepo)
	notificationHandler.RegisterNotificationRoutes(protected)

	log.Info().Msg("all routes configured")
}
