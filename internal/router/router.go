package router

import (
	"github.com/connectly/backend/internal/handlers"
	"github.com/connectly/backend/internal/metrics"
	"github.com/connectly/backend/internal/middleware"
	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/repositories"
	"github.com/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logrus.Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client) error {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
	); err != nil {
		return err
	}
	logrus.Info("PostgreSQL auto-migrations completed")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	m := metrics.InitMetrics()

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("connectly"))

	// --- Initialize Services ---
	relationshipService := services.NewRelationshipService(followRepo, userRepo)
	feedService := services.NewFeedService(followRepo, postRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	logrus.Info("Auth routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterUserRoutes(api)

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, m)
	postHandler.RegisterPostRoutes(api.Group("/posts"))

	// Social routes: follow graph + relationship listings
	followHandler := handlers.NewFollowHandler(relationshipService, userRepo, m)
	followHandler.RegisterSocialRoutes(api.Group("/social"))

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService, userRepo, m)
	feedHandler.RegisterFeedRoutes(api.Group("/social"))

	logrus.Info("All routes configured")
	return nil
}
