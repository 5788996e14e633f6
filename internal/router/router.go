package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rahat09/peerly/backend/internal/handlers"
	"github.com/rahat09/peerly/backend/internal/middleware"
	"github.com/rahat09/peerly/backend/internal/models"
	"github.com/rahat09/peerly/backend/internal/repositories"
	"github.com/rahat09/peerly/backend/internal/services"
	"github.com/rahat09/peerly/backend/pkg/config"
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
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to auto migrate models")
	}
	logrus.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	relationshipRepo := repositories.NewPostgresRelationshipRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDatabase))

	// --- Services ---
	friendshipSvc := services.NewFriendshipService(relationshipRepo, userRepo)
	feedSvc := services.NewFeedService(relationshipRepo, userRepo, postRepo)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if cfg.AuthMode == "firebase" && firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		logrus.Info("Firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware())
		logrus.Info("JWT authentication middleware applied to /api/v1 group")
	}

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	friendshipHandler := handlers.NewFriendshipHandler(friendshipSvc)
	friendshipHandler.RegisterFriendshipRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedSvc)
	feedHandler.RegisterFeedRoutes(api)

	logrus.Info("All routes configured")
}
