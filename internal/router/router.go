package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/liuwei-h/personal-site/backend/internal/handlers"
	"github.com/liuwei-h/personal-site/backend/internal/middleware"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/internal/services"
	"github.com/liuwei-h/personal-site/backend/pkg/config"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Project{},
		&models.UserInteraction{},
		&models.Comment{},
		&models.CommentReply{},
		&models.CommentLike{},
		&models.Notification{},
		&models.Message{},
		&models.MessageReply{},
	)
	if err != nil {
		return err
	}
	log.Info("auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	contentRepo := repositories.NewPostgresContentRepository(db)
	interactionRepo := repositories.NewPostgresInteractionRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)

	// --- Initialize services ---
	aggregates := services.NewAggregateMaintainer(contentRepo, interactionRepo, commentRepo)
	notificationService := services.NewNotificationService(db, notificationRepo, log)
	interactionService := services.NewInteractionService(db, contentRepo, interactionRepo, aggregates, notificationService, log)
	commentService := services.NewCommentService(db, contentRepo, commentRepo, commentLikeRepo, userRepo, aggregates, notificationService, log)
	messageService := services.NewMessageService(db, messageRepo, notificationService, log)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// Public reads and contact intake carry the actor when a token is sent
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTMiddleware(cfg.JWTSecret))

	contentHandler := handlers.NewContentHandler(contentRepo)
	contentHandler.RegisterContentRoutes(public)

	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterPublicCommentRoutes(public)

	messageHandler := handlers.NewMessageHandler(messageService)
	messageHandler.RegisterContactRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	interactionHandler := handlers.NewInteractionHandler(interactionService)
	interactionHandler.RegisterInteractionRoutes(api)

	commentHandler.RegisterCommentRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)

	// --- Admin routes ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnly())
	messageHandler.RegisterAdminRoutes(admin)

	log.Info("all routes configured")
	return nil
}
