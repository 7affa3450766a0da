package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/router"
	"github.com/liuwei-h/personal-site/backend/pkg/config"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		zlog.Fatal("failed to initialize database", "error", err)
	}
	defer config.CloseDB(db)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, cfg, zlog); err != nil {
		zlog.Fatal("failed to set up routes", "error", err)
	}

	// Start server
	zlog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
