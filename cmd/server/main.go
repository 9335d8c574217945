package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bigbestmart/bnbmart-backend/config"
	"github.com/bigbestmart/bnbmart-backend/internal/app/controller"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	"github.com/bigbestmart/bnbmart-backend/internal/db"
	"github.com/bigbestmart/bnbmart-backend/internal/router"
	"github.com/bigbestmart/bnbmart-backend/internal/scheduler"
	"github.com/bigbestmart/bnbmart-backend/internal/storage"
	"github.com/bigbestmart/bnbmart-backend/internal/websocket"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Big&Best Mart Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Cart snapshots live in Redis; fall back to process memory when Redis
	// is unreachable so local development works without it.
	var cartKV storage.KVStore
	redisKV, err := storage.NewRedisKV(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cart storage", map[string]interface{}{
			"error": err.Error(),
		})
		cartKV = storage.NewMemoryKV()
	} else {
		cartKV = redisKV
		defer func() {
			if err := redisKV.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(cartKV, cfg.Cart.KeyPrefix)

	// WebSocket hub pushes cart notifications to connected clients
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	notificationService := service.NewNotificationService(hub, cfg.Cart.NotificationHistory)
	go notificationService.Run()
	defer notificationService.Stop()

	catalogService := service.NewCatalogService(productRepo, cfg.Cart.DefaultMaxStock)
	cartService := service.NewCartService(cartRepo, notificationService, cfg.Cart.DefaultMaxStock)
	checkoutService := service.NewCheckoutService(cartService, orderRepo, db.GetDB())

	var reportService service.ReportService
	if cfg.Report.Enabled {
		uploader := storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		reportService = service.NewReportService(orderRepo, uploader, cfg.Report.Prefix)
	}

	// Start background jobs
	jobs := scheduler.NewScheduler(catalogService, reportService, cfg.Report)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer jobs.Stop()

	// Initialize controllers
	productController := controller.NewProductController(catalogService)
	cartController := controller.NewCartController(cartService, catalogService)
	orderController := controller.NewOrderController(checkoutService)
	notificationController := controller.NewNotificationController(notificationService, hub)

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		notificationController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
