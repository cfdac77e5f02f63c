package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okim/optionlogic-backend/config"
	"github.com/okim/optionlogic-backend/internal/app/controller"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/app/service"
	"github.com/okim/optionlogic-backend/internal/db"
	"github.com/okim/optionlogic-backend/internal/middleware"
	"github.com/okim/optionlogic-backend/internal/router"
	"github.com/okim/optionlogic-backend/internal/scheduler"
	"github.com/okim/optionlogic-backend/internal/storage"
	ws "github.com/okim/optionlogic-backend/internal/websocket"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"github.com/okim/optionlogic-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting OPTIONLOGIC Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional: without it, evaluation reads from the database on
	// every request.
	var snapshotCache service.SnapshotCache
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, snapshot caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		snapshotCache = service.NewRedisSnapshotCache()
		defer redis.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	setRepo := repository.NewOptionSetRepository(db.GetDB())
	optionRepo := repository.NewOptionRepository(db.GetDB())
	ruleRepo := repository.NewRuleRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	setService := service.NewOptionSetService(setRepo, optionRepo, ruleRepo, productRepo)
	optionService := service.NewOptionService(optionRepo, setRepo)
	ruleService := service.NewRuleService(ruleRepo, setRepo)
	evalService := service.NewEvaluationService(
		setRepo, optionRepo, ruleRepo, productRepo,
		snapshotCache, cfg.Redis.SnapshotTTL,
	)

	// Live evaluation channel
	hub := ws.NewHub(evalService)
	go hub.Run()
	evalService.SetUpdateNotifier(hub)

	// Controllers
	authController := controller.NewAuthController(authService)
	optionSetController := controller.NewOptionSetController(setService, evalService)
	optionController := controller.NewOptionController(optionService, evalService)
	ruleController := controller.NewRuleController(ruleService, evalService)
	evaluationController := controller.NewEvaluationController(evalService, setService)
	uploadController := controller.NewUploadController(storage.NewS3Storage(&cfg.S3))
	liveController := controller.NewLiveController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Trash purge job
	cleanup := scheduler.NewCleanupScheduler(setRepo, &cfg.Cleanup)
	if err := cleanup.Start(); err != nil {
		logger.Warn("Trash purge scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cleanup.Stop()

	r := router.NewRouter(
		authController,
		optionSetController,
		optionController,
		ruleController,
		evaluationController,
		uploadController,
		liveController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
