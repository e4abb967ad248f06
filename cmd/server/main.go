package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"token-research.backend/internal/config"
	"token-research.backend/internal/infrastructure/datasources"
	"token-research.backend/internal/infrastructure/persistence"
	"token-research.backend/internal/interfaces/http/handlers"
	"token-research.backend/internal/interfaces/http/middleware"
	"token-research.backend/internal/usecases"
	"token-research.backend/pkg/logger"
)

var (
	loadDotenv    = godotenv.Load
	loadCfg       = config.Load
	initLog       = logger.Init
	openSlotStore = datasources.OpenSlotStore
	runServer     = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	if cfg.Server.LogLevel != "" {
		if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
			logger.Warn(ctx, "Ignoring invalid LOG_LEVEL", zap.String("level", cfg.Server.LogLevel), zap.Error(err))
		}
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	slots, closeSlots, err := openSlotStore(ctx, cfg, logger.GetLogger())
	if err != nil {
		logger.Error(ctx, "Failed to open slot store", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		return fmt.Errorf("failed to open slot store: %w", err)
	}
	defer func() {
		if err := closeSlots(); err != nil {
			logger.Warn(ctx, "Failed to close slot store", zap.Error(err))
		}
	}()
	logger.Info(ctx, "Slot store opened", zap.String("backend", cfg.Storage.Backend))

	store := usecases.NewResearchStore(persistence.NewAdapter(slots, cfg.Storage.Timeout))
	store.Initialize(ctx)

	researchHandler := handlers.NewResearchHandler(store)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{researchHandler: researchHandler})

	logger.Info(ctx, "Token research backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
