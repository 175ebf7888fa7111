package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"image-pipeline/internal/config"
	"image-pipeline/internal/observability"
	"image-pipeline/internal/platform/cache"
	"image-pipeline/internal/platform/database"
	"image-pipeline/internal/platform/server"
	"image-pipeline/internal/platform/storage"
	"image-pipeline/internal/services"
	"image-pipeline/internal/web/handlers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stderrFatal("failed to load configuration", err)
	}

	obsConfig := observability.LoadConfig()
	if cfg.Logging != nil {
		obsConfig.LogLevel = cfg.Logging.Level
		obsConfig.LogFormat = cfg.Logging.Format
	}
	obsConfig.Environment = cfg.Environment

	logger := observability.NewLogger(obsConfig)
	ctx := context.Background()

	provider, err := observability.NewProvider(ctx, obsConfig)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to initialize telemetry provider")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx).Err(err).Msg("telemetry shutdown failed")
		}
	}()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to run migrations")
	}

	storageService, err := storage.NewService(&cfg.Storage)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to connect to object storage")
	}

	var cacheClient *cache.RedisClient
	if cfg.Cache.Enabled {
		cacheClient, err = cache.NewRedisClient(cfg.Cache)
		if err != nil {
			// The cache is an optimization; records stay correct without it
			logger.Warn(ctx).Err(err).Msg("record cache unavailable, continuing without it")
			cacheClient = nil
		}
	}

	container, err := services.NewContainer(services.ContainerOptions{
		Config:         cfg,
		DB:             db,
		Logger:         logger,
		StorageService: storageService,
		CacheClient:    cacheClient,
		Repository:     database.NewRecordRepository(db),
	})
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to initialize services container")
	}
	defer container.Close()

	handler := handlers.NewWithContainer(container)

	srv := server.New(cfg.Port, handler.Routes(), cfg.Server)

	go func() {
		logger.Info(ctx).
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Bool("nsfw_checker", cfg.Safety.Enabled).
			Bool("invisible_watermark", cfg.Watermark.Enabled).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx).Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx).Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(shutdownCtx).Err(err).Msg("server forced to shutdown")
	}

	logger.Info(ctx).Msg("server exited")
}

func stderrFatal(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
