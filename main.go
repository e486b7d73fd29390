package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeclock/clock"
	"timeclock/config"
	"timeclock/database"
	"timeclock/handlers"
	"timeclock/logging"
	"timeclock/middleware"
	"timeclock/storage"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL, cfg.DBMaxRetries, cfg.DBLogLevel); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	// Evidence storage is optional
	var store storage.EvidenceStore
	if cfg.EvidenceEndpoint != "" {
		s3, err := storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:        cfg.EvidenceEndpoint,
			AccessKeyID:     cfg.EvidenceAccessKey,
			SecretAccessKey: cfg.EvidenceSecretKey,
			BucketName:      cfg.EvidenceBucket,
			UseSSL:          cfg.EvidenceUseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize evidence storage", zap.Error(err))
		}
		store = s3
	} else {
		logger.Info("evidence storage disabled")
	}

	repo := clock.NewRepository(database.GetDB())
	service := clock.NewService(repo, store, clock.Options{
		GeofenceRequired: cfg.GeofenceRequired,
		DefaultRadius:    cfg.GeofenceDefaultRadius,
		EvidenceMaxBytes: cfg.EvidenceMaxBytes,
		RatePerMinute:    cfg.ClockRatePerMinute,
		RateBurst:        cfg.ClockRateBurst,
	}, logger)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.NewRouter(cfg, service, repo, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}
	logger.Info("server exited gracefully")
}
