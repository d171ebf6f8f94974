package main

import (
	"beat-ingest/internal/adapters/eventbroker/nats"
	"beat-ingest/internal/adapters/repository/postgres"
	"beat-ingest/internal/adapters/storage/minio"
	"beat-ingest/internal/adapters/transcoder/ffmpeg"
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/service/hls"
	"beat-ingest/internal/core/service/mediaevent"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	// Initialize repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	// Initialize services
	transcoder := ffmpeg.NewTranscoder(minioAdapter, cfg.HLS, logger)
	hlsService := hls.NewHLSService(transcoder, minioAdapter, cfg.HLS.PlaylistURLExpiry, logger)
	messageService := mediaevent.NewMediaEventService(hlsService, unitOfWork, cfg.HLS.Qualities(), cfg.HLS.SegmentSeconds, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, messageService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "qualities", len(cfg.HLS.Qualities()), "segment_seconds", cfg.HLS.SegmentSeconds)

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down hls worker")

	// Close waits for the in-flight message to finish
	done := make(chan struct{})
	go func() {
		if err := natsConsumer.Close(); err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn("shutdown timeout exceeded")
	}

	logger.Info("hls worker shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
