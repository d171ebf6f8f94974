package main

import (
	"beat-ingest/internal/adapters/eventbroker/nats"
	"beat-ingest/internal/adapters/handlers/http/chi"
	streamv1 "beat-ingest/internal/adapters/handlers/http/chi/v1/stream"
	uploadv1 "beat-ingest/internal/adapters/handlers/http/chi/v1/upload"
	"beat-ingest/internal/adapters/repository/postgres"
	"beat-ingest/internal/adapters/sessionstore/memory"
	sessionredis "beat-ingest/internal/adapters/sessionstore/redis"
	"beat-ingest/internal/adapters/storage/minio"
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/port"
	"beat-ingest/internal/core/service/cleanup"
	"beat-ingest/internal/core/service/stream"
	"beat-ingest/internal/core/service/upload"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//sessions
	sessionStore, closeStore := initSessionStore(ctx, cfg.Redis, logger)
	defer closeStore()

	//events
	publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init NATS publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close NATS publisher", "error", err)
		}
	}()

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	uploadService := upload.NewUploadService(sessionStore, minioAdapter, unitOfWork, publisher, cfg.Upload, logger)
	streamService := stream.NewStreamService(unitOfWork, minioAdapter, cfg.HLS.PlaylistURLExpiry, logger)
	cleanupService := cleanup.NewCleanupService(sessionStore, logger)

	//http
	uploadHandler := uploadv1.NewUploadHandlerV1(uploadService, logger)
	streamHandler := streamv1.NewStreamHandlerV1(streamService, logger)

	router := chi.NewRouter(logger, uploadHandler, streamHandler, cfg.Env.Env, cfg.Server.RequestTimeout)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// expiry sweep
	wg.Add(1)
	go func() {
		defer wg.Done()
		cleanup.RunSweepTask(ctx, cleanupService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

// initSessionStore returns the redis store, or the in-memory store when redis is disabled or unreachable
func initSessionStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (port.SessionStore, func()) {
	if !cfg.Enabled {
		logger.Warn("redis disabled: using in-memory session store, run a single API instance")
		return memory.NewSessionStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	store := sessionredis.NewSessionStore(client, cfg.KeyPrefix, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable: using in-memory session store, run a single API instance", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return memory.NewSessionStore(), func() {}
	}

	logger.Info("redis session store connected", "addr", cfg.Addr)
	return store, func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}
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
