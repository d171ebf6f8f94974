package upload

import (
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const (
	sessionIDBytes     = 16
	keySuffixBytes     = 8
	chunkDeleteWorkers = 8
)

type uploadService struct {
	store     port.SessionStore
	storage   port.ObjectStorage
	uow       port.UnitOfWork
	publisher port.EventPublisher
	cfg       config.UploadConfig
	logger    *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(store port.SessionStore, storage port.ObjectStorage, uow port.UnitOfWork, publisher port.EventPublisher, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{
		store:     store,
		storage:   storage,
		uow:       uow,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// authorizedSession loads a session and checks that ownerID owns it
func (u *uploadService) authorizedSession(ctx context.Context, sessionID, ownerID string) (*domain.UploadSession, error) {
	session, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: session %s is not owned by %s", domain.ErrUnauthorized, sessionID, ownerID)
	}
	return session, nil
}

// deleteChunks removes every chunk object of session. Failures are logged and skipped.
func (u *uploadService) deleteChunks(ctx context.Context, session domain.UploadSession, keys []string) int {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chunkDeleteWorkers)

	failed := make([]bool, len(keys))
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := u.storage.DeleteObject(gctx, key); err != nil {
				failed[i] = true
				u.logger.Warn("failed to delete chunk",
					"session_id", session.ID,
					"chunk_index", i,
					"key", key,
					"error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	deleted := 0
	for _, f := range failed {
		if !f {
			deleted++
		}
	}
	return deleted
}

// deleteSession removes the session, logging instead of failing
func (u *uploadService) deleteSession(ctx context.Context, sessionID string) {
	if err := u.store.Delete(ctx, sessionID); err != nil {
		u.logger.Error("failed to delete upload session", "session_id", sessionID, "error", err)
	}
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
