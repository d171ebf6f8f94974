package cleanup

import (
	"beat-ingest/internal/core/port"
	"log/slog"
)

type cleanupService struct {
	store  port.SessionStore
	logger *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(store port.SessionStore, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		store:  store,
		logger: logger,
	}
}
