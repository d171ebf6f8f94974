package upload

import (
	"beat-ingest/internal/core/domain"
	"context"
)

// Get returns a session without authorization; callers authorize
func (u *uploadService) Get(ctx context.Context, sessionID string) (*domain.UploadSession, error) {
	return u.store.Get(ctx, sessionID)
}
