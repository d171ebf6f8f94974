package upload

import (
	"beat-ingest/internal/core/domain"
	"context"
	"fmt"
	"math"
)

// MarkUploaded acknowledges one chunk. Acknowledging the same chunk twice is a no-op.
func (u *uploadService) MarkUploaded(ctx context.Context, sessionID string, chunkIndex int) error {

	session, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.ValidChunkIndex(chunkIndex) {
		return fmt.Errorf("%w: chunk index %d not in [0, %d)", domain.ErrInvalidChunkIndex, chunkIndex, session.TotalChunks)
	}

	if !session.MarkChunk(chunkIndex) {
		return nil
	}

	if err := u.store.Save(ctx, *session); err != nil {
		return fmt.Errorf("could not save upload session: %w", err)
	}
	return nil
}

// IsComplete reports whether every chunk is acknowledged. Unknown sessions are never complete.
func (u *uploadService) IsComplete(ctx context.Context, sessionID string) bool {
	session, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return false
	}
	return session.IsComplete()
}

// Progress returns chunk-level progress of a session
func (u *uploadService) Progress(ctx context.Context, sessionID string) (*domain.UploadProgress, error) {
	session, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	uploaded := session.UploadedCount()
	percentage := 0
	if session.TotalChunks > 0 {
		percentage = int(math.Round(100 * float64(uploaded) / float64(session.TotalChunks)))
	}

	return &domain.UploadProgress{
		Uploaded:   uploaded,
		Total:      session.TotalChunks,
		Percentage: percentage,
	}, nil
}
