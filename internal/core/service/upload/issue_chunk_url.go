package upload

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"beat-ingest/internal/core/port"
	"context"
	"fmt"
	"time"
)

// IssueChunkURL returns a presigned PUT URL for one chunk. It never mutates the session.
func (u *uploadService) IssueChunkURL(ctx context.Context, sessionID string, ownerID string, chunkIndex int) (*domain.ChunkURL, error) {

	session, err := u.authorizedSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	if session.IsExpired(time.Now()) {
		// distributed stores drop the entry on their own TTL
		if u.store.Mode() == port.StoreModeLocal {
			u.deleteSession(ctx, sessionID)
		}
		return nil, fmt.Errorf("%w: session %s expired at %s", domain.ErrSessionExpired, sessionID, session.ExpiresAt.Format(time.RFC3339))
	}

	if !session.ValidChunkIndex(chunkIndex) {
		return nil, fmt.Errorf("%w: chunk index %d not in [0, %d)", domain.ErrInvalidChunkIndex, chunkIndex, session.TotalChunks)
	}

	key := objectkey.Chunk(session.OwnerID, session.ID, session.CreatedAt, chunkIndex)

	presigned, err := u.storage.PresignPut(ctx, key, session.ContentType, u.cfg.ChunkURLExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.ChunkURL{
		UploadURL:        presigned.URL,
		ObjectKey:        key,
		ContentLength:    session.ChunkLength(chunkIndex),
		Headers:          presigned.Headers,
		ExpiresInSeconds: int64(u.cfg.ChunkURLExpiry / time.Second),
	}, nil
}
