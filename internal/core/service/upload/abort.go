package upload

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"context"
	"errors"
)

// Abort deletes every chunk of a session and then the session. Absent sessions succeed.
func (u *uploadService) Abort(ctx context.Context, sessionID string) error {
	session, err := u.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	keys := objectkey.ChunkKeys(*session)
	deleted := u.deleteChunks(ctx, *session, keys)

	if err := u.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	u.logger.Info("upload session aborted",
		"session_id", sessionID,
		"chunks_deleted", deleted,
		"chunks_total", len(keys))
	return nil
}
