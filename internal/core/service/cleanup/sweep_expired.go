package cleanup

import (
	"beat-ingest/internal/core/port"
	"context"
	"time"
)

// SweepExpired deletes every session whose expiry is before now and returns how many were deleted.
// Chunk objects of swept sessions are left to the bucket lifecycle rules on the temp/ prefix.
func (c *cleanupService) SweepExpired(ctx context.Context, now time.Time) (int, error) {

	if c.store.Mode() == port.StoreModeDistributed {
		c.logger.Debug("session expiry delegated to store ttl")
		return 0, nil
	}

	sessions, err := c.store.Expired(ctx, now)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, session := range sessions {
		if err := c.store.Delete(ctx, session.ID); err != nil {
			c.logger.Error("failed to delete expired session", "session_id", session.ID, "error", err)
			continue
		}
		deleted++
	}

	if len(sessions) > 0 {
		c.logger.Info("expired sessions swept", "deleted", deleted, "expired", len(sessions))
	}
	return deleted, nil
}
