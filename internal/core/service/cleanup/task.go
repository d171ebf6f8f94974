package cleanup

import (
	"beat-ingest/internal/core/port"
	"context"
	"log/slog"
	"time"
)

// RunSweepTask sweeps expired sessions every interval until ctx is cancelled
func RunSweepTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("sweep task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			deleted, err := service.SweepExpired(ctx, time.Now())
			if err != nil {
				logger.Error("failed to sweep expired sessions", "error", err)
			} else {
				logger.Debug("sweep task completed", "deleted", deleted)
			}
		case <-ctx.Done():
			logger.Info("sweep task stopped")
			return
		}
	}
}
