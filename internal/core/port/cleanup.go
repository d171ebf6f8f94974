package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
