package port

import (
	"beat-ingest/internal/core/domain"
	"context"
	"time"
)

// StoreMode tells whether a session store enforces expiry itself
type StoreMode string

const (
	// StoreModeDistributed is a shared cache with native TTL
	StoreModeDistributed StoreMode = "distributed"
	// StoreModeLocal is a process-local map; expiry is enforced only by the sweep
	StoreModeLocal StoreMode = "local"
)

// SessionStore is an interface to define upload session persistence
type SessionStore interface {
	// Save writes the session, keeping it alive until session.ExpiresAt
	Save(ctx context.Context, session domain.UploadSession) error
	// Get returns domain.ErrSessionNotFound when the session is absent
	Get(ctx context.Context, id string) (*domain.UploadSession, error)
	// Delete succeeds when the session is already absent
	Delete(ctx context.Context, id string) error
	// Expired lists sessions whose expiry is before now. Stores with native TTL return nothing.
	Expired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
	Mode() StoreMode
}
