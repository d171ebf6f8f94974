// Package memory is the process-local fallback session store.
//
// Sessions live only in this process: running more than one API instance against
// this store loses sessions between instances. Expiry is enforced by the sweep alone.
package memory

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"sync"
	"time"
)

// SessionStore keeps upload sessions in a map
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.UploadSession
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.UploadSession),
	}
}

func (s *SessionStore) Save(_ context.Context, session domain.UploadSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := session.Clone()
	return &clone, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Expired returns every session whose expiry is before now
func (s *SessionStore) Expired(_ context.Context, now time.Time) ([]domain.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []domain.UploadSession
	for _, session := range s.sessions {
		if session.IsExpired(now) {
			expired = append(expired, session.Clone())
		}
	}
	return expired, nil
}

func (s *SessionStore) Mode() port.StoreMode {
	return port.StoreModeLocal
}
