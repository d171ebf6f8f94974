package redis

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// minTTL keeps a just-expiring session readable long enough to report SessionExpired
const minTTL = time.Second

// SessionStore keeps upload sessions in redis with a TTL matching their expiry
type SessionStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewSessionStore creates a store writing keys under prefix
func NewSessionStore(client *redis.Client, prefix string, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Ping checks that redis is reachable
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func (s *SessionStore) Save(ctx context.Context, session domain.UploadSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not encode session %s: %w", session.ID, err)
	}

	ttl := max(time.Until(session.ExpiresAt), minTTL)
	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("could not save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get session %s: %w", id, err)
	}

	var session domain.UploadSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("corrupted session entry", "session_id", id, "error", err)
		return nil, fmt.Errorf("could not decode session %s: %w", id, err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("could not delete session %s: %w", id, err)
	}
	return nil
}

// Expired returns nothing: redis drops expired sessions on its own
func (s *SessionStore) Expired(context.Context, time.Time) ([]domain.UploadSession, error) {
	return nil, nil
}

func (s *SessionStore) Mode() port.StoreMode {
	return port.StoreModeDistributed
}
