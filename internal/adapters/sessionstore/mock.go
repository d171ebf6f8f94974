package sessionstore

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
	mode port.StoreMode
}

// NewMockSessionStore creates a mock reporting the given mode
func NewMockSessionStore(mode port.StoreMode) *MockSessionStore {
	return &MockSessionStore{mode: mode}
}

func (m *MockSessionStore) Save(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) Expired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockSessionStore) Mode() port.StoreMode {
	return m.mode
}
