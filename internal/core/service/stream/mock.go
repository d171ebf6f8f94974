package stream

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStreamService is a mock implementation of StreamService
type MockStreamService struct {
	mock.Mock
}

func NewMockStreamService() *MockStreamService {
	return &MockStreamService{}
}

func (m *MockStreamService) MasterURL(ctx context.Context, assetID uuid.UUID) (*port.PresignedURL, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(*port.PresignedURL), args.Error(1)
}

func (m *MockStreamService) SelectVariant(ctx context.Context, assetID uuid.UUID, clientBandwidthBps int64, constraints domain.QualityConstraints) (*domain.Quality, *port.PresignedURL, error) {
	args := m.Called(ctx, assetID, clientBandwidthBps, constraints)
	return args.Get(0).(*domain.Quality), args.Get(1).(*port.PresignedURL), args.Error(2)
}
