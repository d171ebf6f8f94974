package hls

import (
	"beat-ingest/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockHLSService is a mock implementation of HLSService
type MockHLSService struct {
	mock.Mock
}

func NewMockHLSService() *MockHLSService {
	return &MockHLSService{}
}

func (m *MockHLSService) Generate(ctx context.Context, finalAudioKey, ownerID, mediaEntityID string, ladder []domain.Quality, targetSegmentSeconds float64) (*domain.HLSPlaylist, error) {
	args := m.Called(ctx, finalAudioKey, ownerID, mediaEntityID, ladder, targetSegmentSeconds)
	return args.Get(0).(*domain.HLSPlaylist), args.Error(1)
}
