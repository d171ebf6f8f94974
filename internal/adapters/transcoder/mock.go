package transcoder

import (
	"beat-ingest/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTranscoder struct {
	mock.Mock
}

func NewMockTranscoder() *MockTranscoder {
	return &MockTranscoder{}
}

func (m *MockTranscoder) Probe(ctx context.Context, sourceKey string) (float64, error) {
	args := m.Called(ctx, sourceKey)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTranscoder) Segment(ctx context.Context, sourceKey string, quality domain.Quality, segmentSeconds float64, segmentKeys []string) error {
	args := m.Called(ctx, sourceKey, quality, segmentSeconds, segmentKeys)
	return args.Error(0)
}
