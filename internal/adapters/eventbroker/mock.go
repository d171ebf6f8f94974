package eventbroker

import (
	"beat-ingest/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishUploadCompleted(ctx context.Context, event domain.UploadCompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
