package upload

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Initialize(ctx context.Context, req port.InitUploadRequest) (*domain.UploadSession, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Get(ctx context.Context, sessionID string) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) IssueChunkURL(ctx context.Context, sessionID string, ownerID string, chunkIndex int) (*domain.ChunkURL, error) {
	args := m.Called(ctx, sessionID, ownerID, chunkIndex)
	return args.Get(0).(*domain.ChunkURL), args.Error(1)
}

func (m *MockUploadService) MarkUploaded(ctx context.Context, sessionID string, chunkIndex int) error {
	args := m.Called(ctx, sessionID, chunkIndex)
	return args.Error(0)
}

func (m *MockUploadService) IsComplete(ctx context.Context, sessionID string) bool {
	args := m.Called(ctx, sessionID)
	return args.Bool(0)
}

func (m *MockUploadService) Progress(ctx context.Context, sessionID string) (*domain.UploadProgress, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.UploadProgress), args.Error(1)
}

func (m *MockUploadService) Complete(ctx context.Context, sessionID string, ownerID string, clientChecksum string) (*domain.CompletedUpload, error) {
	args := m.Called(ctx, sessionID, ownerID, clientChecksum)
	return args.Get(0).(*domain.CompletedUpload), args.Error(1)
}

func (m *MockUploadService) Abort(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
