package storage

import (
	"beat-ingest/internal/core/port"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) PresignPut(ctx context.Context, key string, contentType string, expiry time.Duration) (*port.PresignedURL, error) {
	args := m.Called(ctx, key, contentType, expiry)
	return args.Get(0).(*port.PresignedURL), args.Error(1)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (*port.PresignedURL, error) {
	args := m.Called(ctx, key, expiry)
	return args.Get(0).(*port.PresignedURL), args.Error(1)
}

func (m *MockStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	args := m.Called(ctx, srcKey, dstKey)
	return args.Error(0)
}

func (m *MockStorage) StatObject(ctx context.Context, key string) (*port.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*port.ObjectInfo), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
