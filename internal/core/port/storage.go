package port

import (
	"context"
	"io"
	"time"
)

// PresignedURL is a time-limited URL issued by the object store
type PresignedURL struct {
	URL       string
	Headers   map[string]string
	ExpiresAt time.Time
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStorage is an interface to define object storage interactions
type ObjectStorage interface {
	PresignPut(ctx context.Context, key string, contentType string, expiry time.Duration) (*PresignedURL, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// CopyObject copies srcKey onto dstKey inside the store, replacing dstKey
	CopyObject(ctx context.Context, srcKey, dstKey string) error
	// StatObject returns nil info and nil error when the object does not exist
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
	// DeleteObject succeeds when the object is already absent
	DeleteObject(ctx context.Context, key string) error
}
