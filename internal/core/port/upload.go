package port

import (
	"beat-ingest/internal/core/domain"
	"context"
)

// InitUploadRequest carries the client-declared metadata of a new upload
type InitUploadRequest struct {
	OwnerID            string
	FileName           string
	DeclaredFileSize   int64
	ContentType        string
	Category           domain.Category
	ParentEntityID     string
	RequestedChunkSize int64
}

// UploadService is an interface to define the chunked upload pipeline
type UploadService interface {
	Initialize(ctx context.Context, req InitUploadRequest) (*domain.UploadSession, error)
	Get(ctx context.Context, sessionID string) (*domain.UploadSession, error)
	IssueChunkURL(ctx context.Context, sessionID string, ownerID string, chunkIndex int) (*domain.ChunkURL, error)
	MarkUploaded(ctx context.Context, sessionID string, chunkIndex int) error
	IsComplete(ctx context.Context, sessionID string) bool
	Progress(ctx context.Context, sessionID string) (*domain.UploadProgress, error)
	Complete(ctx context.Context, sessionID string, ownerID string, clientChecksum string) (*domain.CompletedUpload, error)
	Abort(ctx context.Context, sessionID string) error
}
