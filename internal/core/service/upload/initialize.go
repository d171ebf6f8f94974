package upload

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"beat-ingest/internal/core/port"
	"context"
	"fmt"
	"time"
)

// Initialize opens a resumable upload session
func (u *uploadService) Initialize(ctx context.Context, req port.InitUploadRequest) (*domain.UploadSession, error) {

	if req.DeclaredFileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidFileSize, req.DeclaredFileSize)
	}
	if req.DeclaredFileSize > u.cfg.MaxFileSize.Bytes() {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d bytes limit", domain.ErrFileTooLarge, req.DeclaredFileSize, u.cfg.MaxFileSize.Bytes())
	}

	if !objectkey.ValidSegment(req.OwnerID) {
		return nil, fmt.Errorf("%w: invalid owner id %q", domain.ErrUnknownCategory, req.OwnerID)
	}

	category, err := domain.ParseCategory(string(req.Category))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.Category)
	}
	if category.RequiresParentEntity() && req.ParentEntityID == "" {
		return nil, fmt.Errorf("%w: %s requires a parent entity id", domain.ErrUnknownCategory, category)
	}
	if req.ParentEntityID != "" && !objectkey.ValidSegment(req.ParentEntityID) {
		return nil, fmt.Errorf("%w: invalid parent entity id %q", domain.ErrUnknownCategory, req.ParentEntityID)
	}

	mimeType, err := objectkey.ValidateMedia(category, req.FileName, req.ContentType)
	if err != nil {
		return nil, err
	}

	sessionID, err := randomHex(sessionIDBytes)
	if err != nil {
		return nil, err
	}

	chunkSize := u.effectiveChunkSize(req.RequestedChunkSize)
	now := time.Now().UTC()

	session := domain.UploadSession{
		ID:               sessionID,
		OwnerID:          req.OwnerID,
		FileName:         req.FileName,
		DeclaredFileSize: req.DeclaredFileSize,
		ContentType:      mimeType,
		ChunkSize:        chunkSize,
		TotalChunks:      int((req.DeclaredFileSize + chunkSize - 1) / chunkSize),
		UploadedChunks:   map[int]bool{},
		Category:         category,
		ParentEntityID:   req.ParentEntityID,
		CreatedAt:        now,
		ExpiresAt:        now.Add(u.cfg.SessionTTL),
	}

	if err := u.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("could not save upload session: %w", err)
	}

	u.logger.Info("upload session initialized",
		"session_id", session.ID,
		"owner_id", session.OwnerID,
		"category", session.Category,
		"size", session.DeclaredFileSize,
		"chunk_size", session.ChunkSize,
		"total_chunks", session.TotalChunks,
		"store_mode", u.store.Mode())

	return &session, nil
}

// effectiveChunkSize clamps the requested chunk size into the policy bounds
func (u *uploadService) effectiveChunkSize(requested int64) int64 {
	size := u.cfg.DefaultChunkSize.Bytes()
	if requested > 0 {
		size = requested
	}
	size = min(size, u.cfg.MaxChunkSize.Bytes())
	return max(size, u.cfg.MinChunkSize.Bytes())
}
