package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// V1InitializeRequest is the request to open an upload session
type V1InitializeRequest struct {
	FileName       string `json:"file_name"`
	FileSize       int64  `json:"file_size"`
	ContentType    string `json:"content_type"`
	Category       string `json:"category"`
	ParentEntityID string `json:"parent_entity_id"`
	ChunkSize      int64  `json:"chunk_size,omitempty"`
}

// V1InitializeResponse is the response to open an upload session
type V1InitializeResponse struct {
	SessionID   string    `json:"session_id"`
	ChunkSize   int64     `json:"chunk_size"`
	TotalChunks int       `json:"total_chunks"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InitializeV1 opens a new upload session for the calling owner
func (h *HandlerV1) InitializeV1(w http.ResponseWriter, r *http.Request) {
	var req V1InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, r, h.logger, httpapi.BadRequest("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.ContentType) == "" || req.Category == "" {
		httpapi.Error(w, r, h.logger, httpapi.BadRequest("file_name, content_type and category are required"))
		return
	}

	session, err := h.uploadService.Initialize(r.Context(), port.InitUploadRequest{
		OwnerID:            httpapi.Owner(r.Context()),
		FileName:           req.FileName,
		DeclaredFileSize:   req.FileSize,
		ContentType:        req.ContentType,
		Category:           domain.Category(req.Category),
		ParentEntityID:     req.ParentEntityID,
		RequestedChunkSize: req.ChunkSize,
	})
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusCreated, V1InitializeResponse{
		SessionID:   session.ID,
		ChunkSize:   session.ChunkSize,
		TotalChunks: session.TotalChunks,
		ExpiresAt:   session.ExpiresAt,
	})
}
