package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"beat-ingest/internal/core/domain"
	"net/http"
	"time"
)

// V1Progress is chunk-level progress of a session
type V1Progress struct {
	Uploaded   int `json:"uploaded"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// V1SessionResponse is the response to get a session
type V1SessionResponse struct {
	SessionID      string          `json:"session_id"`
	FileName       string          `json:"file_name"`
	FileSize       int64           `json:"file_size"`
	ContentType    string          `json:"content_type"`
	Category       domain.Category `json:"category"`
	ParentEntityID string          `json:"parent_entity_id,omitempty"`
	ChunkSize      int64           `json:"chunk_size"`
	TotalChunks    int             `json:"total_chunks"`
	UploadedChunks []int           `json:"uploaded_chunks"`
	IsComplete     bool            `json:"is_complete"`
	Progress       V1Progress      `json:"progress"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

func progressOf(p *domain.UploadProgress) V1Progress {
	return V1Progress{Uploaded: p.Uploaded, Total: p.Total, Percentage: p.Percentage}
}

// GetSessionV1 returns session metadata with its progress
func (h *HandlerV1) GetSessionV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	session, err := h.ownedSession(r.Context(), sessionID, httpapi.Owner(r.Context()))
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	progress, err := h.uploadService.Progress(r.Context(), sessionID)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusOK, V1SessionResponse{
		SessionID:      session.ID,
		FileName:       session.FileName,
		FileSize:       session.DeclaredFileSize,
		ContentType:    session.ContentType,
		Category:       session.Category,
		ParentEntityID: session.ParentEntityID,
		ChunkSize:      session.ChunkSize,
		TotalChunks:    session.TotalChunks,
		UploadedChunks: session.UploadedIndices(),
		IsComplete:     h.uploadService.IsComplete(r.Context(), sessionID),
		Progress:       progressOf(progress),
		CreatedAt:      session.CreatedAt,
		ExpiresAt:      session.ExpiresAt,
	})
}
