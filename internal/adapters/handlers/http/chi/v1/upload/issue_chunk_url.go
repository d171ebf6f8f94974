package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"net/http"
)

// V1ChunkURLResponse is the response to issue a chunk upload URL
type V1ChunkURLResponse struct {
	UploadURL     string            `json:"upload_url"`
	ObjectKey     string            `json:"object_key"`
	ContentLength int64             `json:"content_length"`
	Headers       map[string]string `json:"headers"`
	ExpiresIn     int64             `json:"expires_in"`
}

// IssueChunkURLV1 presigns the PUT of one chunk
func (h *HandlerV1) IssueChunkURLV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	index, err := chunkIndexParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	chunk, err := h.uploadService.IssueChunkURL(r.Context(), sessionID, httpapi.Owner(r.Context()), index)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusOK, V1ChunkURLResponse{
		UploadURL:     chunk.UploadURL,
		ObjectKey:     chunk.ObjectKey,
		ContentLength: chunk.ContentLength,
		Headers:       chunk.Headers,
		ExpiresIn:     chunk.ExpiresInSeconds,
	})
}
