package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"net/http"
)

// V1MarkUploadedResponse is the response to acknowledge a chunk
type V1MarkUploadedResponse struct {
	IsComplete bool       `json:"is_complete"`
	Progress   V1Progress `json:"progress"`
}

// MarkUploadedV1 records that the client finished uploading a chunk
func (h *HandlerV1) MarkUploadedV1(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.ownedSession(r.Context(), sessionID, httpapi.Owner(r.Context())); err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	if err := h.uploadService.MarkUploaded(r.Context(), sessionID, index); err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	progress, err := h.uploadService.Progress(r.Context(), sessionID)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusOK, V1MarkUploadedResponse{
		IsComplete: progress.Uploaded == progress.Total,
		Progress:   progressOf(progress),
	})
}
