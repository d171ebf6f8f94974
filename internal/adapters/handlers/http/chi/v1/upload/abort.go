package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"beat-ingest/internal/core/domain"
	"errors"
	"net/http"
)

// AbortV1 cancels a session and deletes its chunks. Unknown sessions succeed.
func (h *HandlerV1) AbortV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	_, err = h.ownedSession(r.Context(), sessionID, httpapi.Owner(r.Context()))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		httpapi.Error(w, r, h.logger, err)
		return
	}

	if err := h.uploadService.Abort(r.Context(), sessionID); err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
