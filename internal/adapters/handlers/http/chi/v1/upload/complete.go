package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"encoding/json"
	"net/http"
	"strings"
)

// V1CompleteRequest is the request to finalize a session
type V1CompleteRequest struct {
	ChecksumSha256 string `json:"checksum_sha256"`
}

// V1CompleteResponse is the response to finalize a session
type V1CompleteResponse struct {
	AssetID     string `json:"asset_id"`
	FinalKey    string `json:"final_key"`
	DownloadURL string `json:"download_url"`
}

// CompleteV1 assembles the chunks into the final object and verifies the checksum
func (h *HandlerV1) CompleteV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	var req V1CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, r, h.logger, httpapi.BadRequest("invalid request body: "+err.Error()))
		return
	}

	completed, err := h.uploadService.Complete(r.Context(), sessionID, httpapi.Owner(r.Context()), strings.TrimSpace(req.ChecksumSha256))
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusOK, V1CompleteResponse{
		AssetID:     completed.AssetID,
		FinalKey:    completed.FinalKey,
		DownloadURL: completed.DownloadURL,
	})
}
