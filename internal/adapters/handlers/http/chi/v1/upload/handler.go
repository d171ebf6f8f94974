package upload

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload session routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes. Every route requires the owner header.
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(httpapi.RequireOwner(h.logger))

	router.Post("/sessions", h.InitializeV1)
	router.Get("/sessions/{sessionID}", h.GetSessionV1)
	router.Delete("/sessions/{sessionID}", h.AbortV1)
	router.Post("/sessions/{sessionID}/chunks/{chunkIndex}/url", h.IssueChunkURLV1)
	router.Put("/sessions/{sessionID}/chunks/{chunkIndex}", h.MarkUploadedV1)
	router.Post("/sessions/{sessionID}/complete", h.CompleteV1)

	return router
}

// ownedSession loads a session and checks it belongs to owner
func (h *HandlerV1) ownedSession(ctx context.Context, sessionID, owner string) (*domain.UploadSession, error) {
	session, err := h.uploadService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != owner {
		return nil, fmt.Errorf("%w: session %s belongs to another owner", domain.ErrUnauthorized, sessionID)
	}
	return session, nil
}

func chunkIndexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "chunkIndex")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httpapi.BadRequest(fmt.Sprintf("chunk index %q must be an integer", raw))
	}
	return index, nil
}

func sessionIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		return "", httpapi.BadRequest("session id is required")
	}
	return id, nil
}
