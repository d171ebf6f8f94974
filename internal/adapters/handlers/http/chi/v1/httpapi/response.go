// Package httpapi holds the response and identity helpers shared by v1 handlers.
package httpapi

import (
	"beat-ingest/internal/core/domain"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const (
	KindInvalidRequest  domain.ErrorKind = "InvalidRequest"
	KindUnauthenticated domain.ErrorKind = "Unauthenticated"
)

// ErrorBody is the error envelope of every failed v1 request
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable kind and a human-readable message
type ErrorDetail struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindFileTooLarge:          http.StatusRequestEntityTooLarge,
	domain.KindInvalidFileSize:       http.StatusBadRequest,
	domain.KindInvalidFileType:       http.StatusUnsupportedMediaType,
	domain.KindSessionNotFound:       http.StatusNotFound,
	domain.KindUnauthorized:          http.StatusForbidden,
	domain.KindSessionExpired:        http.StatusGone,
	domain.KindInvalidChunkIndex:     http.StatusBadRequest,
	domain.KindUploadIncomplete:      http.StatusConflict,
	domain.KindChecksumMismatch:      http.StatusUnprocessableEntity,
	domain.KindUnknownCategory:       http.StatusBadRequest,
	domain.KindStorageGatewayFailure: http.StatusBadGateway,
	domain.KindInvalidMedia:          http.StatusUnprocessableEntity,
	domain.KindNoQualities:           http.StatusNotFound,
	domain.KindMediaAssetNotFound:    http.StatusNotFound,
	KindInvalidRequest:               http.StatusBadRequest,
	KindUnauthenticated:              http.StatusUnauthorized,
}

// StatusFor returns the HTTP status reported for kind
func StatusFor(kind domain.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// JSON writes v with status
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error encoding response", "error", err)
	}
}

// Error reports err with the status of its kind. Internal errors are logged and their message is hidden.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, logger, reqErr.kind, reqErr.message)
		return
	}

	kind := domain.KindOf(err)
	status := StatusFor(kind)
	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "path", r.URL.Path, "kind", kind, "error", err)
		if kind == domain.KindInternal {
			message = "internal server error"
		}
	default:
		logger.Warn("request rejected", "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeError(w, logger, kind, message)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, kind domain.ErrorKind, message string) {
	JSON(w, logger, StatusFor(kind), ErrorBody{Error: ErrorDetail{Kind: kind, Message: message}})
}

type requestError struct {
	kind    domain.ErrorKind
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// BadRequest returns an error reported as InvalidRequest
func BadRequest(message string) error {
	return &requestError{kind: KindInvalidRequest, message: message}
}
