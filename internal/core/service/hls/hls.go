package hls

import (
	"beat-ingest/internal/core/port"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

const (
	generationIDBytes = 6
	presignWorkers    = 8

	// PlaylistContentType is the MIME type of m3u8 documents
	PlaylistContentType = "application/vnd.apple.mpegurl"
)

type hlsService struct {
	transcoder port.Transcoder
	storage    port.ObjectStorage
	urlExpiry  time.Duration
	logger     *slog.Logger
}

// NewHLSService creates a new HLS service. Segment and playlist URLs embedded in
// generated documents stay valid for urlExpiry.
func NewHLSService(transcoder port.Transcoder, storage port.ObjectStorage, urlExpiry time.Duration, logger *slog.Logger) port.HLSService {
	return &hlsService{
		transcoder: transcoder,
		storage:    storage,
		urlExpiry:  urlExpiry,
		logger:     logger,
	}
}

func newGenerationID() (string, error) {
	buf := make([]byte, generationIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
