package port

import (
	"beat-ingest/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// HLSService is an interface to define HLS playlist generation
type HLSService interface {
	Generate(ctx context.Context, finalAudioKey, ownerID, mediaEntityID string, ladder []domain.Quality, targetSegmentSeconds float64) (*domain.HLSPlaylist, error)
}

// StreamService is an interface to define playback lookups over generated renditions
type StreamService interface {
	MasterURL(ctx context.Context, assetID uuid.UUID) (*PresignedURL, error)
	SelectVariant(ctx context.Context, assetID uuid.UUID, clientBandwidthBps int64, constraints domain.QualityConstraints) (*domain.Quality, *PresignedURL, error)
}
