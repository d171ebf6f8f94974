package port

import (
	"beat-ingest/internal/core/domain"
	"context"
)

// Transcoder is the external audio transcoding collaborator
type Transcoder interface {
	// Probe returns the duration in seconds of the stored source object
	Probe(ctx context.Context, sourceKey string) (float64, error)
	// Segment encodes sourceKey at quality and stores segment i at segmentKeys[i]
	Segment(ctx context.Context, sourceKey string, quality domain.Quality, segmentSeconds float64, segmentKeys []string) error
}
