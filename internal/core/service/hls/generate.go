package hls

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Generate segments finalAudioKey at every tier of ladder and stores the variant and master
// playlists. The returned playlist carries presigned URLs for every segment and document.
func (h *hlsService) Generate(ctx context.Context, finalAudioKey, ownerID, mediaEntityID string, ladder []domain.Quality, targetSegmentSeconds float64) (*domain.HLSPlaylist, error) {

	if len(ladder) == 0 {
		return nil, domain.ErrNoQualities
	}
	if targetSegmentSeconds <= 0 {
		return nil, fmt.Errorf("%w: target segment duration %.3f must be positive", domain.ErrInvalidMedia, targetSegmentSeconds)
	}

	duration, err := h.transcoder.Probe(ctx, finalAudioKey)
	if err != nil {
		return nil, err
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: %s has duration %v", domain.ErrInvalidMedia, finalAudioKey, duration)
	}

	generationID, err := newGenerationID()
	if err != nil {
		return nil, err
	}
	at := time.Now().UTC()
	durations := segmentDurations(duration, targetSegmentSeconds)

	variants := make([]domain.VariantPlaylist, 0, len(ladder))
	for _, quality := range ladder {
		variant, err := h.generateVariant(ctx, finalAudioKey, ownerID, mediaEntityID, quality, at, generationID, durations, targetSegmentSeconds)
		if err != nil {
			return nil, fmt.Errorf("could not generate %s variant: %w", quality.Name, err)
		}
		variants = append(variants, *variant)
	}

	master := MasterPlaylist(variants)
	masterKey := objectkey.HLSMaster(ownerID, mediaEntityID, at, generationID)
	masterURL, err := h.storePlaylist(ctx, masterKey, master)
	if err != nil {
		return nil, err
	}

	h.logger.Info("hls playlist generated",
		"source_key", finalAudioKey,
		"generation_id", generationID,
		"duration_seconds", duration,
		"segments_per_variant", len(durations),
		"variants", len(variants),
		"master_key", masterKey)

	return &domain.HLSPlaylist{
		GenerationID:    generationID,
		DurationSeconds: duration,
		MasterKey:       masterKey,
		MasterURL:       masterURL,
		MasterPlaylist:  master,
		Variants:        variants,
	}, nil
}

func (h *hlsService) generateVariant(ctx context.Context, sourceKey, ownerID, entityID string, quality domain.Quality, at time.Time, generationID string, durations []float64, target float64) (*domain.VariantPlaylist, error) {

	keys := make([]string, len(durations))
	for i := range keys {
		keys[i] = objectkey.HLSSegment(ownerID, entityID, quality.Name, at, generationID, i)
	}

	if err := h.transcoder.Segment(ctx, sourceKey, quality, target, keys); err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(presignWorkers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			presigned, err := h.storage.PresignGet(gctx, key, h.urlExpiry)
			if err != nil {
				return err
			}
			segments[i] = domain.Segment{
				SequenceNumber:  i,
				DurationSeconds: durations[i],
				ObjectKey:       key,
				URL:             presigned.URL,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	playlist := VariantPlaylist(segments, target)
	variantKey := objectkey.HLSVariant(ownerID, entityID, quality.Name, at, generationID)
	playlistURL, err := h.storePlaylist(ctx, variantKey, playlist)
	if err != nil {
		return nil, err
	}

	return &domain.VariantPlaylist{
		Quality:      quality,
		BandwidthBps: quality.BitrateBps,
		Codec:        quality.Codec,
		ObjectKey:    variantKey,
		PlaylistURL:  playlistURL,
		Playlist:     playlist,
		Segments:     segments,
	}, nil
}

// storePlaylist validates and uploads a playlist document and returns its presigned URL
func (h *hlsService) storePlaylist(ctx context.Context, key, playlist string) (string, error) {
	if !Validate(playlist) {
		return "", fmt.Errorf("%w: generated playlist %s failed validation", domain.ErrInvalidMedia, key)
	}

	if err := h.storage.PutObject(ctx, key, strings.NewReader(playlist), int64(len(playlist)), PlaylistContentType); err != nil {
		return "", err
	}

	presigned, err := h.storage.PresignGet(ctx, key, h.urlExpiry)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
