package stream

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"beat-ingest/internal/core/service/quality"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type streamService struct {
	uow       port.UnitOfWork
	storage   port.ObjectStorage
	urlExpiry time.Duration
	logger    *slog.Logger
}

// NewStreamService creates a new stream service
func NewStreamService(uow port.UnitOfWork, storage port.ObjectStorage, urlExpiry time.Duration, logger *slog.Logger) port.StreamService {
	return &streamService{
		uow:       uow,
		storage:   storage,
		urlExpiry: urlExpiry,
		logger:    logger,
	}
}

// MasterURL presigns the master playlist of an asset
func (s *streamService) MasterURL(ctx context.Context, assetID uuid.UUID) (*port.PresignedURL, error) {
	asset, err := s.uow.MediaAssetRepo().FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.HLSMasterKey == nil {
		return nil, fmt.Errorf("%w: asset %s has no hls renditions yet", domain.ErrNoQualities, assetID)
	}
	return s.storage.PresignGet(ctx, *asset.HLSMasterKey, s.urlExpiry)
}

// SelectVariant picks the rendition a client should start on and presigns its playlist
func (s *streamService) SelectVariant(ctx context.Context, assetID uuid.UUID, clientBandwidthBps int64, constraints domain.QualityConstraints) (*domain.Quality, *port.PresignedURL, error) {
	renditions, err := s.uow.HLSRenditionRepo().FindByAssetID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}

	available := make([]domain.Quality, len(renditions))
	for i, r := range renditions {
		available[i] = r.Quality()
	}

	selected, err := quality.SelectOptimal(available, clientBandwidthBps, constraints)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: asset %s", err, assetID)
	}

	for _, r := range renditions {
		if r.QualityName != selected.Name {
			continue
		}
		url, err := s.storage.PresignGet(ctx, r.PlaylistKey, s.urlExpiry)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Debug("variant selected", "asset_id", assetID, "quality", selected.Name, "bandwidth", clientBandwidthBps)
		return &selected, url, nil
	}
	return nil, nil, fmt.Errorf("%w: rendition %s vanished", domain.ErrNoQualities, selected.Name)
}
