package mediaevent

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HandleMessage generates and records the HLS renditions of a finalized audio upload.
// A returned error asks the broker to redeliver; malformed or unplayable uploads are dropped.
func (m *mediaEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.UploadCompletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		m.logger.Error("dropping malformed event", "error", err)
		return nil
	}

	if event.Type != domain.EventTypeUploadCompleted || event.Category != domain.CategoryAudio {
		m.logger.Debug("ignoring event", "type", event.Type, "category", event.Category)
		return nil
	}

	assetID, err := uuid.Parse(event.AssetID)
	if err != nil {
		m.logger.Error("dropping event with invalid asset id", "asset_id", event.AssetID, "error", err)
		return nil
	}

	m.logger.Info("handling event", "type", event.Type, "asset_id", assetID, "key", event.FinalKey)

	asset, err := m.uow.MediaAssetRepo().FindByID(ctx, assetID)
	if err != nil {
		return fmt.Errorf("could not load media asset %s: %w", assetID, err)
	}
	if asset.HLSMasterKey != nil {
		m.logger.Info("hls already generated, skipping", "asset_id", asset.ID, "master_key", *asset.HLSMasterKey)
		return nil
	}

	playlist, err := m.hls.Generate(ctx, asset.StorageKey, asset.OwnerID, asset.ParentEntityID, m.ladder, m.segmentSeconds)
	if errors.Is(err, domain.ErrInvalidMedia) {
		m.logger.Error("dropping unplayable upload", "asset_id", asset.ID, "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	renditions := renditionsOf(asset.ID, playlist)

	return m.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.HLSRenditionRepo().DeleteByAssetID(ctx, asset.ID); err != nil {
			return err
		}
		if _, err := uow.HLSRenditionRepo().CreateMany(ctx, renditions); err != nil {
			return err
		}
		return uow.MediaAssetRepo().UpdateHLSMasterKey(ctx, asset.ID, playlist.MasterKey)
	})
}

func renditionsOf(assetID uuid.UUID, playlist *domain.HLSPlaylist) []domain.HLSRendition {
	now := time.Now().UTC()
	renditions := make([]domain.HLSRendition, 0, len(playlist.Variants))
	for _, v := range playlist.Variants {
		renditions = append(renditions, domain.HLSRendition{
			ID:           uuid.New(),
			AssetID:      assetID,
			QualityName:  v.Quality.Name,
			BitrateBps:   v.BandwidthBps,
			SampleRateHz: v.Quality.SampleRateHz,
			Channels:     v.Quality.Channels,
			Codec:        v.Codec,
			PlaylistKey:  v.ObjectKey,
			SegmentCount: len(v.Segments),
			CreatedAt:    now,
		})
	}
	return renditions
}
