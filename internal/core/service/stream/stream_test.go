package stream_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"beat-ingest/internal/adapters/repository"
	"beat-ingest/internal/adapters/storage"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"beat-ingest/internal/core/service/stream"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renditions(assetID uuid.UUID) []domain.HLSRendition {
	var out []domain.HLSRendition
	for _, q := range domain.DefaultQualityLadder() {
		out = append(out, domain.HLSRendition{
			ID:           uuid.New(),
			AssetID:      assetID,
			QualityName:  q.Name,
			BitrateBps:   q.BitrateBps,
			SampleRateHz: q.SampleRateHz,
			Channels:     q.Channels,
			Codec:        q.Codec,
			PlaylistKey:  "processed/hls/42/beat-1/" + q.Name + "/1-abc.m3u8",
		})
	}
	return out
}

func TestStreamService_SelectVariant(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := stream.NewStreamService(mockUow, mockStorage, time.Hour, slog.Default())
	assetID := uuid.New()

	mockUow.GetHLSRenditionRepoMock().On("FindByAssetID", ctx, assetID).Return(renditions(assetID), nil)
	mockStorage.On("PresignGet", ctx, "processed/hls/42/beat-1/low/1-abc.m3u8", time.Hour).
		Return(&port.PresignedURL{URL: "https://minio.example.com/low.m3u8"}, nil)

	// Act
	selected, url, err := service.SelectVariant(ctx, assetID, 100000, domain.QualityConstraints{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "low", selected.Name)
	assert.Equal(t, int64(64000), selected.BitrateBps)
	assert.Equal(t, "https://minio.example.com/low.m3u8", url.URL)
	mockStorage.AssertExpectations(t)
}

func TestStreamService_SelectVariant_NoRenditions(t *testing.T) {
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	service := stream.NewStreamService(mockUow, storage.NewMockStorage(), time.Hour, slog.Default())
	assetID := uuid.New()
	mockUow.GetHLSRenditionRepoMock().On("FindByAssetID", ctx, assetID).Return([]domain.HLSRendition{}, nil)

	_, _, err := service.SelectVariant(ctx, assetID, 100000, domain.QualityConstraints{})

	assert.ErrorIs(t, err, domain.ErrNoQualities)
}

func TestStreamService_MasterURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns the master playlist", func(t *testing.T) {
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := stream.NewStreamService(mockUow, mockStorage, time.Hour, slog.Default())
		assetID := uuid.New()
		masterKey := "processed/hls/42/beat-1/1-abc-master.m3u8"

		mockUow.GetMediaAssetRepoMock().On("FindByID", ctx, assetID).Return(&domain.MediaAsset{ID: assetID, HLSMasterKey: &masterKey}, nil)
		mockStorage.On("PresignGet", ctx, masterKey, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/master"}, nil)

		url, err := service.MasterURL(ctx, assetID)

		require.NoError(t, err)
		assert.Equal(t, "https://minio.example.com/master", url.URL)
	})

	t.Run("not generated yet", func(t *testing.T) {
		mockUow := repository.NewMockUnitOfWork()
		service := stream.NewStreamService(mockUow, storage.NewMockStorage(), time.Hour, slog.Default())
		assetID := uuid.New()
		mockUow.GetMediaAssetRepoMock().On("FindByID", ctx, assetID).Return(&domain.MediaAsset{ID: assetID}, nil)

		_, err := service.MasterURL(ctx, assetID)

		assert.ErrorIs(t, err, domain.ErrNoQualities)
	})

	t.Run("unknown asset", func(t *testing.T) {
		mockUow := repository.NewMockUnitOfWork()
		service := stream.NewStreamService(mockUow, storage.NewMockStorage(), time.Hour, slog.Default())
		assetID := uuid.New()
		mockUow.GetMediaAssetRepoMock().On("FindByID", ctx, assetID).Return((*domain.MediaAsset)(nil), domain.ErrMediaAssetNotFound)

		_, err := service.MasterURL(ctx, assetID)

		assert.ErrorIs(t, err, domain.ErrMediaAssetNotFound)
	})
}
