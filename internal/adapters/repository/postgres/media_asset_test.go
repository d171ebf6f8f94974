package postgres_test

import (
	"context"
	"testing"
	"time"

	"beat-ingest/internal/adapters/repository/postgres"
	"beat-ingest/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAsset(sessionID string) domain.MediaAsset {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.MediaAsset{
		ID:             uuid.New(),
		SessionID:      sessionID,
		OwnerID:        "42",
		ParentEntityID: "beat-1",
		Category:       domain.CategoryAudio,
		FileName:       "track.wav",
		ContentType:    "audio/wav",
		StorageKey:     "uploads/42/beat-1/1700000000000-abcd.wav",
		SizeBytes:      26214400,
		Checksum:       "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestSQLMediaAssetRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repo := postgres.NewSQLMediaAssetRepository(dbConnection)

	t.Run("Create - Success", func(t *testing.T) {
		// Arrange
		truncate()
		asset := newAsset("session-1")

		// Act
		err := repo.Create(ctx, asset)

		// Assert
		require.NoError(t, err)
		found, err := repo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, asset.SessionID, found.SessionID)
		assert.Equal(t, asset.StorageKey, found.StorageKey)
		assert.Equal(t, asset.SizeBytes, found.SizeBytes)
		assert.Equal(t, domain.CategoryAudio, found.Category)
		assert.Nil(t, found.HLSMasterKey)
	})

	t.Run("Create - Duplicate session", func(t *testing.T) {
		// Arrange
		truncate()
		require.NoError(t, repo.Create(ctx, newAsset("session-1")))

		// Act
		err := repo.Create(ctx, newAsset("session-1"))

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already recorded")
	})

	t.Run("FindBySessionID - Success", func(t *testing.T) {
		// Arrange
		truncate()
		asset := newAsset("session-2")
		require.NoError(t, repo.Create(ctx, asset))

		// Act
		found, err := repo.FindBySessionID(ctx, "session-2")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, asset.ID, found.ID)
	})

	t.Run("FindBySessionID - Not Found", func(t *testing.T) {
		truncate()

		_, err := repo.FindBySessionID(ctx, "missing")

		require.ErrorIs(t, err, domain.ErrMediaAssetNotFound)
	})

	t.Run("UpdateHLSMasterKey - Success", func(t *testing.T) {
		// Arrange
		truncate()
		asset := newAsset("session-3")
		require.NoError(t, repo.Create(ctx, asset))

		// Act
		err := repo.UpdateHLSMasterKey(ctx, asset.ID, "processed/hls/42/beat-1/master.m3u8")

		// Assert
		require.NoError(t, err)
		found, err := repo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		require.NotNil(t, found.HLSMasterKey)
		assert.Equal(t, "processed/hls/42/beat-1/master.m3u8", *found.HLSMasterKey)
	})

	t.Run("UpdateHLSMasterKey - Not Found", func(t *testing.T) {
		truncate()

		err := repo.UpdateHLSMasterKey(ctx, uuid.New(), "key")

		require.ErrorIs(t, err, domain.ErrMediaAssetNotFound)
	})
}
