package port

import (
	"beat-ingest/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// MediaAssetRepository is an interface to define media asset repository interactions
type MediaAssetRepository interface {
	Create(ctx context.Context, asset domain.MediaAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.MediaAsset, error)
	UpdateHLSMasterKey(ctx context.Context, id uuid.UUID, masterKey string) error
}

// HLSRenditionRepository is an interface to define rendition repository interactions
type HLSRenditionRepository interface {
	CreateMany(ctx context.Context, renditions []domain.HLSRendition) (int, error)
	FindByAssetID(ctx context.Context, assetID uuid.UUID) ([]domain.HLSRendition, error)
	DeleteByAssetID(ctx context.Context, assetID uuid.UUID) error
}
