package postgres

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlMediaAssetRepository struct {
	db SQLQuerier
}

// NewSQLMediaAssetRepository creates sqlMediaAssetRepository that implements port.MediaAssetRepository
func NewSQLMediaAssetRepository(db SQLQuerier) port.MediaAssetRepository {
	return &sqlMediaAssetRepository{
		db: db,
	}
}

const mediaAssetColumns = `id, session_id, owner_id, parent_entity_id, category, file_name, content_type,
                     storage_key, size_bytes, checksum, hls_master_key, created_at, updated_at`

// Create records a finalized upload
func (s *sqlMediaAssetRepository) Create(ctx context.Context, asset domain.MediaAsset) error {
	query := `INSERT INTO media_assets (id, session_id, owner_id, parent_entity_id, category, file_name,
                                        content_type, storage_key, size_bytes, checksum, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		asset.ID,
		asset.SessionID,
		asset.OwnerID,
		asset.ParentEntityID,
		asset.Category,
		asset.FileName,
		asset.ContentType,
		asset.StorageKey,
		asset.SizeBytes,
		asset.Checksum,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("media asset for session %s already recorded: %w", asset.SessionID, err)
		}
		return fmt.Errorf("error inserting media asset: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlMediaAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error) {
	query := `SELECT ` + mediaAssetColumns + `
              FROM media_assets
              WHERE id = $1`

	return s.findOne(ctx, query, id)
}

// FindBySessionID finds the asset produced by an upload session
func (s *sqlMediaAssetRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.MediaAsset, error) {
	query := `SELECT ` + mediaAssetColumns + `
              FROM media_assets
              WHERE session_id = $1`

	return s.findOne(ctx, query, sessionID)
}

// UpdateHLSMasterKey points the asset at its latest master playlist
func (s *sqlMediaAssetRepository) UpdateHLSMasterKey(ctx context.Context, id uuid.UUID, masterKey string) error {
	query := `UPDATE media_assets
              SET hls_master_key = $1, updated_at = now()
              WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, masterKey, id)
	if err != nil {
		return fmt.Errorf("error updating media asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrMediaAssetNotFound
	}
	return nil
}

func (s *sqlMediaAssetRepository) findOne(ctx context.Context, query string, arg any) (*domain.MediaAsset, error) {
	var row dbMediaAsset
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&row.ID,
		&row.SessionID,
		&row.OwnerID,
		&row.ParentEntityID,
		&row.Category,
		&row.FileName,
		&row.ContentType,
		&row.StorageKey,
		&row.SizeBytes,
		&row.Checksum,
		&row.HLSMasterKey,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMediaAssetNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// dbMediaAsset represents a media asset in DB
type dbMediaAsset struct {
	ID             uuid.UUID      `db:"id"`
	SessionID      string         `db:"session_id"`
	OwnerID        string         `db:"owner_id"`
	ParentEntityID string         `db:"parent_entity_id"`
	Category       string         `db:"category"`
	FileName       string         `db:"file_name"`
	ContentType    string         `db:"content_type"`
	StorageKey     string         `db:"storage_key"`
	SizeBytes      int64          `db:"size_bytes"`
	Checksum       string         `db:"checksum"`
	HLSMasterKey   sql.NullString `db:"hls_master_key"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// ToDomain converts to domain.MediaAsset
func (a *dbMediaAsset) ToDomain() *domain.MediaAsset {
	asset := &domain.MediaAsset{
		ID:             a.ID,
		SessionID:      a.SessionID,
		OwnerID:        a.OwnerID,
		ParentEntityID: a.ParentEntityID,
		Category:       domain.Category(a.Category),
		FileName:       a.FileName,
		ContentType:    a.ContentType,
		StorageKey:     a.StorageKey,
		SizeBytes:      a.SizeBytes,
		Checksum:       a.Checksum,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.HLSMasterKey.Valid {
		asset.HLSMasterKey = &a.HLSMasterKey.String
	}
	return asset
}
