package postgres

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const renditionInsertColumns = 10

type sqlHLSRenditionRepository struct {
	db SQLQuerier
}

// NewSQLHLSRenditionRepository creates sqlHLSRenditionRepository that implements port.HLSRenditionRepository
func NewSQLHLSRenditionRepository(db SQLQuerier) port.HLSRenditionRepository {
	return &sqlHLSRenditionRepository{
		db: db,
	}
}

// CreateMany inserts renditions in a single statement
func (s *sqlHLSRenditionRepository) CreateMany(ctx context.Context, renditions []domain.HLSRendition) (int, error) {
	if len(renditions) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(renditions))
	args := make([]any, 0, len(renditions)*renditionInsertColumns)
	for i, r := range renditions {
		base := i * renditionInsertColumns
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10)

		id := r.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		args = append(args, id, r.AssetID, r.QualityName, r.BitrateBps, r.SampleRateHz, r.Channels, r.Codec, r.PlaylistKey, r.SegmentCount, r.CreatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO hls_renditions (id, asset_id, quality_name, bitrate_bps, sample_rate_hz, channels, codec, playlist_key, segment_count, created_at)
         VALUES %s`,
		strings.Join(placeholders, ", "),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting hls renditions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// FindByAssetID lists renditions of an asset ordered by bitrate
func (s *sqlHLSRenditionRepository) FindByAssetID(ctx context.Context, assetID uuid.UUID) ([]domain.HLSRendition, error) {
	query := `SELECT id, asset_id, quality_name, bitrate_bps, sample_rate_hz, channels, codec,
                     playlist_key, segment_count, created_at
              FROM hls_renditions
              WHERE asset_id = $1
              ORDER BY bitrate_bps ASC`

	rows, err := s.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("error querying hls renditions: %w", err)
	}
	defer rows.Close()

	renditions := make([]domain.HLSRendition, 0)
	for rows.Next() {
		var r domain.HLSRendition
		err := rows.Scan(
			&r.ID,
			&r.AssetID,
			&r.QualityName,
			&r.BitrateBps,
			&r.SampleRateHz,
			&r.Channels,
			&r.Codec,
			&r.PlaylistKey,
			&r.SegmentCount,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning hls rendition: %w", err)
		}
		renditions = append(renditions, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hls renditions: %w", err)
	}
	return renditions, nil
}

// DeleteByAssetID removes every rendition of an asset
func (s *sqlHLSRenditionRepository) DeleteByAssetID(ctx context.Context, assetID uuid.UUID) error {
	query := `DELETE FROM hls_renditions WHERE asset_id = $1`

	if _, err := s.db.ExecContext(ctx, query, assetID); err != nil {
		return fmt.Errorf("error deleting hls renditions: %w", err)
	}
	return nil
}
