package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaAsset represents a finalized upload
type MediaAsset struct {
	ID             uuid.UUID
	SessionID      string
	OwnerID        string
	ParentEntityID string
	Category       Category
	FileName       string
	ContentType    string
	StorageKey     string
	SizeBytes      int64
	Checksum       string
	HLSMasterKey   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HLSRendition represents a stored variant playlist of a media asset
type HLSRendition struct {
	ID           uuid.UUID
	AssetID      uuid.UUID
	QualityName  string
	BitrateBps   int64
	SampleRateHz int
	Channels     int
	Codec        string
	PlaylistKey  string
	SegmentCount int
	CreatedAt    time.Time
}

// Quality returns the ladder tier this rendition was produced for
func (r HLSRendition) Quality() Quality {
	return Quality{
		Name:         r.QualityName,
		BitrateBps:   r.BitrateBps,
		SampleRateHz: r.SampleRateHz,
		Channels:     r.Channels,
		Codec:        r.Codec,
	}
}
