package domain

// Quality is one tier of the quality ladder
type Quality struct {
	Name         string `json:"name"`
	BitrateBps   int64  `json:"bitrate_bps"`
	SampleRateHz int    `json:"sample_rate_hz"`
	Channels     int    `json:"channels"`
	Codec        string `json:"codec"`
}

// QualityConstraints narrows quality selection for a playback client
type QualityConstraints struct {
	MaxBitrateBps  int64
	PreferredCodec string
}

// DefaultQualityLadder is the ladder used when none is configured: stereo AAC at three bitrates
func DefaultQualityLadder() []Quality {
	return []Quality{
		{Name: "low", BitrateBps: 64000, SampleRateHz: 22050, Channels: 2, Codec: "mp4a.40.2"},
		{Name: "medium", BitrateBps: 128000, SampleRateHz: 44100, Channels: 2, Codec: "mp4a.40.2"},
		{Name: "high", BitrateBps: 256000, SampleRateHz: 44100, Channels: 2, Codec: "mp4a.40.2"},
	}
}

// Segment is one time slice of a variant
type Segment struct {
	SequenceNumber  int
	DurationSeconds float64
	ObjectKey       string
	URL             string
}

// VariantPlaylist is one quality rendition of a playlist
type VariantPlaylist struct {
	Quality      Quality
	BandwidthBps int64
	Codec        string
	ObjectKey    string
	PlaylistURL  string
	Playlist     string
	Segments     []Segment
}

// HLSPlaylist is the derived streaming artifact of a finalized audio object
type HLSPlaylist struct {
	GenerationID    string
	DurationSeconds float64
	MasterKey       string
	MasterURL       string
	MasterPlaylist  string
	Variants        []VariantPlaylist
}
