package hls_test

import (
	"testing"

	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/service/hls"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		playlist string
		want     bool
	}{
		{"header and version", "#EXTM3U\n#EXT-X-VERSION:3\n", true},
		{"crlf line endings", "#EXTM3U\r\n#EXT-X-VERSION:7\r\n#EXT-X-ENDLIST\r\n", true},
		{"missing version", "#EXTM3U\n#EXTINF:10.000,\nseg.ts\n", false},
		{"missing header", "#EXT-X-VERSION:3\n", false},
		{"header not on its own line", "#EXTM3U-ish\n#EXT-X-VERSION:3\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hls.Validate(tt.playlist))
		})
	}
}

func TestVariantPlaylist(t *testing.T) {
	segments := []domain.Segment{
		{SequenceNumber: 0, DurationSeconds: 10, URL: "https://cdn/s0.ts"},
		{SequenceNumber: 1, DurationSeconds: 2.25, URL: "https://cdn/s1.ts"},
	}

	got := hls.VariantPlaylist(segments, 10)

	assert.Equal(t, "#EXTM3U\n"+
		"#EXT-X-VERSION:3\n"+
		"#EXT-X-TARGETDURATION:10\n"+
		"#EXT-X-MEDIA-SEQUENCE:0\n"+
		"#EXT-X-PLAYLIST-TYPE:VOD\n"+
		"#EXTINF:10.000,\nhttps://cdn/s0.ts\n"+
		"#EXTINF:2.250,\nhttps://cdn/s1.ts\n"+
		"#EXT-X-ENDLIST\n", got)
}

func TestMasterPlaylist(t *testing.T) {
	variants := []domain.VariantPlaylist{
		{BandwidthBps: 64000, Codec: "mp4a.40.2", PlaylistURL: "https://cdn/low.m3u8"},
		{BandwidthBps: 256000, Codec: "mp4a.40.2", PlaylistURL: "https://cdn/high.m3u8"},
	}

	got := hls.MasterPlaylist(variants)

	assert.Equal(t, "#EXTM3U\n"+
		"#EXT-X-VERSION:3\n"+
		"#EXT-X-STREAM-INF:BANDWIDTH=64000,CODECS=\"mp4a.40.2\"\nhttps://cdn/low.m3u8\n"+
		"#EXT-X-STREAM-INF:BANDWIDTH=256000,CODECS=\"mp4a.40.2\"\nhttps://cdn/high.m3u8\n", got)
}
