package hls

import (
	"beat-ingest/internal/core/domain"
	"bufio"
	"fmt"
	"math"
	"strings"
)

const (
	tagHeader         = "#EXTM3U"
	tagVersion        = "#EXT-X-VERSION:"
	protocolVersion   = 3
	tagTargetDuration = "#EXT-X-TARGETDURATION:"
	tagMediaSequence  = "#EXT-X-MEDIA-SEQUENCE:"
	tagPlaylistType   = "#EXT-X-PLAYLIST-TYPE:VOD"
	tagInf            = "#EXTINF:"
	tagStreamInf      = "#EXT-X-STREAM-INF:"
	tagEndList        = "#EXT-X-ENDLIST"
)

// Validate reports whether playlist carries both the protocol identifier and a version tag.
// It is a syntactic smoke test, not a parser.
func Validate(playlist string) bool {
	var header, version bool
	scanner := bufio.NewScanner(strings.NewReader(playlist))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == tagHeader:
			header = true
		case strings.HasPrefix(line, tagVersion):
			version = true
		}
	}
	return header && version
}

// VariantPlaylist renders the media playlist of one quality tier
func VariantPlaylist(segments []domain.Segment, targetSegmentSeconds float64) string {
	var b strings.Builder
	fmt.Fprintln(&b, tagHeader)
	fmt.Fprintf(&b, "%s%d\n", tagVersion, protocolVersion)
	fmt.Fprintf(&b, "%s%d\n", tagTargetDuration, int(math.Ceil(targetSegmentSeconds)))
	fmt.Fprintf(&b, "%s0\n", tagMediaSequence)
	fmt.Fprintln(&b, tagPlaylistType)
	for _, s := range segments {
		fmt.Fprintf(&b, "%s%.3f,\n", tagInf, s.DurationSeconds)
		fmt.Fprintln(&b, s.URL)
	}
	fmt.Fprintln(&b, tagEndList)
	return b.String()
}

// MasterPlaylist renders the multivariant playlist, one stream per variant in order
func MasterPlaylist(variants []domain.VariantPlaylist) string {
	var b strings.Builder
	fmt.Fprintln(&b, tagHeader)
	fmt.Fprintf(&b, "%s%d\n", tagVersion, protocolVersion)
	for _, v := range variants {
		fmt.Fprintf(&b, "%sBANDWIDTH=%d,CODECS=\"%s\"\n", tagStreamInf, v.BandwidthBps, v.Codec)
		fmt.Fprintln(&b, v.PlaylistURL)
	}
	return b.String()
}

// segmentDurations splits duration into ceil(duration/target) slices; the last may be shorter
func segmentDurations(duration, target float64) []float64 {
	// rounding guards against 180.0000001 / 10 producing a 19th empty slice
	count := max(int(math.Ceil(math.Round(duration/target*1e6)/1e6)), 1)
	durations := make([]float64, count)
	for i := range durations {
		durations[i] = target
	}
	if count > 0 {
		durations[count-1] = duration - float64(count-1)*target
	}
	return durations
}
