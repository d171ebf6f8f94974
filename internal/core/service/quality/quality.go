// Package quality picks the HLS tier a playback client should start on.
package quality

import (
	"beat-ingest/internal/core/domain"
	"strings"
)

// SelectOptimal returns the highest-bitrate tier that fits clientBandwidthBps, or the lowest
// tier when none fits. Constraints narrow the candidates but never eliminate all of them:
// the codec preference is relaxed first, then the bitrate cap.
// It fails only when available is empty.
func SelectOptimal(available []domain.Quality, clientBandwidthBps int64, constraints domain.QualityConstraints) (domain.Quality, error) {
	if len(available) == 0 {
		return domain.Quality{}, domain.ErrNoQualities
	}

	candidates := available
	if constraints.MaxBitrateBps > 0 {
		if capped := filter(candidates, func(q domain.Quality) bool { return q.BitrateBps <= constraints.MaxBitrateBps }); len(capped) > 0 {
			candidates = capped
		}
	}
	if constraints.PreferredCodec != "" {
		if preferred := filter(candidates, func(q domain.Quality) bool { return strings.EqualFold(q.Codec, constraints.PreferredCodec) }); len(preferred) > 0 {
			candidates = preferred
		}
	}

	var best, lowest *domain.Quality
	for i := range candidates {
		q := &candidates[i]
		if lowest == nil || q.BitrateBps < lowest.BitrateBps {
			lowest = q
		}
		if q.BitrateBps <= clientBandwidthBps && (best == nil || q.BitrateBps > best.BitrateBps) {
			best = q
		}
	}

	if best == nil {
		return *lowest, nil
	}
	return *best, nil
}

func filter(qualities []domain.Quality, keep func(domain.Quality) bool) []domain.Quality {
	var out []domain.Quality
	for _, q := range qualities {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
