package labdup

import (
	"slices"

	"github.com/rs/zerolog"
)

// LinearDetector finds duplicates by comparing every record against all
// records before it. It is the O(n²·k) baseline the hash detectors are
// measured against.
type LinearDetector struct {
	logger zerolog.Logger
}

// NewLinearDetector creates a LinearDetector. Only WithLogger applies.
func NewLinearDetector(opts ...Option) *LinearDetector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &LinearDetector{logger: cfg.logger}
}

// Detect reports every patient whose record equals an earlier or later one.
//
// Each record is compared with the previously seen records in order and the
// scan stops at the first match; that match and the current index both join
// the duplicate set. Later members of a group always match the group's first
// member, so the set ends up holding every member.
func (d *LinearDetector) Detect(rs *RecordSet) *Report {
	seen := make([]Record, 0, rs.Len())
	dup := make(map[int]struct{})
	var comparisons int

	for i, r := range rs.All() {
		for j, prev := range seen {
			comparisons++
			if r.Equal(prev) {
				dup[i] = struct{}{}
				dup[j] = struct{}{}
				break
			}
		}
		seen = append(seen, r)
	}

	var indices []int
	for i := range dup {
		indices = append(indices, i)
	}
	slices.Sort(indices)

	d.logger.Debug().
		Int("records", rs.Len()).
		Int("comparisons", comparisons).
		Int("duplicates", len(indices)).
		Msg("linear scan complete")

	return &Report{
		Detector:   DetectorLinear,
		Duplicates: len(indices),
		Indices:    indices,
	}
}
