package labdup

import (
	"fmt"

	"github.com/rs/zerolog"

	duperrors "github.com/tamirms/labdup/errors"
	"github.com/tamirms/labdup/internal/prime"
)

// HashDetector finds duplicates by inserting every record into a chained
// hash table and reading duplicate groups back out of the chains.
//
// The table is sized once per Detect call to the smallest prime >=
// max(2n, floor) and is never resized. A HashDetector holds no per-run
// state and may be reused, but not concurrently.
type HashDetector struct {
	kind         HashKind
	minTableSize uint64
	logger       zerolog.Logger
}

// NewHashDetector creates a detector that buckets records with kind.
func NewHashDetector(kind HashKind, opts ...Option) (*HashDetector, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", duperrors.ErrUnknownHashKind, uint8(kind))
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.minTableSize < 2 {
		return nil, fmt.Errorf("%w: got %d", duperrors.ErrInvalidTableSize, cfg.minTableSize)
	}
	return &HashDetector{
		kind:         kind,
		minTableSize: cfg.minTableSize,
		logger:       cfg.logger.With().Str("hash", kind.String()).Logger(),
	}, nil
}

// Kind returns the hash function this detector uses.
func (d *HashDetector) Kind() HashKind {
	return d.kind
}

// TableSize returns the table size Detect would use for n records.
func (d *HashDetector) TableSize(n int) uint64 {
	return prime.Next(max(2*uint64(n), d.minTableSize))
}

// Detect builds the table over rs and reports duplicates and table statistics.
func (d *HashDetector) Detect(rs *RecordSet) *Report {
	size := d.TableSize(rs.Len())
	hash, err := newHashFunction(d.kind, size)
	if err != nil {
		// kind was validated in NewHashDetector.
		panic(err)
	}

	table := newHashTable(size, hash)
	for i, r := range rs.All() {
		table.insert(r, i)
	}

	indices := table.duplicates()
	stats := table.stats()

	d.logger.Debug().
		Int("records", rs.Len()).
		Uint64("table_size", stats.Size).
		Int("collisions", stats.Collisions).
		Int("occupied_buckets", stats.OccupiedBuckets).
		Int("max_bucket_len", stats.MaxBucketLen).
		Float64("mean_bucket_len", stats.MeanBucketLen).
		Int("duplicates", len(indices)).
		Msg("hash table built")

	return &Report{
		Detector:   d.kind.String(),
		Duplicates: len(indices),
		Indices:    indices,
		Table:      &stats,
	}
}

// Detector is implemented by LinearDetector and HashDetector.
type Detector interface {
	Detect(rs *RecordSet) *Report
}

var (
	_ Detector = (*LinearDetector)(nil)
	_ Detector = (*HashDetector)(nil)
)
