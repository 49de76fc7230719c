// Package dataset generates synthetic patient record sets and writes them in
// the record file format.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/tamirms/labdup"
	duperrors "github.com/tamirms/labdup/errors"
)

const (
	DefaultStudies        = 10
	DefaultMaxValue       = 10_000_000
	DefaultDuplicateRatio = 0.1
)

// Option is a functional option for Generate.
type Option func(*config)

type config struct {
	studies  int
	maxValue uint64
	ratio    float64
}

// WithStudies sets the number of values per record.
func WithStudies(k int) Option {
	return func(c *config) {
		c.studies = k
	}
}

// WithMaxValue sets the inclusive upper bound of generated values.
func WithMaxValue(v uint64) Option {
	return func(c *config) {
		c.maxValue = v
	}
}

// WithDuplicateRatio sets the share of records that copy another record.
func WithDuplicateRatio(r float64) Option {
	return func(c *config) {
		c.ratio = r
	}
}

// Generate returns n records in random order. floor(n*ratio) of them are
// copies of records drawn, with replacement, from the n-floor(n*ratio)
// uniformly random ones. All randomness comes from rng.
func Generate(rng *rand.Rand, n int, opts ...Option) (*labdup.RecordSet, error) {
	cfg := &config{
		studies:  DefaultStudies,
		maxValue: DefaultMaxValue,
		ratio:    DefaultDuplicateRatio,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if n < 0 {
		return nil, fmt.Errorf("dataset: negative record count %d", n)
	}
	if cfg.studies < 1 {
		return nil, fmt.Errorf("dataset: studies must be positive, got %d", cfg.studies)
	}
	if !(cfg.ratio >= 0 && cfg.ratio <= 1) {
		return nil, fmt.Errorf("%w: got %v", duperrors.ErrInvalidRatio, cfg.ratio)
	}

	numDup := int(float64(n) * cfg.ratio)
	numUnique := n - numDup
	if numUnique == 0 {
		// Nothing to copy from.
		numDup, numUnique = 0, n
	}

	records := make([]labdup.Record, 0, n)
	values := make([]uint64, numUnique*cfg.studies)
	for i := range numUnique {
		r := labdup.Record(values[i*cfg.studies : (i+1)*cfg.studies : (i+1)*cfg.studies])
		for j := range r {
			r[j] = randValue(rng, cfg.maxValue)
		}
		records = append(records, r)
	}
	for range numDup {
		src := records[rng.IntN(numUnique)]
		records = append(records, append(labdup.Record(nil), src...))
	}
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	return labdup.NewRecordSet(records...)
}

// randValue returns a uniform value in [0, hi].
func randValue(rng *rand.Rand, hi uint64) uint64 {
	if hi == math.MaxUint64 {
		return rng.Uint64()
	}
	return rng.Uint64N(hi + 1)
}

// Write encodes rs in the record file format.
func Write(w io.Writer, rs *labdup.RecordSet) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	buf = strconv.AppendInt(buf, int64(rs.Len()), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for _, r := range rs.All() {
		buf = buf[:0]
		for i, v := range r {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, v, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes rs to path, replacing any existing file.
func WriteFile(path string, rs *labdup.RecordSet) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, rs)
}
