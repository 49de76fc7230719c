package labdup

import "github.com/rs/zerolog"

// DefaultMinTableSize is the smallest table a HashDetector allocates,
// regardless of record count.
const DefaultMinTableSize = 10007

// Option is a functional option for configuring detectors.
type Option func(*config)

type config struct {
	minTableSize uint64
	logger       zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		minTableSize: DefaultMinTableSize,
		logger:       zerolog.Nop(),
	}
}

// WithMinTableSize sets the floor for the hash table size. The table size is
// the smallest prime >= max(2n, floor). Ignored by LinearDetector.
func WithMinTableSize(n uint64) Option {
	return func(c *config) {
		c.minTableSize = n
	}
}

// WithLogger sets the logger detectors report build statistics to.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
