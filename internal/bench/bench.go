// Package bench times LinearDetector against the hash detectors on
// generated datasets of increasing size.
package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/labdup"
	duperrors "github.com/tamirms/labdup/errors"
	"github.com/tamirms/labdup/internal/dataset"
)

// Measurement is the averaged outcome of one detector on one dataset.
type Measurement struct {
	Size     int           `json:"size"`
	Detector string        `json:"detector"`
	Runs     int           `json:"runs"`
	Mean     time.Duration `json:"mean_ns"`
	Min      time.Duration `json:"min_ns"`

	Duplicates int                `json:"duplicates"`
	Table      *labdup.TableStats `json:"table,omitempty"`
}

// Observer is called after every timed run.
type Observer func(r *labdup.Report, records int, elapsed time.Duration)

// Option is a functional option for Run.
type Option func(*runConfig)

type runConfig struct {
	logger   zerolog.Logger
	observer Observer
}

// WithLogger sets the logger progress is reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithObserver registers fn to receive every run's report.
func WithObserver(fn Observer) Option {
	return func(c *runConfig) {
		c.observer = fn
	}
}

// Run generates one dataset per plan size in parallel, then times each
// enabled detector on it sequentially so runs do not compete for CPU.
// Cancellation is checked between runs; a single run is never interrupted.
//
// All detectors must agree on the duplicate count for a dataset; if they do
// not, Run fails with ErrDetectorMismatch.
func Run(ctx context.Context, plan Plan, opts ...Option) ([]Measurement, error) {
	cfg := &runConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger

	hashDetectors := make([]*labdup.HashDetector, 0, len(plan.HashKinds))
	for _, k := range plan.HashKinds {
		d, err := labdup.NewHashDetector(k, labdup.WithMinTableSize(plan.MinTableSize))
		if err != nil {
			return nil, err
		}
		hashDetectors = append(hashDetectors, d)
	}

	log.Info().Ints("sizes", plan.Sizes).Int("repetitions", plan.Repetitions).Msg("generating datasets")
	sets, err := generate(ctx, plan)
	if err != nil {
		return nil, err
	}

	var out []Measurement
	for i, rs := range sets {
		size := plan.Sizes[i]
		var detectors []labdup.Detector
		if plan.Linear && (plan.LinearLimit == 0 || size <= plan.LinearLimit) {
			detectors = append(detectors, labdup.NewLinearDetector())
		} else if plan.Linear {
			log.Info().Int("size", size).Int("linear_limit", plan.LinearLimit).Msg("skipping linear detector")
		}
		for _, d := range hashDetectors {
			detectors = append(detectors, d)
		}

		first := len(out)
		for _, d := range detectors {
			m, err := measure(ctx, d, rs, plan.Repetitions, cfg.observer)
			if err != nil {
				return nil, err
			}
			log.Info().
				Int("size", size).
				Str("detector", m.Detector).
				Dur("mean", m.Mean).
				Int("duplicates", m.Duplicates).
				Msg("measured")
			out = append(out, m)
		}
		if err := checkAgreement(out[first:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func generate(ctx context.Context, plan Plan) ([]*labdup.RecordSet, error) {
	sets := make([]*labdup.RecordSet, len(plan.Sizes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, size := range plan.Sizes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Stream i of the plan seed, so each size is reproducible on its own.
			rng := rand.New(rand.NewPCG(plan.Seed, uint64(i)))
			rs, err := dataset.Generate(rng, size,
				dataset.WithStudies(plan.Studies),
				dataset.WithMaxValue(plan.MaxValue),
				dataset.WithDuplicateRatio(plan.DuplicateRatio),
			)
			if err != nil {
				return fmt.Errorf("generate %d records: %w", size, err)
			}
			sets[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

func measure(ctx context.Context, d labdup.Detector, rs *labdup.RecordSet, reps int, observe Observer) (Measurement, error) {
	m := Measurement{Size: rs.Len()}
	var total time.Duration
	for range reps {
		if err := ctx.Err(); err != nil {
			return Measurement{}, err
		}
		start := time.Now()
		r := d.Detect(rs)
		elapsed := time.Since(start)

		if observe != nil {
			observe(r, rs.Len(), elapsed)
		}
		total += elapsed
		if m.Runs == 0 || elapsed < m.Min {
			m.Min = elapsed
		}
		m.Runs++
		m.Detector = r.Detector
		m.Duplicates = r.Duplicates
		m.Table = r.Table
	}
	m.Mean = total / time.Duration(m.Runs)
	return m, nil
}

func checkAgreement(ms []Measurement) error {
	if len(ms) < 2 {
		return nil
	}
	for _, m := range ms[1:] {
		if m.Duplicates != ms[0].Duplicates {
			return fmt.Errorf("%w: size %d: %s found %d, %s found %d",
				duperrors.ErrDetectorMismatch, m.Size,
				ms[0].Detector, ms[0].Duplicates, m.Detector, m.Duplicates)
		}
	}
	return nil
}
