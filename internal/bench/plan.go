package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamirms/labdup"
	duperrors "github.com/tamirms/labdup/errors"
	"github.com/tamirms/labdup/internal/dataset"
)

// Plan describes one comparative benchmark.
type Plan struct {
	// Sizes lists the record counts to generate, one dataset per size.
	Sizes []int `yaml:"sizes" json:"sizes"`
	// Repetitions is the number of timed runs averaged per detector and size.
	Repetitions    int     `yaml:"repetitions" json:"repetitions"`
	DuplicateRatio float64 `yaml:"duplicate_ratio" json:"duplicate_ratio"`
	Studies        int     `yaml:"studies" json:"studies"`
	MaxValue       uint64  `yaml:"max_value" json:"max_value"`
	// Seed makes generated datasets reproducible across runs.
	Seed         uint64            `yaml:"seed" json:"seed"`
	HashKinds    []labdup.HashKind `yaml:"hash_kinds" json:"hash_kinds"`
	MinTableSize uint64            `yaml:"min_table_size" json:"min_table_size"`
	// Linear enables the baseline detector.
	Linear bool `yaml:"linear" json:"linear"`
	// LinearLimit skips the baseline for sizes above it; 0 means no limit.
	LinearLimit int `yaml:"linear_limit" json:"linear_limit"`
}

// DefaultPlan compares the baseline against every hash kind on datasets of
// 100 to 20000 patients with 20% duplicates.
func DefaultPlan() Plan {
	return Plan{
		Sizes:          []int{100, 500, 1000, 2000, 5000, 10000, 20000},
		Repetitions:    3,
		DuplicateRatio: 0.2,
		Studies:        dataset.DefaultStudies,
		MaxValue:       dataset.DefaultMaxValue,
		Seed:           1,
		HashKinds:      labdup.HashKinds(),
		MinTableSize:   labdup.DefaultMinTableSize,
		Linear:         true,
	}
}

// LoadPlan reads a YAML plan from path. Fields absent from the file keep
// their DefaultPlan values; unknown fields are rejected.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan over DefaultPlan and validates it.
func ParsePlan(data []byte) (Plan, error) {
	plan := DefaultPlan()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return Plan{}, fmt.Errorf("%w: %w", duperrors.ErrInvalidPlan, err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Validate checks that the plan can run.
func (p Plan) Validate() error {
	if len(p.Sizes) == 0 {
		return fmt.Errorf("%w: no sizes", duperrors.ErrInvalidPlan)
	}
	for _, s := range p.Sizes {
		if s < 0 {
			return fmt.Errorf("%w: negative size %d", duperrors.ErrInvalidPlan, s)
		}
	}
	if p.Repetitions < 1 {
		return fmt.Errorf("%w: repetitions must be positive, got %d", duperrors.ErrInvalidPlan, p.Repetitions)
	}
	if !(p.DuplicateRatio >= 0 && p.DuplicateRatio <= 1) {
		return fmt.Errorf("%w: %w", duperrors.ErrInvalidPlan, duperrors.ErrInvalidRatio)
	}
	if p.Studies < 1 {
		return fmt.Errorf("%w: studies must be positive, got %d", duperrors.ErrInvalidPlan, p.Studies)
	}
	if p.MinTableSize < 2 {
		return fmt.Errorf("%w: %w", duperrors.ErrInvalidPlan, duperrors.ErrInvalidTableSize)
	}
	for _, k := range p.HashKinds {
		if !k.Valid() {
			return fmt.Errorf("%w: %w: %d", duperrors.ErrInvalidPlan, duperrors.ErrUnknownHashKind, uint8(k))
		}
	}
	if !p.Linear && len(p.HashKinds) == 0 {
		return fmt.Errorf("%w: no detectors enabled", duperrors.ErrInvalidPlan)
	}
	return nil
}
