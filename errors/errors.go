// Package errors defines all exported error sentinels for the labdup library.
//
// The top-level labdup package, the internal helpers and the CLI all import
// from here, so errors.Is checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Input errors. Every loader failure wraps ErrMalformedInput, so callers that
// only care about "the file is bad" can test for that one sentinel.
var (
	ErrMalformedInput = errors.New("labdup: malformed input")

	ErrInvalidHeader   = fmt.Errorf("%w: missing or invalid record count", ErrMalformedInput)
	ErrCountMismatch   = fmt.Errorf("%w: declared record count does not match data lines", ErrMalformedInput)
	ErrInvalidValue    = fmt.Errorf("%w: value is not a non-negative integer", ErrMalformedInput)
	ErrArityMismatch   = fmt.Errorf("%w: record arity mismatch", ErrMalformedInput)
	ErrValueOutOfRange = fmt.Errorf("%w: value exceeds configured maximum", ErrMalformedInput)
)

// Construction errors
var (
	ErrUnknownHashKind  = errors.New("labdup: unknown hash kind")
	ErrInvalidTableSize = errors.New("labdup: minimum table size must be at least 2")
)

// Dataset and benchmark errors
var (
	ErrInvalidRatio     = errors.New("labdup: duplicate ratio must be within [0, 1]")
	ErrInvalidPlan      = errors.New("labdup: invalid benchmark plan")
	ErrDetectorMismatch = errors.New("labdup: detectors disagree on duplicate count")
)
