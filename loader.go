package labdup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"

	duperrors "github.com/tamirms/labdup/errors"
)

// LoadOption is a functional option for the record loaders.
type LoadOption func(*loadConfig)

type loadConfig struct {
	arity    int
	maxValue uint64
	hasMax   bool
}

// WithArity requires every record to have exactly k values.
// By default the first record fixes the arity.
func WithArity(k int) LoadOption {
	return func(c *loadConfig) {
		c.arity = k
	}
}

// WithMaxValue rejects records holding a value greater than v.
func WithMaxValue(v uint64) LoadOption {
	return func(c *loadConfig) {
		c.maxValue = v
		c.hasMax = true
	}
}

// LoadRecords memory-maps the file at path and parses it with ParseRecords.
// The returned records do not reference the mapping.
func LoadRecords(path string, opts ...LoadOption) (*RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat record file: %w", err)
	}
	if stat.Size() == 0 {
		return nil, fmt.Errorf("%w: empty file", duperrors.ErrInvalidHeader)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap record file: %w", err)
	}
	madviseSequential(mm)

	rs, err := ParseRecords(mm, opts...)
	return rs, errors.Join(err, mm.Unmap())
}

// ReadRecords reads all of r and parses it with ParseRecords.
func ReadRecords(r io.Reader, opts ...LoadOption) (*RecordSet, error) {
	if f, ok := r.(*os.File); ok {
		fadviseSequential(int(f.Fd()), 0, 0)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return ParseRecords(data, opts...)
}

// ParseRecords parses the record file format: a first line holding the
// record count n, followed by n lines of whitespace-separated non-negative
// integers. Blank lines after the header are ignored.
//
// Every error wraps ErrMalformedInput and names the 1-based line number.
func ParseRecords(data []byte, opts ...LoadOption) (*RecordSet, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	header, rest, _ := bytes.Cut(data, []byte{'\n'})
	header = bytes.TrimSpace(header)
	n, err := strconv.Atoi(string(header))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: line 1: %q", duperrors.ErrInvalidHeader, header)
	}

	// Each value takes at least two bytes, which bounds preallocation for
	// files that overstate their count or line width.
	limit := len(rest)/2 + 1
	p := &parser{cfg: cfg, arity: cfg.arity, valueLimit: limit}
	p.records = make([]Record, 0, min(n, limit))

	lineNo := 1
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte{'\n'})
		lineNo++
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(p.records) == n {
			return nil, fmt.Errorf("%w: line %d: declared %d records, found more",
				duperrors.ErrCountMismatch, lineNo, n)
		}
		if err := p.parseLine(fields, lineNo); err != nil {
			return nil, err
		}
	}
	if len(p.records) != n {
		return nil, fmt.Errorf("%w: declared %d records, found %d",
			duperrors.ErrCountMismatch, n, len(p.records))
	}

	rs := &RecordSet{records: p.records}
	if n > 0 {
		rs.arity = p.arity
	}
	return rs, nil
}

type parser struct {
	cfg        *loadConfig
	arity      int
	valueLimit int
	values     []uint64
	records    []Record
}

func (p *parser) parseLine(fields [][]byte, lineNo int) error {
	if p.arity == 0 {
		p.arity = len(fields)
	}
	if len(fields) != p.arity {
		return fmt.Errorf("%w: line %d: %d values, want %d",
			duperrors.ErrArityMismatch, lineNo, len(fields), p.arity)
	}
	if p.values == nil {
		// One backing array for all records, sized like the record slice
		// but never beyond what the input can hold.
		size := p.valueLimit
		if c := cap(p.records); c > 0 && p.arity <= p.valueLimit/c {
			size = c * p.arity
		}
		p.values = make([]uint64, 0, size)
	}

	start := len(p.values)
	for _, tok := range fields {
		v, err := strconv.ParseUint(string(tok), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %q", duperrors.ErrInvalidValue, lineNo, tok)
		}
		if p.cfg.hasMax && v > p.cfg.maxValue {
			return fmt.Errorf("%w: line %d: %d > %d",
				duperrors.ErrValueOutOfRange, lineNo, v, p.cfg.maxValue)
		}
		p.values = append(p.values, v)
	}
	end := len(p.values)
	p.records = append(p.records, Record(p.values[start:end:end]))
	return nil
}
