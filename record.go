package labdup

import (
	"fmt"
	"iter"
	"slices"

	duperrors "github.com/tamirms/labdup/errors"
)

// Record is one patient's lab-study results. Records are compared by exact
// elementwise equality.
type Record []uint64

// Equal reports whether r and o hold the same values in the same order.
func (r Record) Equal(o Record) bool {
	return slices.Equal(r, o)
}

// RecordSet is an ordered, read-only collection of records of one arity.
// The position of a record is the patient index for this run.
type RecordSet struct {
	records []Record
	arity   int
}

// NewRecordSet builds a RecordSet from records, in order.
// All records must have the same length; the slice is not copied.
func NewRecordSet(records ...Record) (*RecordSet, error) {
	rs := &RecordSet{records: records}
	for i, r := range records {
		if i == 0 {
			rs.arity = len(r)
			continue
		}
		if len(r) != rs.arity {
			return nil, fmt.Errorf("%w: record %d has %d values, want %d",
				duperrors.ErrArityMismatch, i, len(r), rs.arity)
		}
	}
	return rs, nil
}

// Len returns the number of records.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Arity returns the number of values per record, or 0 for an empty set.
func (rs *RecordSet) Arity() int {
	if rs == nil {
		return 0
	}
	return rs.arity
}

// At returns the record at patient index i.
func (rs *RecordSet) At(i int) Record {
	return rs.records[i]
}

// All iterates over (index, record) pairs in input order.
func (rs *RecordSet) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if rs == nil {
			return
		}
		for i, r := range rs.records {
			if !yield(i, r) {
				return
			}
		}
	}
}
