package labdup

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duperrors "github.com/tamirms/labdup/errors"
)

func TestDetectSharedRecord(t *testing.T) {
	rs := recordSet(t, []uint64{1, 2, 3}, []uint64{4, 5, 6}, []uint64{1, 2, 3})
	for _, d := range allDetectors(t) {
		r := d.Detect(rs)
		assert.Equal(t, 2, r.Duplicates, r.Detector)
		assert.Equal(t, []int{0, 2}, r.Indices, r.Detector)
		assert.True(t, r.HasDuplicates())
		assert.Equal(t, "found 2 identical patients", r.String())
	}
}

func TestDetectAllDistinct(t *testing.T) {
	rs := recordSet(t,
		[]uint64{1, 2, 3},
		[]uint64{3, 2, 1},
		[]uint64{4, 5, 6},
		[]uint64{7, 8, 9},
		[]uint64{0, 0, 0},
	)
	for _, d := range allDetectors(t) {
		r := d.Detect(rs)
		assert.Zero(t, r.Duplicates, r.Detector)
		assert.Empty(t, r.Indices, r.Detector)
		assert.False(t, r.HasDuplicates())
		assert.Equal(t, "no two patients have identical records", r.String())
	}
}

func TestDetectEmpty(t *testing.T) {
	empty, err := NewRecordSet()
	require.NoError(t, err)

	for _, rs := range []*RecordSet{empty, nil} {
		for _, d := range allDetectors(t) {
			r := d.Detect(rs)
			assert.Zero(t, r.Duplicates, r.Detector)
			if r.Table != nil {
				assert.Equal(t, uint64(10007), r.Table.Size)
				assert.Zero(t, r.Table.Collisions)
				assert.Zero(t, r.Table.OccupiedBuckets)
				assert.Zero(t, r.Table.MaxBucketLen)
				assert.Zero(t, r.Table.MeanBucketLen)
			}
		}
	}
}

// TestDetectSingleGroup places one group of size g among unique records.
func TestDetectSingleGroup(t *testing.T) {
	rng := newTestRNG(t)
	for _, g := range []int{2, 3, 7, 50} {
		group := Record{42, 42, 42, 42}
		records := []Record{}
		for i := range 100 {
			// Unique by construction: first value is the index.
			records = append(records, Record{uint64(1000 + i), rng.Uint64N(10), 0, 1})
		}
		for range g {
			records = append(records, append(Record(nil), group...))
		}
		rs, err := NewRecordSet(records...)
		require.NoError(t, err)
		rs = shuffled(t, rng, rs)

		for _, d := range allDetectors(t) {
			r := d.Detect(rs)
			assert.Equal(t, g, r.Duplicates, "g=%d %s", g, r.Detector)
			for _, idx := range r.Indices {
				assert.True(t, rs.At(idx).Equal(group))
			}
		}
	}
}

// TestDetectorsAgree is the cross-implementation check: every detector
// reports the same duplicate indices as a brute-force scan.
func TestDetectorsAgree(t *testing.T) {
	rng := newTestRNG(t)
	cases := []struct {
		n, arity int
		maxValue uint64
	}{
		{1, 3, 2},
		{2, 1, 2},
		{10, 2, 3},
		{200, 3, 4},
		{500, 10, 10_000_000},
		{1500, 2, 40},
		{3000, 1, 2500},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("n=%d/arity=%d/max=%d", c.n, c.arity, c.maxValue), func(t *testing.T) {
			rs := randomRecordSet(t, rng, c.n, c.arity, c.maxValue)
			want := bruteForceDuplicates(rs)
			for _, d := range allDetectors(t) {
				r := d.Detect(rs)
				assert.Equal(t, len(want), r.Duplicates, r.Detector)
				assert.Equal(t, want, r.Indices, r.Detector)
			}
		})
	}
}

// TestDetectorsAgreeSmallTable forces long chains with a tiny table floor.
func TestDetectorsAgreeSmallTable(t *testing.T) {
	rng := newTestRNG(t)
	rs := randomRecordSet(t, rng, 400, 2, 30)
	want := bruteForceDuplicates(rs)
	for _, d := range allDetectors(t, WithMinTableSize(2)) {
		r := d.Detect(rs)
		assert.Equal(t, want, r.Indices, r.Detector)
		if r.Table != nil {
			assert.Equal(t, uint64(809), r.Table.Size, "next prime >= 2n")
		}
	}
}

func TestDetectPermutationInvariant(t *testing.T) {
	rng := newTestRNG(t)
	rs := randomRecordSet(t, rng, 800, 3, 8)
	for _, d := range allDetectors(t) {
		want := d.Detect(rs).Duplicates
		for range 5 {
			assert.Equal(t, want, d.Detect(shuffled(t, rng, rs)).Duplicates)
		}
	}
}

// TestCollisionBound checks 0 <= collisions <= n-1 for every kind.
func TestCollisionBound(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range []int{1, 2, 50, 2000} {
		rs := randomRecordSet(t, rng, n, 2, 20)
		for _, k := range HashKinds() {
			d, err := NewHashDetector(k, WithMinTableSize(2))
			require.NoError(t, err)
			r := d.Detect(rs)
			assert.GreaterOrEqual(t, r.Table.Collisions, 0)
			assert.LessOrEqual(t, r.Table.Collisions, n-1, "n=%d %s", n, k)
		}
	}
}

// TestCollisionsCountRepeatedRecords documents the coarse collision metric:
// inserting a copy of a record into its own bucket counts as a collision.
func TestCollisionsCountRepeatedRecords(t *testing.T) {
	rs := recordSet(t, []uint64{9, 9}, []uint64{9, 9}, []uint64{9, 9}, []uint64{9, 9})
	for _, k := range HashKinds() {
		d, err := NewHashDetector(k)
		require.NoError(t, err)
		r := d.Detect(rs)
		assert.Equal(t, 3, r.Table.Collisions, k.String())
		assert.Equal(t, 1, r.Table.OccupiedBuckets)
		assert.Equal(t, 1, r.Table.MaxBucketLen)
		assert.Equal(t, 1.0, r.Table.MeanBucketLen)
		assert.Equal(t, 4, r.Duplicates)
	}
}

func TestTableSizing(t *testing.T) {
	d, err := NewHashDetector(HashPolynomial)
	require.NoError(t, err)
	assert.Equal(t, uint64(10007), d.TableSize(0))
	assert.Equal(t, uint64(10007), d.TableSize(5000))
	assert.Equal(t, uint64(10009), d.TableSize(5004))
	assert.Equal(t, uint64(20011), d.TableSize(10000))
	assert.Equal(t, uint64(40009), d.TableSize(20000))

	small, err := NewHashDetector(HashPolynomial, WithMinTableSize(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), small.TableSize(0))
	assert.Equal(t, uint64(7), small.TableSize(3))
}

func TestNewHashDetectorErrors(t *testing.T) {
	_, err := NewHashDetector(numHashKinds)
	require.ErrorIs(t, err, duperrors.ErrUnknownHashKind)

	_, err = NewHashDetector(HashSHA256, WithMinTableSize(1))
	require.ErrorIs(t, err, duperrors.ErrInvalidTableSize)
}

func TestDetectorReuse(t *testing.T) {
	d, err := NewHashDetector(HashXXH3)
	require.NoError(t, err)
	a := recordSet(t, []uint64{1}, []uint64{1})
	b := recordSet(t, []uint64{1}, []uint64{2})

	assert.Equal(t, 2, d.Detect(a).Duplicates)
	assert.Equal(t, 0, d.Detect(b).Duplicates, "state must not leak between runs")
	assert.Equal(t, 2, d.Detect(a).Duplicates)
}

func TestDetectorLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	d, err := NewHashDetector(HashMurmur3, WithLogger(log))
	require.NoError(t, err)
	d.Detect(recordSet(t, []uint64{1, 2}, []uint64{1, 2}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hash table built", line["message"])
	assert.Equal(t, "murmur3", line["hash"])
	assert.EqualValues(t, 10007, line["table_size"])
	assert.EqualValues(t, 2, line["duplicates"])

	buf.Reset()
	NewLinearDetector(WithLogger(log)).Detect(recordSet(t, []uint64{1}, []uint64{2}, []uint64{1}))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "linear scan complete", line["message"])
	assert.EqualValues(t, 2, line["comparisons"])
}

func TestReportJSON(t *testing.T) {
	d, err := NewHashDetector(HashPolynomial)
	require.NoError(t, err)
	r := d.Detect(recordSet(t, []uint64{1, 2, 3}, []uint64{4, 5, 6}, []uint64{1, 2, 3}))

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *r, back)
}
