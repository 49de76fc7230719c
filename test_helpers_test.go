package labdup

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a generator seeded from the test name, so every test
// sees its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomRecord returns arity values drawn uniformly from [0, maxValue).
func randomRecord(rng *rand.Rand, arity int, maxValue uint64) Record {
	r := make(Record, arity)
	for i := range r {
		r[i] = rng.Uint64N(maxValue)
	}
	return r
}

// recordSet builds a RecordSet from literal rows.
func recordSet(t testing.TB, rows ...[]uint64) *RecordSet {
	t.Helper()
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}
	rs, err := NewRecordSet(records...)
	require.NoError(t, err)
	return rs
}

// randomRecordSet returns n records of the given arity whose values lie in
// [0, maxValue). Small maxValue or arity yields natural duplicates.
func randomRecordSet(t testing.TB, rng *rand.Rand, n, arity int, maxValue uint64) *RecordSet {
	t.Helper()
	records := make([]Record, n)
	for i := range records {
		records[i] = randomRecord(rng, arity, maxValue)
	}
	rs, err := NewRecordSet(records...)
	require.NoError(t, err)
	return rs
}

// shuffled returns a copy of rs with its records permuted.
func shuffled(t testing.TB, rng *rand.Rand, rs *RecordSet) *RecordSet {
	t.Helper()
	records := make([]Record, 0, rs.Len())
	for _, r := range rs.All() {
		records = append(records, r)
	}
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	out, err := NewRecordSet(records...)
	require.NoError(t, err)
	return out
}

// allDetectors returns the linear detector followed by one hash detector
// per kind, all built with opts.
func allDetectors(t testing.TB, opts ...Option) []Detector {
	t.Helper()
	detectors := []Detector{NewLinearDetector(opts...)}
	for _, k := range HashKinds() {
		d, err := NewHashDetector(k, opts...)
		require.NoError(t, err)
		detectors = append(detectors, d)
	}
	return detectors
}

// bruteForceDuplicates counts indices whose record occurs more than once.
func bruteForceDuplicates(rs *RecordSet) []int {
	var out []int
	for i, a := range rs.All() {
		for j, b := range rs.All() {
			if i != j && a.Equal(b) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
