package labdup

import "slices"

// entry is one distinct record in a bucket together with every patient
// index that carries it.
type entry struct {
	record  Record
	indices []int
}

// bucket chains the distinct records that hash to one slot. No two entries
// in a bucket hold equal records.
type bucket []entry

// hashTable is a fixed-size chained table. It is built once by inserting
// every record and never resized.
type hashTable struct {
	buckets    []bucket
	hash       hashFunction
	collisions int
}

func newHashTable(size uint64, hash hashFunction) *hashTable {
	return &hashTable{
		buckets: make([]bucket, size),
		hash:    hash,
	}
}

// insert adds the record of patient idx. Landing in a non-empty bucket
// counts as one collision, even when the bucket holds an equal record.
// It reports whether the record merged into an existing entry.
func (t *hashTable) insert(r Record, idx int) bool {
	b := &t.buckets[t.hash.Bucket(r)]
	if len(*b) > 0 {
		t.collisions++
	}
	for i := range *b {
		e := &(*b)[i]
		if e.record.Equal(r) {
			e.indices = append(e.indices, idx)
			return true
		}
	}
	*b = append(*b, entry{record: r, indices: []int{idx}})
	return false
}

// duplicates returns the indices of every entry shared by two or more
// patients, sorted ascending. Its length is the duplicate count.
func (t *hashTable) duplicates() []int {
	var out []int
	for _, b := range t.buckets {
		for _, e := range b {
			if len(e.indices) > 1 {
				out = append(out, e.indices...)
			}
		}
	}
	slices.Sort(out)
	return out
}

func (t *hashTable) stats() TableStats {
	s := TableStats{
		Size:       uint64(len(t.buckets)),
		Collisions: t.collisions,
	}
	var entries int
	for _, b := range t.buckets {
		if len(b) == 0 {
			continue
		}
		s.OccupiedBuckets++
		entries += len(b)
		s.MaxBucketLen = max(s.MaxBucketLen, len(b))
	}
	if s.OccupiedBuckets > 0 {
		s.MeanBucketLen = float64(entries) / float64(s.OccupiedBuckets)
	}
	return s
}
