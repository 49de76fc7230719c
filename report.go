package labdup

import "fmt"

// DetectorLinear is the Report.Detector value for LinearDetector.
const DetectorLinear = "linear"

// Report is the outcome of one detection run.
type Report struct {
	// Detector is "linear" or the name of the hash kind used.
	Detector string `json:"detector"`

	// Duplicates is the number of patients whose record equals at least one
	// other patient's record.
	Duplicates int `json:"duplicates"`

	// Indices holds those patients' indices in ascending order.
	Indices []int `json:"indices,omitempty"`

	// Table is set for hash detectors only.
	Table *TableStats `json:"table,omitempty"`
}

// TableStats describes the hash table a HashDetector built.
type TableStats struct {
	Size uint64 `json:"size"`

	// Collisions counts insertions that landed in a non-empty bucket,
	// whether or not the bucket already held an equal record.
	Collisions int `json:"collisions"`

	OccupiedBuckets int `json:"occupied_buckets"`
	MaxBucketLen    int `json:"max_bucket_len"`

	// MeanBucketLen is entries per occupied bucket, 0 when none is occupied.
	MeanBucketLen float64 `json:"mean_bucket_len"`
}

// HasDuplicates reports whether any two patients share a record.
func (r *Report) HasDuplicates() bool {
	return r.Duplicates > 0
}

// String renders the verdict line printed by the CLI.
func (r *Report) String() string {
	if !r.HasDuplicates() {
		return "no two patients have identical records"
	}
	return fmt.Sprintf("found %d identical patients", r.Duplicates)
}
