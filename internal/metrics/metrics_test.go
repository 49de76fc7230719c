package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamirms/labdup"
)

func hashReport() *labdup.Report {
	return &labdup.Report{
		Detector:   "polynomial",
		Duplicates: 4,
		Indices:    []int{0, 2, 5, 7},
		Table: &labdup.TableStats{
			Size:            10007,
			Collisions:      3,
			OccupiedBuckets: 6,
			MaxBucketLen:    2,
			MeanBucketLen:   1.5,
		},
	}
}

func TestObserveHashReport(t *testing.T) {
	e := New()
	e.Observe(hashReport(), 9, 250*time.Millisecond)

	assert.Equal(t, 4.0, testutil.ToFloat64(e.duplicates.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 0.25, testutil.ToFloat64(e.duration.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 10007.0, testutil.ToFloat64(e.tableSize.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.collisions.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 6.0, testutil.ToFloat64(e.occupiedBuckets.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.maxBucketLen.WithLabelValues("polynomial", "9")))
	assert.Equal(t, 1.5, testutil.ToFloat64(e.meanBucketLen.WithLabelValues("polynomial", "9")))
}

func TestObserveLinearReportSkipsTableGauges(t *testing.T) {
	e := New()
	e.Observe(&labdup.Report{Detector: labdup.DetectorLinear, Duplicates: 2}, 3, time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(e.duplicates))
	assert.Equal(t, 0, testutil.CollectAndCount(e.collisions))
	assert.Equal(t, 0, testutil.CollectAndCount(e.tableSize))
}

func TestWriteFile(t *testing.T) {
	e := New()
	e.Observe(hashReport(), 9, time.Second)
	e.Observe(&labdup.Report{Detector: labdup.DetectorLinear, Duplicates: 4}, 9, 2*time.Second)

	path := filepath.Join(t.TempDir(), "labdup.prom")
	require.NoError(t, e.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `labdup_duplicate_patients{detector="linear",records="9"} 4`)
	assert.Contains(t, out, `labdup_duplicate_patients{detector="polynomial",records="9"} 4`)
	assert.Contains(t, out, `labdup_table_collisions{detector="polynomial",records="9"} 3`)
	assert.Contains(t, out, "# TYPE labdup_table_mean_bucket_length gauge")
}
