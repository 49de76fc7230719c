// Package metrics exports detection reports as Prometheus gauges, written in
// the node-exporter textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamirms/labdup"
)

var labels = []string{"detector", "records"}

// Exporter holds one gauge family per report field on a private registry.
// Each Observe overwrites the series for its (detector, records) pair.
type Exporter struct {
	registry *prometheus.Registry

	duplicates      *prometheus.GaugeVec
	duration        *prometheus.GaugeVec
	tableSize       *prometheus.GaugeVec
	collisions      *prometheus.GaugeVec
	occupiedBuckets *prometheus.GaugeVec
	maxBucketLen    *prometheus.GaugeVec
	meanBucketLen   *prometheus.GaugeVec
}

func newGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "labdup",
		Name:      name,
		Help:      help,
	}, labels)
}

// New creates an Exporter with all gauges registered.
func New() *Exporter {
	e := &Exporter{
		registry:        prometheus.NewRegistry(),
		duplicates:      newGauge("duplicate_patients", "Patients whose record equals another patient's record"),
		duration:        newGauge("detect_duration_seconds", "Wall-clock duration of the detection run"),
		tableSize:       newGauge("table_size", "Number of buckets in the hash table"),
		collisions:      newGauge("table_collisions", "Insertions that landed in a non-empty bucket"),
		occupiedBuckets: newGauge("table_occupied_buckets", "Buckets holding at least one entry"),
		maxBucketLen:    newGauge("table_max_bucket_length", "Entries in the longest bucket"),
		meanBucketLen:   newGauge("table_mean_bucket_length", "Mean entries per occupied bucket"),
	}
	e.registry.MustRegister(
		e.duplicates,
		e.duration,
		e.tableSize,
		e.collisions,
		e.occupiedBuckets,
		e.maxBucketLen,
		e.meanBucketLen,
	)
	return e
}

// Observe records r, produced over the given number of records in elapsed.
// Table gauges are only set for hash detectors.
func (e *Exporter) Observe(r *labdup.Report, records int, elapsed time.Duration) {
	lv := prometheus.Labels{"detector": r.Detector, "records": strconv.Itoa(records)}
	e.duplicates.With(lv).Set(float64(r.Duplicates))
	e.duration.With(lv).Set(elapsed.Seconds())
	if r.Table == nil {
		return
	}
	e.tableSize.With(lv).Set(float64(r.Table.Size))
	e.collisions.With(lv).Set(float64(r.Table.Collisions))
	e.occupiedBuckets.With(lv).Set(float64(r.Table.OccupiedBuckets))
	e.maxBucketLen.With(lv).Set(float64(r.Table.MaxBucketLen))
	e.meanBucketLen.With(lv).Set(r.Table.MeanBucketLen)
}

// Registry exposes the underlying registry, mainly for tests.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// WriteFile writes every gauge to path atomically in the textfile format.
func (e *Exporter) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}
