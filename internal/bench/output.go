package bench

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tamirms/labdup"
)

// WriteTable prints measurements as an aligned table. The speedup column is
// the linear detector's mean divided by the row's mean, for sizes where the
// linear detector ran.
func WriteTable(w io.Writer, ms []Measurement) error {
	linear := make(map[int]Measurement)
	for _, m := range ms {
		if m.Detector == labdup.DetectorLinear {
			linear[m.Size] = m
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "size\tdetector\tmean\tmin\tduplicates\tcollisions\tmax bucket\tmean bucket\tspeedup\t")
	for _, m := range ms {
		collisions, maxBucket, meanBucket := "-", "-", "-"
		if m.Table != nil {
			collisions = fmt.Sprint(m.Table.Collisions)
			maxBucket = fmt.Sprint(m.Table.MaxBucketLen)
			meanBucket = fmt.Sprintf("%.3f", m.Table.MeanBucketLen)
		}
		speedup := "-"
		if l, ok := linear[m.Size]; ok && m.Mean > 0 {
			speedup = fmt.Sprintf("%.2fx", float64(l.Mean)/float64(m.Mean))
		}
		fmt.Fprintf(tw, "%d\t%s\t%v\t%v\t%d\t%s\t%s\t%s\t%s\t\n",
			m.Size, m.Detector, m.Mean, m.Min, m.Duplicates, collisions, maxBucket, meanBucket, speedup)
	}
	return tw.Flush()
}

// WriteJSON writes measurements as an indented JSON array.
func WriteJSON(w io.Writer, ms []Measurement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ms)
}
