package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/labdup"
	"github.com/tamirms/labdup/internal/metrics"
)

var (
	detectHash         string
	detectLinear       bool
	detectArity        int
	detectMaxValue     uint64
	detectMinTableSize uint64
	detectMetricsFile  string
)

var detectCmd = &cobra.Command{
	Use:   "detect <file|->",
	Short: "Report patients whose records are identical",
	Long: `Loads the record file (or stdin when the path is "-") and prints either
"no two patients have identical records" or the number of identical patients.

Elapsed time, including loading, and hash table statistics are logged to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var loadOpts []labdup.LoadOption
		if detectArity > 0 {
			loadOpts = append(loadOpts, labdup.WithArity(detectArity))
		}
		if cmd.Flags().Changed("max-value") {
			loadOpts = append(loadOpts, labdup.WithMaxValue(detectMaxValue))
		}

		detector, err := newDetector()
		if err != nil {
			return err
		}

		start := time.Now()
		var rs *labdup.RecordSet
		if args[0] == "-" {
			rs, err = labdup.ReadRecords(cmd.InOrStdin(), loadOpts...)
		} else {
			rs, err = labdup.LoadRecords(args[0], loadOpts...)
		}
		if err != nil {
			return err
		}
		report := detector.Detect(rs)
		elapsed := time.Since(start)

		fmt.Fprintln(cmd.OutOrStdout(), report)

		ev := log.Info().
			Str("detector", report.Detector).
			Int("records", rs.Len()).
			Int("arity", rs.Arity()).
			Int("duplicates", report.Duplicates).
			Dur("elapsed", elapsed).
			Uint64("max_rss_bytes", maxRSS())
		if t := report.Table; t != nil {
			ev = ev.
				Uint64("table_size", t.Size).
				Int("collisions", t.Collisions).
				Int("occupied_buckets", t.OccupiedBuckets).
				Int("max_bucket_len", t.MaxBucketLen).
				Float64("mean_bucket_len", t.MeanBucketLen)
		}
		ev.Msg("detection complete")

		if detectMetricsFile != "" {
			e := metrics.New()
			e.Observe(report, rs.Len(), elapsed)
			if err := e.WriteFile(detectMetricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return nil
	},
}

func newDetector() (labdup.Detector, error) {
	if detectLinear {
		return labdup.NewLinearDetector(labdup.WithLogger(log)), nil
	}
	kind, err := labdup.ParseHashKind(detectHash)
	if err != nil {
		return nil, err
	}
	return labdup.NewHashDetector(kind,
		labdup.WithMinTableSize(detectMinTableSize),
		labdup.WithLogger(log),
	)
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&detectHash, "hash", labdup.HashPolynomial.String(), "hash function: polynomial, multiplicative, sha256, xxhash, xxh3, murmur3")
	f.BoolVar(&detectLinear, "linear", false, "use the pairwise linear scan instead of a hash table")
	f.IntVar(&detectArity, "arity", 0, "required values per record (0 = take from the first record)")
	f.Uint64Var(&detectMaxValue, "max-value", 0, "reject records holding a value above this bound")
	f.Uint64Var(&detectMinTableSize, "min-table-size", labdup.DefaultMinTableSize, "smallest hash table size")
	f.StringVar(&detectMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	detectCmd.MarkFlagsMutuallyExclusive("hash", "linear")
	rootCmd.AddCommand(detectCmd)
}
