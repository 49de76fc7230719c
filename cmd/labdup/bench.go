package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/labdup"
	"github.com/tamirms/labdup/internal/bench"
	"github.com/tamirms/labdup/internal/metrics"
)

var (
	benchPlanFile    string
	benchSizes       []int
	benchReps        int
	benchRatio       float64
	benchSeed        uint64
	benchHashes      []string
	benchNoLinear    bool
	benchLinearLimit int
	benchFormat      string
	benchMetricsFile string
	benchTimeout     time.Duration
	benchCPUProfile  string
	benchMemProfile  string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare detector run times on generated datasets",
	Long: `Generates one dataset per size and times the linear detector and each
hash detector on it, averaging over the configured repetitions.

Settings come from the defaults, then the YAML file given by --plan, then any
flag set on the command line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := benchPlan(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if benchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, benchTimeout)
			defer cancel()
		}

		opts := []bench.Option{bench.WithLogger(log)}
		var exporter *metrics.Exporter
		if benchMetricsFile != "" {
			exporter = metrics.New()
			opts = append(opts, bench.WithObserver(exporter.Observe))
		}

		stopProfiles, err := startProfiles(benchCPUProfile, benchMemProfile)
		if err != nil {
			return err
		}
		ms, err := bench.Run(ctx, plan, opts...)
		if perr := stopProfiles(); err == nil {
			err = perr
		}
		if err != nil {
			return err
		}

		switch benchFormat {
		case "json":
			err = bench.WriteJSON(cmd.OutOrStdout(), ms)
		default:
			err = bench.WriteTable(cmd.OutOrStdout(), ms)
		}
		if err != nil {
			return err
		}

		if exporter != nil {
			if err := exporter.WriteFile(benchMetricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		log.Info().Uint64("max_rss_bytes", maxRSS()).Msg("benchmark complete")
		return nil
	},
}

// benchPlan layers command-line overrides on the plan file or defaults.
func benchPlan(cmd *cobra.Command) (bench.Plan, error) {
	plan := bench.DefaultPlan()
	if benchPlanFile != "" {
		var err error
		if plan, err = bench.LoadPlan(benchPlanFile); err != nil {
			return bench.Plan{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("sizes") {
		plan.Sizes = benchSizes
	}
	if f.Changed("reps") {
		plan.Repetitions = benchReps
	}
	if f.Changed("ratio") {
		plan.DuplicateRatio = benchRatio
	}
	if f.Changed("seed") {
		plan.Seed = benchSeed
	}
	if f.Changed("hash") {
		plan.HashKinds = nil
		for _, name := range benchHashes {
			k, err := labdup.ParseHashKind(name)
			if err != nil {
				return bench.Plan{}, err
			}
			plan.HashKinds = append(plan.HashKinds, k)
		}
	}
	if f.Changed("no-linear") {
		plan.Linear = !benchNoLinear
	}
	if f.Changed("linear-limit") {
		plan.LinearLimit = benchLinearLimit
	}
	return plan, plan.Validate()
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchPlanFile, "plan", "", "YAML benchmark plan")
	f.IntSliceVar(&benchSizes, "sizes", nil, "dataset sizes (overrides the plan)")
	f.IntVar(&benchReps, "reps", 3, "timed runs per detector and size")
	f.Float64Var(&benchRatio, "ratio", 0.2, "share of duplicate records")
	f.Uint64Var(&benchSeed, "seed", 1, "dataset seed")
	f.StringSliceVar(&benchHashes, "hash", nil, "hash functions to compare (default: all)")
	f.BoolVar(&benchNoLinear, "no-linear", false, "skip the linear detector")
	f.IntVar(&benchLinearLimit, "linear-limit", 0, "skip the linear detector above this size (0 = never)")
	f.StringVar(&benchFormat, "format", "table", "output format: table or json")
	f.StringVar(&benchMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	f.DurationVar(&benchTimeout, "timeout", 0, "abort the benchmark after this long (0 = no limit)")
	f.StringVar(&benchCPUProfile, "cpuprofile", "", "write a CPU profile of the timed runs to this file")
	f.StringVar(&benchMemProfile, "memprofile", "", "write a heap profile after the timed runs to this file")
	rootCmd.AddCommand(benchCmd)
}
