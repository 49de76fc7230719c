package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/labdup/internal/dataset"
)

var (
	genStudies  int
	genMaxValue uint64
	genSeed     uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate <file> <patients> [duplicate-ratio]",
	Short: "Write a synthetic record file",
	Long: `Writes <patients> random records, of which floor(patients * ratio) copy
another record, shuffled. The ratio defaults to 0.1. A ratio that leaves no
unique record to copy from (such as 1) writes <patients> unique records.

Without --seed every invocation produces a different dataset.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid patient count %q: %w", args[1], err)
		}
		ratio := dataset.DefaultDuplicateRatio
		if len(args) == 3 {
			if ratio, err = strconv.ParseFloat(args[2], 64); err != nil {
				return fmt.Errorf("invalid duplicate ratio %q: %w", args[2], err)
			}
		}
		seed := genSeed
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}

		rng := rand.New(rand.NewPCG(seed, 0))
		rs, err := dataset.Generate(rng, n,
			dataset.WithStudies(genStudies),
			dataset.WithMaxValue(genMaxValue),
			dataset.WithDuplicateRatio(ratio),
		)
		if err != nil {
			return err
		}
		if err := dataset.WriteFile(args[0], rs); err != nil {
			return err
		}
		log.Info().
			Str("file", args[0]).
			Int("patients", rs.Len()).
			Float64("duplicate_ratio", ratio).
			Uint64("seed", seed).
			Msg("dataset written")
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.IntVar(&genStudies, "studies", dataset.DefaultStudies, "values per record")
	f.Uint64Var(&genMaxValue, "max-value", dataset.DefaultMaxValue, "largest generated value")
	f.Uint64Var(&genSeed, "seed", 0, "random seed (default: time based)")
	rootCmd.AddCommand(generateCmd)
}
