package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tamirms/labdup/internal/logger"
)

var (
	logLevel  string
	logFormat string

	// log writes diagnostics to stderr; stdout carries only results.
	log = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "labdup",
	Short: "Find patients with identical lab-study records",
	Long: `labdup reads a file of fixed-length lab-study records, one patient per
line, and reports how many patients share their record with another patient.

Detection runs either as a pairwise linear scan or through a chained hash
table with a selectable hash function. The bench command compares them on
generated datasets.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logger.Options{
			Level:  logLevel,
			Format: logFormat,
			Writer: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
}
