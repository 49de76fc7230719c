// Labdup finds patients with identical lab-study records and benchmarks the
// detectors against each other.
//
// Usage:
//
//	labdup generate patients.txt 20000 0.2
//	labdup detect patients.txt --hash polynomial
//	labdup detect patients.txt --linear
//	labdup bench --sizes 1000,10000 --format json
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
