// Package main provides the CLI entry point for visitbench, a concurrent
// map visitation throughput benchmark.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/visitbench/bench"
	"github.com/weiihann/visitbench/keygen"
	"github.com/weiihann/visitbench/measure"
	"github.com/weiihann/visitbench/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "visitbench",
		Short: "Concurrent map visitation throughput benchmark",
		Long: `Visitbench compares single-key ("regular") and batched ("bulk")
lookup throughput against a concurrent map, across a sweep of population
sizes, using trial-based sampling with outlier trimming.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		sizes        []int
		seed         uint64
		trials       int
		minTrialTime time.Duration
		format       string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the visitation throughput sweep",
		Long: `Build a concurrent map at each population size, drive the same
deterministic key sequence through the regular and bulk access patterns,
and print one throughput comparison row per size.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBenchmark(logger, runConfig{
				sizes:        sizes,
				seed:         seed,
				trials:       trials,
				minTrialTime: minTrialTime,
				format:       format,
				quiet:        quiet,
			})
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&sizes, "sizes", bench.DefaultSizes,
		"Population sizes to test, strictly ascending")
	flags.Uint64Var(&seed, "seed", keygen.DefaultSeed,
		"Key generator seed, shared by both access patterns")
	flags.IntVar(&trials, "trials", measure.DefaultTrials,
		"Timing trials per (size, pattern) pair")
	flags.DurationVar(&minTrialTime, "min-trial-time", measure.DefaultMinTrialTime,
		"Minimum wall-clock duration per trial")
	flags.StringVar(&format, "format", "csv",
		"Output format: csv, table, json")
	flags.BoolVar(&quiet, "quiet", false,
		"Suppress progress logging")

	return cmd
}

type runConfig struct {
	sizes        []int
	seed         uint64
	trials       int
	minTrialTime time.Duration
	format       string
	quiet        bool
}

func runBenchmark(logger *slog.Logger, cfg runConfig) error {
	switch cfg.format {
	case "csv", "table", "json":
	default:
		return fmt.Errorf("unknown format %q (want csv, table, or json)", cfg.format)
	}

	if cfg.quiet {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Info("starting benchmark",
		slog.Any("sizes", cfg.sizes),
		slog.Uint64("seed", cfg.seed),
		slog.Int("trials", cfg.trials),
		slog.Duration("min_trial_time", cfg.minTrialTime),
	)

	rows, err := bench.Run(bench.Config{
		Sizes:        cfg.sizes,
		Seed:         cfg.seed,
		Trials:       cfg.trials,
		MinTrialTime: cfg.minTrialTime,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("run benchmark: %w", err)
	}

	switch cfg.format {
	case "table":
		err = report.Write(os.Stdout, rows)
	case "json":
		err = report.WriteJSON(os.Stdout, rows)
	default:
		err = report.WriteCSV(os.Stdout, rows)
	}

	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("benchmark complete")

	return nil
}
