package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/bench"
)

var (
	flagRuns     int
	flagMaxTicks uint64
	flagCSVPath  string
	flagBias     float64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play headless autopilot runs and report statistics",
	Long: `Play a batch of seeded runs with the autopilot and print summary
statistics of score and run length. Run i uses seed --seed + i, so a batch
is fully reproducible.

Examples:
  flapper bench
  flapper bench --runs 100 --seed 7
  flapper bench --runs 50 --csv runs.csv
  flapper bench --bias -20`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	def := bench.DefaultOptions()
	benchCmd.Flags().IntVar(&flagRuns, "runs", def.Runs, "Number of runs")
	benchCmd.Flags().Uint64Var(&flagMaxTicks, "max-ticks", def.MaxTicks, "Tick cap per run")
	benchCmd.Flags().StringVar(&flagCSVPath, "csv", "", "Write per-run rows to this CSV file")
	benchCmd.Flags().Float64Var(&flagBias, "bias", def.Bias, "Autopilot bias in pixels (positive flaps later)")
}

func runBench(_ *cobra.Command, _ []string) error {
	logger := stderrLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	opts := bench.Options{
		Runs:     flagRuns,
		MaxTicks: flagMaxTicks,
		BaseSeed: flagSeed,
		TickRate: flagFPS,
		Bias:     flagBias,
	}
	if opts.BaseSeed == 0 {
		opts.BaseSeed = bench.DefaultOptions().BaseSeed
	}

	logger.Info("bench started", "runs", opts.Runs, "seed", opts.BaseSeed, "fps", opts.TickRate)
	report, err := bench.Run(cfg, opts)
	if err != nil {
		return err
	}

	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}

	if flagCSVPath == "" {
		return nil
	}
	f, err := os.Create(flagCSVPath)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", flagCSVPath, err)
	}
	defer f.Close()
	if err := report.WriteCSV(f); err != nil {
		return err
	}
	logger.Info("csv written", "path", flagCSVPath, "rows", len(report.Runs))
	return nil
}
