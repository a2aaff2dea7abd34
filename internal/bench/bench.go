// Package bench runs batches of headless autopilot games and summarises
// their scores and lengths.
package bench

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
)

// Options configures a batch.
type Options struct {
	Runs     int     // number of runs, each with seed BaseSeed+i
	MaxTicks uint64  // per-run tick cap; a run still active at the cap is cut
	BaseSeed int64   // seed of the first run
	TickRate int     // simulated ticks per second
	Bias     float64 // autopilot bias
}

// DefaultOptions returns a small batch at 60 ticks per second.
func DefaultOptions() Options {
	return Options{
		Runs:     20,
		MaxTicks: 20000,
		BaseSeed: 1,
		TickRate: 60,
		Bias:     flappy.DefaultAutopilotBias,
	}
}

// RunResult is one row of a batch.
type RunResult struct {
	Run    int     `csv:"run"`
	Seed   int64   `csv:"seed"`
	Score  int     `csv:"score"`
	Ticks  uint64  `csv:"ticks"`
	Speed  float64 `csv:"final_speed"`
	Capped bool    `csv:"capped"`
}

// Summary holds descriptive statistics of one metric.
type Summary struct {
	Mean, StdDev float64
	Min, Max     float64
	P50, P90     float64
}

// Report is the outcome of a batch.
type Report struct {
	Runs  []RunResult
	Score Summary
	Ticks Summary
}

// Run plays opts.Runs autopilot games. Runs are independent and
// deterministic: the same options always produce the same report.
func Run(cfg config.FlappyConfig, opts Options) (*Report, error) {
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("bench: runs must be positive, got %d", opts.Runs)
	}
	if opts.MaxTicks == 0 {
		return nil, fmt.Errorf("bench: max ticks must be positive")
	}

	pilot := flappy.Autopilot{Bias: opts.Bias}
	report := &Report{Runs: make([]RunResult, 0, opts.Runs)}

	for i := 0; i < opts.Runs; i++ {
		seed := opts.BaseSeed + int64(i)
		res, err := playOne(cfg, pilot, seed, opts)
		if err != nil {
			return nil, err
		}
		res.Run = i + 1
		report.Runs = append(report.Runs, res)
	}

	scores := make([]float64, len(report.Runs))
	ticks := make([]float64, len(report.Runs))
	for i, r := range report.Runs {
		scores[i] = float64(r.Score)
		ticks[i] = float64(r.Ticks)
	}
	report.Score = summarize(scores)
	report.Ticks = summarize(ticks)

	return report, nil
}

func playOne(cfg config.FlappyConfig, pilot flappy.Autopilot, seed int64, opts Options) (RunResult, error) {
	g, err := flappy.New(cfg, rand.New(rand.NewSource(seed)), nil, 0)
	if err != nil {
		return RunResult{}, fmt.Errorf("bench: %w", err)
	}

	for tick := uint64(1); tick <= opts.MaxTicks && g.Active(); tick++ {
		g.Step(pilot.Decide(g.Snapshot()), core.TickTime(tick, opts.TickRate))
	}

	return RunResult{
		Seed:   seed,
		Score:  g.Score(),
		Ticks:  g.Ticks(),
		Speed:  g.Speed(),
		Capped: g.Active(),
	}, nil
}

// summarize computes the statistics of xs. xs must not be empty.
func summarize(xs []float64) Summary {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// WriteCSV writes one row per run, with a header.
func (r *Report) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.Runs, w); err != nil {
		return fmt.Errorf("bench: writing csv: %w", err)
	}
	return nil
}

// WriteText prints the summary table.
func (r *Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"runs: %d\n\n%-6s %9s %9s %9s %9s %9s %9s\n%s\n%s\n",
		len(r.Runs),
		"", "mean", "stddev", "min", "p50", "p90", "max",
		r.Score.row("score"),
		r.Ticks.row("ticks"),
	)
	return err
}

func (s Summary) row(name string) string {
	return fmt.Sprintf("%-6s %9.2f %9.2f %9.0f %9.1f %9.1f %9.0f", name, s.Mean, s.StdDev, s.Min, s.P50, s.P90, s.Max)
}
