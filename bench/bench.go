// Package bench orchestrates the visitation throughput comparison: for
// each population size it builds a fresh concurrent map, runs the regular
// and bulk access patterns through the measurement harness, and converts
// the timings into throughput rows.
package bench

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/perf/benchmath"

	"github.com/weiihann/visitbench/cmap"
	"github.com/weiihann/visitbench/keygen"
	"github.com/weiihann/visitbench/measure"
	"github.com/weiihann/visitbench/visitor"
)

// DefaultSizes is the population sweep, ascending.
var DefaultSizes = []int{3000, 25000, 600000, 10000000}

// Config controls a benchmark run. Zero fields take the defaults.
type Config struct {
	Sizes        []int
	Seed         uint64
	Trials       int
	MinTrialTime time.Duration
	Logger       *slog.Logger
}

// Throughput holds one access pattern's result at one population size.
type Throughput struct {
	// MopsPerSec is millions of lookups per second, derived from the
	// harness's trimmed-mean seconds-per-run.
	MopsPerSec float64 `json:"mops_per_sec"`
	// Lo and Hi bound the 95% confidence interval over the per-trial
	// throughput samples, assuming nothing about their distribution.
	Lo float64 `json:"mops_lo"`
	Hi float64 `json:"mops_hi"`
	// Hits is the total number of keys found across all timed
	// invocations.
	Hits int64 `json:"hits"`
}

// Row is the comparison result for one population size.
type Row struct {
	N       int        `json:"n"`
	Regular Throughput `json:"regular"`
	Bulk    Throughput `json:"bulk"`
}

// Run executes the sweep and returns one Row per size.
func Run(cfg Config) ([]Row, error) {
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = DefaultSizes
	}

	if cfg.Seed == 0 {
		cfg.Seed = keygen.DefaultSeed
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for i, n := range cfg.Sizes {
		if n <= 0 {
			return nil, fmt.Errorf("size %d must be positive", n)
		}

		if i > 0 && n <= cfg.Sizes[i-1] {
			return nil, fmt.Errorf("sizes must be strictly ascending, got %v", cfg.Sizes)
		}
	}

	rows := make([]Row, 0, len(cfg.Sizes))

	for _, n := range cfg.Sizes {
		logger.Info("populating map", slog.Int("n", n))

		m := cmap.New(n)
		for i := 0; i < n; i++ {
			m.Put(int64(i), int64(i))
		}

		row := Row{N: n}

		var err error

		row.Regular, err = runPattern(cfg, logger, m, n, func(m visitor.Map) visitor.Visitor {
			return visitor.NewRegular(m)
		})
		if err != nil {
			return nil, fmt.Errorf("regular at n=%d: %w", n, err)
		}

		row.Bulk, err = runPattern(cfg, logger, m, n, func(m visitor.Map) visitor.Visitor {
			return visitor.NewBulk(m)
		})
		if err != nil {
			return nil, fmt.Errorf("bulk at n=%d: %w", n, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// runPattern measures one access pattern against a populated map. Each
// workload invocation replays the full key sequence: a fresh generator
// drawing from [0, 2n) feeds n Consume calls and a final Flush, so
// about half the lookups hit. Generator and visitor construction is
// bracketed with Pause/Resume and stays outside the timed interval.
func runPattern(
	cfg Config,
	logger *slog.Logger,
	m *cmap.Map,
	n int,
	newVisitor func(visitor.Map) visitor.Visitor,
) (Throughput, error) {
	var name string

	workload := func(c *measure.Clock) int {
		c.Pause()
		gen := keygen.NewGenerator(keygen.Config{
			Seed:  cfg.Seed,
			Bound: 2 * uint64(n),
		})
		v := newVisitor(m)
		c.Resume()

		for i := 0; i < n; i++ {
			v.Consume(gen)
		}

		v.Flush()

		name = v.Name()

		return v.Hits()
	}

	res, err := measure.Run(measure.Options{
		Trials:       cfg.Trials,
		MinTrialTime: cfg.MinTrialTime,
	}, workload)
	if err != nil {
		return Throughput{}, err
	}

	tp := Throughput{
		MopsPerSec: mops(n, res.SecondsPerRun),
		Hits:       res.Hits,
	}

	tp.Lo, tp.Hi = confidenceInterval(n, res.Samples)

	logger.Info("pattern measured",
		slog.String("pattern", name),
		slog.Int("n", n),
		slog.Float64("mops_per_sec", tp.MopsPerSec),
		slog.Int64("hits", tp.Hits),
	)

	return tp, nil
}

func mops(n int, secondsPerRun float64) float64 {
	return float64(n) / secondsPerRun / 1e6
}

// confidenceInterval summarizes the per-trial throughputs with a 95%
// distribution-free interval.
func confidenceInterval(n int, secSamples []float64) (lo, hi float64) {
	vals := make([]float64, len(secSamples))
	for i, s := range secSamples {
		vals[i] = mops(n, s)
	}

	sample := benchmath.NewSample(vals, &benchmath.DefaultThresholds)
	summary := benchmath.AssumeNothing.Summary(sample, 0.95)

	return summary.Lo, summary.Hi
}
