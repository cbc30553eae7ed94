// Package measure runs a workload repeatedly and returns a noise-resistant
// estimate of its duration. Each trial repeats the workload until a minimum
// wall-clock floor is reached, so a sample is never dominated by timer
// granularity, and the per-trial samples are combined with a trimmed mean
// to suppress scheduler spikes and cold-start bias.
package measure

import (
	"fmt"
	"sort"
	"time"
)

const (
	// DefaultTrials is the number of timing samples collected per run.
	DefaultTrials = 10
	// DefaultMinTrialTime is the wall-clock floor per trial.
	DefaultMinTrialTime = 200 * time.Millisecond

	// trim is the number of samples dropped from each end before
	// averaging.
	trim = 2
)

// Clock is the timing context handed to a workload. The workload may
// bracket a setup phase with Pause/Resume to exclude it from the trial:
// Resume pushes the trial's start forward by the paused interval.
// Pause and Resume must be called in matched pairs within a single
// workload invocation; nesting is not supported.
type Clock struct {
	start    time.Time
	pausedAt time.Time
}

// Pause marks the beginning of an excluded interval.
func (c *Clock) Pause() {
	c.pausedAt = time.Now()
}

// Resume ends the excluded interval started by the last Pause.
func (c *Clock) Resume() {
	c.start = c.start.Add(time.Since(c.pausedAt))
}

// Options controls a measurement run. Zero fields take the defaults.
type Options struct {
	Trials       int
	MinTrialTime time.Duration
}

func (o Options) withDefaults() Options {
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}

	if o.MinTrialTime == 0 {
		o.MinTrialTime = DefaultMinTrialTime
	}

	return o
}

// Result holds the outcome of one measurement run.
type Result struct {
	// SecondsPerRun is the trimmed mean of the per-trial samples.
	SecondsPerRun float64
	// Samples are the per-trial seconds-per-run values, sorted ascending.
	Samples []float64
	// Hits accumulates the workload's return values across every
	// invocation, so the measured work is observably used.
	Hits int64
}

// Run measures workload and returns a robust seconds-per-invocation
// estimate. Per trial, the workload is invoked repeatedly until the
// elapsed time since the trial start reaches the floor; a single
// invocation that alone exceeds the floor yields a one-run trial. The
// workload receives the trial Clock so it can exclude setup intervals.
func Run(opts Options, workload func(*Clock) int) (Result, error) {
	opts = opts.withDefaults()

	if opts.Trials < 2*trim+1 {
		return Result{}, fmt.Errorf(
			"trials = %d, need at least %d to survive trimming",
			opts.Trials, 2*trim+1,
		)
	}

	if opts.MinTrialTime < 0 {
		return Result{}, fmt.Errorf("negative min trial time %v", opts.MinTrialTime)
	}

	var (
		clock Clock
		res   Result
	)

	res.Samples = make([]float64, opts.Trials)

	for i := range res.Samples {
		runs := 0
		clock.start = time.Now()

		var now time.Time

		for {
			res.Hits += int64(workload(&clock))
			runs++

			now = time.Now()
			if now.Sub(clock.start) >= opts.MinTrialTime {
				break
			}
		}

		res.Samples[i] = now.Sub(clock.start).Seconds() / float64(runs)
	}

	sort.Float64s(res.Samples)
	res.SecondsPerRun = TrimmedMean(res.Samples)

	return res, nil
}

// TrimmedMean averages samples after dropping the two lowest and two
// highest values. samples must be sorted ascending and hold at least
// five values.
func TrimmedMean(samples []float64) float64 {
	kept := samples[trim : len(samples)-trim]

	sum := 0.0
	for _, s := range kept {
		sum += s
	}

	return sum / float64(len(kept))
}
