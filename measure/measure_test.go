package measure

import (
	"testing"
	"time"
)

func TestTrimmedMean(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{
			name:    "uniform",
			samples: []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			want:    2,
		},
		{
			name:    "outliers ignored",
			samples: []float64{0, 0.001, 3, 3, 3, 3, 3, 3, 500, 9000},
			want:    3,
		},
		{
			name:    "outlier magnitude irrelevant",
			samples: []float64{0, 0, 1, 2, 3, 4, 5, 6, 1e12, 1e15},
			want:    3.5,
		},
		{
			name:    "minimum length",
			samples: []float64{1, 2, 7, 8, 9},
			want:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimmedMean(tt.samples)
			if got != tt.want {
				t.Errorf("TrimmedMean = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRunRejectsTooFewTrials(t *testing.T) {
	for _, trials := range []int{1, 2, 3, 4} {
		_, err := Run(Options{Trials: trials}, func(*Clock) int { return 0 })
		if err == nil {
			t.Errorf("Trials = %d: expected error", trials)
		}
	}
}

func TestRunCountsInvocations(t *testing.T) {
	calls := 0

	res, err := Run(
		Options{Trials: 5, MinTrialTime: 5 * time.Millisecond},
		func(*Clock) int {
			calls++

			time.Sleep(time.Millisecond)

			return 1
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if int64(calls) != res.Hits {
		t.Errorf("Hits = %d, calls = %d", res.Hits, calls)
	}

	if len(res.Samples) != 5 {
		t.Fatalf("got %d samples, want 5", len(res.Samples))
	}

	// Each sample is elapsed/runs for a workload sleeping ~1ms.
	for _, s := range res.Samples {
		if s < 500e-6 {
			t.Errorf("sample %g below plausible floor for 1ms workload", s)
		}
	}
}

func TestRunTrialMeetsFloor(t *testing.T) {
	const floor = 10 * time.Millisecond

	runs := 0

	res, err := Run(
		Options{Trials: 5, MinTrialTime: floor},
		func(*Clock) int {
			runs++

			time.Sleep(200 * time.Microsecond)

			return 0
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// elapsed >= floor and sample = elapsed/runs, so runs*sample >= floor
	// must hold for every trial; with a 200µs workload, runs is well
	// above 1 and each sample sits near the workload duration, far
	// below the floor.
	for _, s := range res.Samples {
		if s >= floor.Seconds() {
			t.Errorf("sample %g should be far below the %v floor", s, floor)
		}
	}

	if runs < 3*5 {
		t.Errorf("only %d total runs, trials did not repeat to the floor", runs)
	}
}

func TestRunSingleSlowInvocation(t *testing.T) {
	const floor = 2 * time.Millisecond

	runs := 0

	res, err := Run(
		Options{Trials: 5, MinTrialTime: floor},
		func(*Clock) int {
			runs++

			time.Sleep(3 * floor)

			return 0
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if runs != 5 {
		t.Errorf("runs = %d, want exactly one invocation per trial", runs)
	}

	for _, s := range res.Samples {
		if s < floor.Seconds() {
			t.Errorf("sample %g below floor for a single slow invocation", s)
		}
	}
}

func TestClockPauseExcludesInterval(t *testing.T) {
	const (
		floor  = 5 * time.Millisecond
		paused = 20 * time.Millisecond
	)

	res, err := Run(
		Options{Trials: 5, MinTrialTime: floor},
		func(c *Clock) int {
			c.Pause()
			time.Sleep(paused)
			c.Resume()

			time.Sleep(time.Millisecond)

			return 0
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// With the pause excluded, each sample reflects only the ~1ms
	// timed portion; an unexcluded 20ms sleep would dominate it.
	for _, s := range res.Samples {
		if s >= paused.Seconds() {
			t.Errorf("sample %g includes the paused interval", s)
		}
	}
}

func TestRunSamplesSorted(t *testing.T) {
	res, err := Run(
		Options{Trials: 6, MinTrialTime: time.Millisecond},
		func(*Clock) int {
			time.Sleep(100 * time.Microsecond)

			return 0
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i] < res.Samples[i-1] {
			t.Fatalf("samples not sorted: %v", res.Samples)
		}
	}
}
