package perf

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a series of frame costs.
type Summary struct {
	Frames int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// Summarize computes distribution statistics over costs.
func Summarize(costs []time.Duration) Summary {
	if len(costs) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(costs))
	for i, c := range costs {
		xs[i] = float64(c)
	}
	slices.Sort(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	q := func(p float64) time.Duration {
		return time.Duration(stat.Quantile(p, stat.Empirical, xs, nil))
	}
	return Summary{
		Frames: len(xs),
		Mean:   time.Duration(mean),
		StdDev: time.Duration(std),
		Min:    time.Duration(xs[0]),
		Max:    time.Duration(xs[len(xs)-1]),
		P50:    q(0.5),
		P95:    q(0.95),
		P99:    q(0.99),
	}
}

// FPS is the rate the mean cost could sustain.
func (s Summary) FPS() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Mean)
}

func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int64("mean_us", s.Mean.Microseconds()),
		slog.Int64("p95_us", s.P95.Microseconds()),
		slog.Int64("p99_us", s.P99.Microseconds()),
		slog.Int64("max_us", s.Max.Microseconds()),
	)
}
