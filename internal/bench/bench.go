// Package bench drives the show headlessly on a virtual terminal.
package bench

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/fireworks/internal/ascii"
	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/perf"
	"github.com/san-kum/fireworks/internal/show"
	"github.com/san-kum/fireworks/internal/surface"
)

type Options struct {
	Cols, Rows  int
	Frames      int
	FPS         int
	LaunchEvery int
}

func DefaultOptions() Options {
	return Options{Cols: 120, Rows: 40, Frames: 600, FPS: 60, LaunchEvery: 20}
}

// FrameRecord is one CSV row of a bench run.
type FrameRecord struct {
	Frame      int     `csv:"frame"`
	Elapsed    float64 `csv:"elapsed_s"`
	CostUS     int64   `csv:"cost_us"`
	Particles  int     `csv:"particles"`
	Budget     int     `csv:"budget"`
	Tier       string  `csv:"tier"`
	Sampled    bool    `csv:"sampled"`
	FullRedraw bool    `csv:"full_redraw"`
	DirtyRatio float64 `csv:"dirty_ratio"`
}

type Result struct {
	Records []FrameRecord
	Costs   []time.Duration
	Summary perf.Summary
	Screen  *ascii.CellBuffer
	Raster  *surface.Raster
	Peak    int
}

// Particles returns the per-frame live particle counts.
func (r *Result) Particles() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = float64(rec.Particles)
	}
	return out
}

// CostsMicros returns the per-frame costs in microseconds.
func (r *Result) CostsMicros() []float64 {
	out := make([]float64, len(r.Costs))
	for i, c := range r.Costs {
		out[i] = float64(c.Microseconds())
	}
	return out
}

// Run advances the show opts.Frames times with a fixed delta, launching a
// shell every opts.LaunchEvery frames.
func Run(cfg *config.Config, rng *rand.Rand, opts Options) (*Result, error) {
	if opts.Frames < 1 || opts.FPS < 1 {
		return nil, fmt.Errorf("frames and fps must be positive")
	}
	s, err := show.New(cfg, rng)
	if err != nil {
		return nil, err
	}
	if err := s.Resize(opts.Cols, opts.Rows); err != nil {
		return nil, err
	}

	log := slog.With("component", "bench")
	log.Info("bench starting", "cols", opts.Cols, "rows", opts.Rows, "frames", opts.Frames, "fps", opts.FPS)

	delta := 1 / float64(opts.FPS)
	elapsed := 0.0
	res := &Result{
		Records: make([]FrameRecord, 0, opts.Frames),
		Costs:   make([]time.Duration, 0, opts.Frames),
	}
	for i := 0; i < opts.Frames; i++ {
		if opts.LaunchEvery > 0 && i%opts.LaunchEvery == 0 {
			s.LaunchRandom()
		}
		elapsed += delta

		start := time.Now()
		r := s.Frame(delta, elapsed)
		cost := time.Since(start)

		res.Costs = append(res.Costs, cost)
		res.Peak = max(res.Peak, r.Particles)
		res.Records = append(res.Records, FrameRecord{
			Frame:      i,
			Elapsed:    elapsed,
			CostUS:     cost.Microseconds(),
			Particles:  r.Particles,
			Budget:     r.Budget,
			Tier:       r.Tier,
			Sampled:    r.Render.Sampled,
			FullRedraw: r.Render.FullRedraw,
			DirtyRatio: r.Render.DirtyRatio,
		})
	}

	res.Summary = perf.Summarize(res.Costs)
	res.Screen = s.Screen()
	res.Raster = s.Layer().Raster()
	log.Info("bench finished", "summary", res.Summary, "peak_particles", res.Peak)
	return res, nil
}

// WriteCSV writes the frame records with a header row.
func WriteCSV(w io.Writer, records []FrameRecord) error {
	return gocsv.Marshal(records, w)
}
