// Package show wires the simulation, the scene layers, the ASCII layer and
// the quality controller into one frame pass.
package show

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/fireworks/internal/ascii"
	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/firework"
	"github.com/san-kum/fireworks/internal/perf"
	"github.com/san-kum/fireworks/internal/quality"
	"github.com/san-kum/fireworks/internal/starfield"
	"github.com/san-kum/fireworks/internal/surface"
)

// Report describes one completed frame.
type Report struct {
	Delta       float64
	FPS         float64
	Particles   int
	Budget      int
	Tier        string
	TierChanged bool
	Launches    int
	Render      ascii.FrameStats
}

type pointer struct {
	x, y float64
	down bool
}

type Show struct {
	cfg *config.Config
	rng *rand.Rand
	log *slog.Logger

	fireworks *firework.System
	stars     *starfield.Starfield
	layer     *ascii.Layer
	screen    *ascii.CellBuffer
	monitor   *perf.Monitor
	quality   *quality.Controller
	rapid     *RapidFire

	cols, rows    int
	width, height float64
	pointer       pointer
}

func New(cfg *config.Config, rng *rand.Rand) (*Show, error) {
	layer, err := ascii.NewLayer(cfg.ASCII, nil)
	if err != nil {
		return nil, fmt.Errorf("create ascii layer: %w", err)
	}
	q := cfg.Quality
	return &Show{
		cfg:       cfg,
		rng:       rng,
		log:       slog.With("component", "show"),
		fireworks: firework.New(cfg, rng),
		stars:     starfield.New(cfg.Starfield, q.DowngradeFPS, rng),
		layer:     layer,
		screen:    ascii.NewCellBuffer(1, 1),
		monitor:   perf.NewMonitor(q.SampleSize, q.DefaultFPS, q.MinAvgFrameTime),
		quality:   quality.NewController(q),
		rapid:     NewRapidFire(cfg.Input.RapidFireHz, cfg.Input.MaxBurstsPerFrame),
	}, nil
}

// Resize maps a terminal of cols × rows cells onto the world and resizes
// every layer.
func (s *Show) Resize(cols, rows int) error {
	s.cols, s.rows = max(1, cols), max(1, rows)
	s.width = float64(s.cols * s.cfg.ASCII.TermCellWidth)
	s.height = float64(s.rows * s.cfg.ASCII.TermCellHeight)
	return s.syncSize()
}

func (s *Show) syncSize() error {
	s.stars.Resize(s.width, s.height)
	if err := s.layer.Resize(s.width, s.height, s.quality.Current()); err != nil {
		return err
	}
	s.log.Debug("size synced", "cols", s.cols, "rows", s.rows, "width", s.width, "height", s.height)
	return nil
}

// Frame runs one pass: rapid fire, frame rate, quality, simulation, fade,
// scene draw, then sampling and composite onto the screen buffer.
func (s *Show) Frame(delta, elapsed float64) Report {
	launches := 0
	if n := s.rapid.Step(delta, s.pointer.down); n > 0 {
		for i := 0; i < n; i++ {
			s.fireworks.Launch(s.pointer.x, s.height, s.pointer.x, s.pointer.y)
		}
		launches = n
	}

	s.monitor.Sample(delta)
	fps := s.monitor.FPS()

	tier, changed := s.quality.Observe(fps)
	if changed {
		s.fireworks.SetBudget(tier.Budget)
		if err := s.syncSize(); err != nil {
			s.log.Error("resize after quality change", "err", err)
		}
	}

	s.fireworks.Update(delta)

	s.layer.Fade()
	s.layer.WithBuffer(func(c surface.Canvas) {
		s.stars.Render(c, elapsed, fps)
		s.fireworks.Render(c)
	})
	stats := s.layer.RenderTo(s.screen, s.width, s.height, fps)

	fs := s.fireworks.Stats()
	return Report{
		Delta:       delta,
		FPS:         fps,
		Particles:   fs.Active,
		Budget:      fs.Budget,
		Tier:        tier.Name,
		TierChanged: changed,
		Launches:    launches,
		Render:      stats,
	}
}

// LaunchAt fires a shell from the bottom edge below x toward (x, y).
func (s *Show) LaunchAt(x, y float64) {
	s.fireworks.Launch(x, s.height, x, y)
}

// LaunchRandom fires toward a random point in the upper two thirds.
func (s *Show) LaunchRandom() {
	x := s.rng.Float64() * s.width
	y := s.rng.Float64() * s.height * 2 / 3
	s.LaunchAt(x, y)
}

// CellToWorld returns the world position of the center of a terminal cell.
func (s *Show) CellToWorld(col, row int) (float64, float64) {
	tw, th := float64(s.cfg.ASCII.TermCellWidth), float64(s.cfg.ASCII.TermCellHeight)
	return (float64(col) + 0.5) * tw, (float64(row) + 0.5) * th
}

// PointerDown launches at the cell and starts holding the pointer.
func (s *Show) PointerDown(col, row int) {
	x, y := s.CellToWorld(col, row)
	s.log.Debug("pointer down", "x", x, "y", y)
	s.LaunchAt(x, y)
	s.pointer = pointer{x: x, y: y, down: true}
	s.rapid.Reset()
}

func (s *Show) PointerMove(col, row int) {
	s.pointer.x, s.pointer.y = s.CellToWorld(col, row)
}

func (s *Show) PointerUp() {
	s.pointer.down = false
	s.rapid.Reset()
}

func (s *Show) RapidFire() *RapidFire        { return s.rapid }
func (s *Show) Screen() *ascii.CellBuffer    { return s.screen }
func (s *Show) Fireworks() *firework.System  { return s.fireworks }
func (s *Show) Quality() *quality.Controller { return s.quality }
func (s *Show) Layer() *ascii.Layer          { return s.layer }
func (s *Show) Size() (cols, rows int)       { return s.cols, s.rows }
func (s *Show) SetLabelColor(c surface.RGB)  { s.layer.SetLabelColor(c) }

// Restart clears the frame-rate window so a pause does not skew quality.
func (s *Show) Restart() { s.monitor.Reset() }
