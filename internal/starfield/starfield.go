// Package starfield draws the twinkling background behind the fireworks.
package starfield

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/surface"
)

const alphaBuckets = 16

var starColor = surface.RGB{R: 214, G: 235, B: 255}

type star struct {
	x, y   float64
	phase  float64
	speed  float64
	base   float64
	bucket int
}

// Starfield recomputes twinkle alphas every frame at full speed and every
// UpdateIntervalLow frames when the frame rate is below downgradeFPS. Stars
// are drawn every frame with their last computed alpha.
type Starfield struct {
	cfg          config.StarfieldConfig
	downgradeFPS float64
	rng          *rand.Rand
	log          *slog.Logger

	stars         []star
	width, height float64
	updateTick    int
}

func New(cfg config.StarfieldConfig, downgradeFPS float64, rng *rand.Rand) *Starfield {
	return &Starfield{
		cfg:          cfg,
		downgradeFPS: downgradeFPS,
		rng:          rng,
		log:          slog.With("component", "starfield"),
	}
}

// Resize reseeds the stars for a width × height world.
func (s *Starfield) Resize(width, height float64) {
	s.width, s.height = width, height
	s.updateTick = 0

	count := max(s.cfg.MinStars, int(math.Floor(width*height*s.cfg.Density)))
	if cap(s.stars) < count {
		s.stars = make([]star, count)
	}
	s.stars = s.stars[:count]
	for i := range s.stars {
		s.stars[i] = star{
			x:     s.rng.Float64() * width,
			y:     s.rng.Float64() * height,
			phase: s.rng.Float64() * 2 * math.Pi,
			speed: s.cfg.TwinkleSpeedBase + s.rng.Float64()*s.cfg.TwinkleSpeedVar,
			base:  s.cfg.BrightnessBase + s.rng.Float64()*s.cfg.BrightnessVar,
		}
	}
	s.log.Debug("starfield seeded", "stars", count, "width", width, "height", height)
}

func (s *Starfield) Count() int { return len(s.stars) }

// Render draws the stars. fps selects the twinkle update cadence.
func (s *Starfield) Render(c surface.Canvas, elapsed, fps float64) {
	interval := 1
	if fps < s.downgradeFPS {
		interval = max(1, s.cfg.UpdateIntervalLow)
	}
	if s.updateTick <= 0 {
		s.twinkle(elapsed)
		s.updateTick = interval - 1
	} else {
		s.updateTick--
	}

	size := s.cfg.StarSize
	for i := range s.stars {
		st := &s.stars[i]
		if st.bucket == 0 {
			continue
		}
		c.FillRect(st.x, st.y, size, size, starColor, float64(st.bucket)/alphaBuckets)
	}
}

func (s *Starfield) twinkle(elapsed float64) {
	for i := range s.stars {
		st := &s.stars[i]
		a := st.base + math.Sin(elapsed*st.speed+st.phase)*s.cfg.TwinkleAmplitude + s.cfg.TwinkleOffset
		a = math.Min(1, math.Max(0, a))
		st.bucket = min(alphaBuckets, int(math.Round(a*alphaBuckets)))
	}
}
