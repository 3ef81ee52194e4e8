// Package firework simulates launches, explosions and shape-specific particle
// physics on top of a particle.Store.
package firework

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/particle"
)

type point struct{ x, y float64 }

// spawn is a particle queued during an update pass. Spawns are committed
// after the pass so fresh particles are not integrated in their birth frame.
type spawn struct {
	kind          particle.Kind
	x, y          float64
	vx, vy        float64
	life          float64
	brightness    float64
	strobeHz      float64
	color, color2 uint8
	flags         particle.Flags
}

type Stats struct {
	Active  int
	Budget  int
	Dropped int
}

type System struct {
	cfg     config.FireworksConfig
	gravity float64
	drag    float64
	store   *particle.Store
	rng     *rand.Rand
	log     *slog.Logger

	pending []spawn
	bursts  []point
	dropped int
}

// New allocates the store at the configuration's full capacity and starts at
// the high-tier budget.
func New(cfg *config.Config, rng *rand.Rand) *System {
	store := particle.New(cfg.Capacity())
	store.SetBudget(cfg.Quality.High.Budget)
	return &System{
		cfg:     cfg.Fireworks,
		gravity: cfg.Physics.Gravity,
		drag:    cfg.Physics.Drag,
		store:   store,
		rng:     rng,
		log:     slog.With("component", "firework"),
		pending: make([]spawn, 0, 64),
		bursts:  make([]point, 0, 8),
	}
}

func (s *System) Store() *particle.Store { return s.store }

func (s *System) Stats() Stats {
	return Stats{Active: s.store.Len(), Budget: s.store.Budget(), Dropped: s.dropped}
}

func (s *System) SetBudget(n int) {
	before := s.store.Len()
	s.store.SetBudget(n)
	s.log.Debug("particle budget changed", "budget", s.store.Budget(), "truncated", before-s.store.Len())
}

// Launch fires a shell from (startX, startY) that peaks at (targetX, targetY).
// A target at or above the origin line explodes immediately at the target.
func (s *System) Launch(startX, startY, targetX, targetY float64) {
	h := startY - targetY
	if h <= 0 {
		s.log.Debug("launch target not above origin, exploding in place", "x", targetX, "y", targetY)
		s.Explode(targetX, targetY)
		return
	}

	idx, err := s.store.Allocate()
	if err != nil {
		s.dropped++
		return
	}

	vy0 := -math.Sqrt(2 * s.gravity * h)
	apex := -vy0 / s.gravity
	vx := (targetX-startX)/apex + (s.rng.Float64()*2-1)*s.cfg.ShellDrift
	ttl := s.cfg.ShellTTLSlack * apex

	st := s.store
	st.Kind[idx] = particle.Shell
	st.X[idx], st.Y[idx] = startX, startY
	st.VX[idx], st.VY[idx] = vx, vy0
	st.Life[idx], st.TTL[idx] = ttl, ttl
	st.Brightness[idx] = 1
	st.Color[idx], st.Color2[idx] = WhiteIndex, WhiteIndex
}

// Explode spawns a core flash plus a shaped burst of Normal particles at
// (x, y), clamped to the free budget.
func (s *System) Explode(x, y float64) {
	if s.store.Available() <= 0 {
		s.dropped++
		return
	}

	cfg := &s.cfg
	count := cfg.CountBase + s.rng.Intn(cfg.CountVariance)
	primary := s.pickColor()
	secondary := primary
	if s.rng.Float64() < 0.5 {
		secondary = s.pickColor()
	}
	shape := particle.Shape(s.rng.Intn(particle.NumShapes))
	burst := s.rng.Float64() > cfg.BurstThreshold

	speedBase, speedVar := cfg.NormalSpeedBase, cfg.NormalSpeedVariance
	ttlMin, ttlVar := cfg.NormalTTLMin, cfg.NormalTTLVariance
	if burst {
		speedBase, speedVar = cfg.BurstSpeedBase, cfg.BurstSpeedVariance
		ttlMin, ttlVar = cfg.BurstTTLMin, cfg.BurstTTLVariance
	}

	s.spawnFlash(x, y)

	spawnCount := min(count, s.store.Available())
	if spawnCount < count {
		s.dropped += count - spawnCount
	}

	st := s.store
	for i := 0; i < spawnCount; i++ {
		jitter := cfg.RingAngleJitter
		if shape != particle.Ring {
			jitter = s.rng.Float64() * cfg.AngleJitter
		}
		angle := 2*math.Pi*float64(i)/float64(spawnCount) + jitter
		speed := speedBase + s.rng.Float64()*speedVar
		ttl := ttlMin + s.rng.Float64()*ttlVar
		c1, c2 := primary, secondary
		if shape == particle.Willow {
			ttl *= cfg.WillowTTLFactor
			speed *= cfg.WillowSpeedFactor
			c1, c2 = GoldIndex, GoldIndex
		}
		brightness := cfg.BrightnessBase + s.rng.Float64()*cfg.BrightnessVariance
		flags := particle.WhiteHot
		strobeHz := 0.0
		if s.rng.Float64() < cfg.StrobeChance {
			flags |= particle.Strobe
			strobeHz = cfg.StrobeHzMin + s.rng.Float64()*cfg.StrobeHzVariance
		}

		idx, err := st.Allocate()
		if err != nil {
			break
		}
		st.Kind[idx] = particle.Normal
		st.Shape[idx] = shape
		st.X[idx], st.Y[idx] = x, y
		st.VX[idx] = math.Cos(angle) * speed
		st.VY[idx] = math.Sin(angle) * speed
		st.Life[idx], st.TTL[idx] = ttl, ttl
		st.Brightness[idx] = brightness
		st.Color[idx], st.Color2[idx] = c1, c2
		st.Flags[idx] = flags
		st.StrobeHz[idx] = strobeHz
	}

	s.log.Debug("explode",
		"x", math.Round(x), "y", math.Round(y),
		"shape", shape.String(), "burst", burst,
		"count", spawnCount, "primary", primary, "secondary", secondary)
}

func (s *System) spawnFlash(x, y float64) {
	idx, err := s.store.Allocate()
	if err != nil {
		s.dropped++
		return
	}
	st := s.store
	st.Kind[idx] = particle.Flash
	st.X[idx], st.Y[idx] = x, y
	st.Life[idx], st.TTL[idx] = s.cfg.FlashTTL, s.cfg.FlashTTL
	st.Brightness[idx] = 1
	st.Color[idx], st.Color2[idx] = WhiteIndex, WhiteIndex
}

// pickColor draws a palette index other than white.
func (s *System) pickColor() uint8 {
	idx := uint8(s.rng.Intn(len(Palette) - 1))
	if idx >= WhiteIndex {
		idx++
	}
	return idx
}

// Update advances every live particle by dt seconds.
func (s *System) Update(dt float64) {
	if dt <= 0 {
		return
	}
	st := s.store
	frames := dt * 60
	dragBase := math.Pow(s.drag, frames)
	dragWillow := math.Pow(s.drag, frames*s.cfg.WillowDragFactor)

	i := 0
	for i < st.Len() {
		st.Life[i] -= dt
		if st.Life[i] <= 0 {
			st.Free(i)
			continue
		}

		removed := false
		switch st.Kind[i] {
		case particle.Shell:
			removed = s.updateShell(i, dt)
		case particle.Normal:
			removed = s.updateNormal(i, dt, dragBase, dragWillow)
		}
		if removed {
			st.Free(i)
			continue
		}
		i++
	}

	s.flush()
}

// updateShell integrates a shell and reports whether it reached its apex.
func (s *System) updateShell(i int, dt float64) bool {
	st := s.store
	st.VY[i] += s.gravity * dt
	st.X[i] += st.VX[i] * dt
	st.Y[i] += st.VY[i] * dt

	st.TrailTimer[i] += dt
	if st.TrailTimer[i] > s.cfg.TrailInterval {
		st.TrailTimer[i] = 0
		s.pending = append(s.pending, spawn{
			kind:       particle.Trail,
			x:          st.X[i],
			y:          st.Y[i],
			life:       s.cfg.TrailTTL,
			brightness: 0.6,
			color:      st.Color[i],
			color2:     st.Color[i],
		})
	}

	if st.VY[i] >= 0 {
		s.bursts = append(s.bursts, point{st.X[i], st.Y[i]})
		return true
	}
	return false
}

// updateNormal integrates a star particle and reports whether it split.
func (s *System) updateNormal(i int, dt, dragBase, dragWillow float64) bool {
	st := s.store
	gravity, drag := s.gravity, dragBase
	if st.Shape[i] == particle.Willow {
		gravity *= s.cfg.WillowGravityFactor
		drag = dragWillow
	}
	st.VX[i] *= drag
	st.VY[i] *= drag
	st.VY[i] += gravity * dt
	st.X[i] += st.VX[i] * dt
	st.Y[i] += st.VY[i] * dt

	if st.Shape[i] == particle.Crossette && !st.Flags[i].Has(particle.Split) &&
		st.Energy(i) <= s.cfg.SplitThreshold {
		st.Flags[i] |= particle.Split
		s.split(i)
		return true
	}
	return false
}

// split queues four Peony children at right angles to the parent's heading.
func (s *System) split(i int) {
	st := s.store
	speed := math.Hypot(st.VX[i], st.VY[i]) * s.cfg.SplitSpeedFactor
	heading := math.Atan2(st.VY[i], st.VX[i])
	life := st.Life[i] * s.cfg.SplitLifeFactor
	brightness := st.Brightness[i] * s.cfg.SplitLifeFactor

	for k := 0; k < 4; k++ {
		a := heading + float64(k)*math.Pi/2
		s.pending = append(s.pending, spawn{
			kind:       particle.Normal,
			x:          st.X[i],
			y:          st.Y[i],
			vx:         math.Cos(a) * speed,
			vy:         math.Sin(a) * speed,
			life:       life,
			brightness: brightness,
			strobeHz:   st.StrobeHz[i],
			color:      st.Color[i],
			color2:     st.Color2[i],
			flags:      st.Flags[i] &^ particle.Split,
		})
	}
}

func (s *System) flush() {
	st := s.store
	for _, p := range s.pending {
		idx, err := st.Allocate()
		if err != nil {
			s.dropped++
			continue
		}
		st.Kind[idx] = p.kind
		st.Shape[idx] = particle.Peony
		st.X[idx], st.Y[idx] = p.x, p.y
		st.VX[idx], st.VY[idx] = p.vx, p.vy
		st.Life[idx], st.TTL[idx] = p.life, p.life
		st.Brightness[idx] = p.brightness
		st.Color[idx], st.Color2[idx] = p.color, p.color2
		st.Flags[idx] = p.flags
		st.StrobeHz[idx] = p.strobeHz
	}
	s.pending = s.pending[:0]

	for _, b := range s.bursts {
		s.Explode(b.x, b.y)
	}
	s.bursts = s.bursts[:0]
}
