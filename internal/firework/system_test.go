package firework

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/surface"
)

func newTestSystem(seed int64) *System {
	return New(config.DefaultConfig(), rand.New(rand.NewSource(seed)))
}

func countKind(st *particle.Store, k particle.Kind) int {
	n := 0
	for i := 0; i < st.Len(); i++ {
		if st.Kind[i] == k {
			n++
		}
	}
	return n
}

func TestLaunchCreatesShell(t *testing.T) {
	s := newTestSystem(1)
	s.Launch(100, 500, 120, 100)

	st := s.Store()
	if st.Len() != 1 {
		t.Fatalf("expected 1 particle, got %d", st.Len())
	}
	if st.Kind[0] != particle.Shell {
		t.Errorf("expected shell, got %s", st.Kind[0])
	}
	if st.VY[0] >= 0 {
		t.Errorf("expected upward velocity, got %f", st.VY[0])
	}
	// h=400, g=50: vy0=-200, apex at 4s, ttl 4.8s
	if math.Abs(st.VY[0]+200) > 1e-9 {
		t.Errorf("expected vy0 -200, got %f", st.VY[0])
	}
	if math.Abs(st.TTL[0]-4.8) > 1e-9 || st.Life[0] != st.TTL[0] {
		t.Errorf("expected life=ttl=4.8, got life=%f ttl=%f", st.Life[0], st.TTL[0])
	}
}

func TestLaunchTargetNotAboveOrigin(t *testing.T) {
	tests := []struct {
		name   string
		sy, ty float64
	}{
		{"level", 300, 300},
		{"below", 300, 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(2)
			s.Launch(50, tt.sy, 80, tt.ty)

			st := s.Store()
			if n := countKind(st, particle.Shell); n != 0 {
				t.Errorf("expected no shell, got %d", n)
			}
			if n := countKind(st, particle.Flash); n != 1 {
				t.Errorf("expected 1 flash, got %d", n)
			}
			if n := countKind(st, particle.Normal); n < 120 || n >= 220 {
				t.Errorf("normal count %d outside [120, 220)", n)
			}
			for i := 0; i < st.Len(); i++ {
				if st.X[i] != 80 || st.Y[i] != tt.ty {
					t.Fatalf("particle %d at (%f, %f), expected target", i, st.X[i], st.Y[i])
				}
			}
		})
	}
}

func TestShellExplodesAtApex(t *testing.T) {
	s := newTestSystem(3)
	s.Launch(200, 500, 200, 100)
	st := s.Store()

	for frame := 1; frame <= 400; frame++ {
		s.Update(1.0 / 60)
		if countKind(st, particle.Shell) == 0 {
			if n := countKind(st, particle.Flash); n != 1 {
				t.Fatalf("frame %d: expected flash after burst, got %d", frame, n)
			}
			if countKind(st, particle.Normal) == 0 {
				t.Fatalf("frame %d: expected burst particles", frame)
			}
			if frame < 235 || frame > 245 {
				t.Errorf("apex reached at frame %d, expected ~240", frame)
			}
			return
		}
	}
	t.Fatal("shell never exploded")
}

func TestShellEmitsTrail(t *testing.T) {
	s := newTestSystem(4)
	s.Launch(200, 500, 200, 100)
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}
	if n := countKind(s.Store(), particle.Trail); n == 0 {
		t.Error("expected trail particles behind the shell")
	}
}

func TestExplodeDeterministic(t *testing.T) {
	a := newTestSystem(42)
	b := newTestSystem(42)
	a.Explode(100, 100)
	b.Explode(100, 100)

	if a.Store().Len() != b.Store().Len() {
		t.Fatalf("same seed gave %d and %d particles", a.Store().Len(), b.Store().Len())
	}
	for i := 0; i < a.Store().Len(); i++ {
		if a.Store().VX[i] != b.Store().VX[i] || a.Store().Shape[i] != b.Store().Shape[i] {
			t.Fatalf("particle %d differs between runs", i)
		}
	}
}

func TestExplodeClampedToBudget(t *testing.T) {
	s := newTestSystem(5)
	s.SetBudget(10)
	s.Explode(100, 100)

	if s.Store().Len() != 10 {
		t.Errorf("expected 10 particles, got %d", s.Store().Len())
	}
	if s.Stats().Dropped == 0 {
		t.Error("expected dropped spawns to be counted")
	}

	s.Explode(100, 100)
	if s.Store().Len() != 10 {
		t.Errorf("explode at full budget changed count to %d", s.Store().Len())
	}
}

func TestNormalParticlesAreWhiteHot(t *testing.T) {
	s := newTestSystem(6)
	s.Explode(0, 0)
	st := s.Store()
	strobes := 0
	for i := 0; i < st.Len(); i++ {
		if st.Kind[i] != particle.Normal {
			continue
		}
		if !st.Flags[i].Has(particle.WhiteHot) {
			t.Fatalf("particle %d missing WhiteHot", i)
		}
		if st.Flags[i].Has(particle.Strobe) {
			strobes++
			if st.StrobeHz[i] < 8 || st.StrobeHz[i] >= 20 {
				t.Errorf("strobe hz %f outside [8, 20)", st.StrobeHz[i])
			}
		}
		if st.Color[i] == WhiteIndex {
			t.Errorf("particle %d uses white as primary", i)
		}
	}
	if strobes == 0 {
		t.Error("expected some strobing particles")
	}
}

func TestCrossetteSplit(t *testing.T) {
	s := newTestSystem(7)
	st := s.Store()
	idx, err := st.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	st.Kind[idx] = particle.Normal
	st.Shape[idx] = particle.Crossette
	st.Life[idx], st.TTL[idx] = 0.46, 1
	st.VX[idx] = 100
	st.Brightness[idx] = 1
	st.Color[idx], st.Color2[idx] = 1, 2
	st.Flags[idx] = particle.WhiteHot

	s.Update(0.02)

	if st.Len() != 4 {
		t.Fatalf("expected 4 children, got %d", st.Len())
	}

	drag := math.Pow(config.DefaultDrag, 0.02*60)
	parentSpeed := math.Hypot(100*drag, config.DefaultGravity*0.02)
	for i := 0; i < 4; i++ {
		if st.Shape[i] != particle.Peony {
			t.Errorf("child %d shape %s, expected peony", i, st.Shape[i])
		}
		if st.Flags[i].Has(particle.Split) {
			t.Errorf("child %d carries the split flag", i)
		}
		speed := math.Hypot(st.VX[i], st.VY[i])
		if math.Abs(speed-0.6*parentSpeed) > 1e-9 {
			t.Errorf("child %d speed %f, expected %f", i, speed, 0.6*parentSpeed)
		}
		if math.Abs(st.Life[i]-0.44*0.8) > 1e-9 {
			t.Errorf("child %d life %f, expected %f", i, st.Life[i], 0.44*0.8)
		}
		if math.Abs(st.Brightness[i]-0.8) > 1e-9 {
			t.Errorf("child %d brightness %f, expected 0.8", i, st.Brightness[i])
		}
	}
}

// explodeShape searches seeds until Explode produces the wanted shape.
func explodeShape(t *testing.T, want particle.Shape) *System {
	t.Helper()
	for seed := int64(1); seed < 500; seed++ {
		s := newTestSystem(seed)
		s.Explode(400, 300)
		if s.Store().Shape[1] == want {
			return s
		}
	}
	t.Fatalf("no seed produced a %s burst", want)
	return nil
}

func TestExplodeShapeRules(t *testing.T) {
	cfg := config.DefaultConfig().Fireworks
	minSpeed := math.Min(cfg.NormalSpeedBase, cfg.BurstSpeedBase)
	maxSpeed := math.Max(cfg.NormalSpeedBase+cfg.NormalSpeedVariance, cfg.BurstSpeedBase+cfg.BurstSpeedVariance)
	minTTL := math.Min(cfg.NormalTTLMin, cfg.BurstTTLMin)
	maxTTL := math.Max(cfg.NormalTTLMin+cfg.NormalTTLVariance, cfg.BurstTTLMin+cfg.BurstTTLVariance)

	tests := []struct {
		shape       particle.Shape
		speedFactor float64
		ttlFactor   float64
		gold        bool
	}{
		{particle.Peony, 1, 1, false},
		{particle.Ring, 1, 1, false},
		{particle.Crossette, 1, 1, false},
		{particle.Willow, cfg.WillowSpeedFactor, cfg.WillowTTLFactor, true},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			s := explodeShape(t, tt.shape)
			st := s.Store()
			for i := 1; i < st.Len(); i++ {
				speed := math.Hypot(st.VX[i], st.VY[i])
				if speed < minSpeed*tt.speedFactor-1e-9 || speed >= maxSpeed*tt.speedFactor {
					t.Fatalf("particle %d speed %f outside [%f, %f)", i, speed, minSpeed*tt.speedFactor, maxSpeed*tt.speedFactor)
				}
				if st.TTL[i] < minTTL*tt.ttlFactor-1e-9 || st.TTL[i] >= maxTTL*tt.ttlFactor {
					t.Fatalf("particle %d ttl %f outside [%f, %f)", i, st.TTL[i], minTTL*tt.ttlFactor, maxTTL*tt.ttlFactor)
				}
				isGold := st.Color[i] == GoldIndex && st.Color2[i] == GoldIndex
				if tt.gold && !isGold {
					t.Fatalf("particle %d colors (%d, %d), expected gold", i, st.Color[i], st.Color2[i])
				}
			}
		})
	}
}

func TestExplodeAngleJitter(t *testing.T) {
	cfg := config.DefaultConfig().Fireworks

	offsets := func(s *System) []float64 {
		st := s.Store()
		n := st.Len() - 1
		out := make([]float64, n)
		for j := 0; j < n; j++ {
			i := j + 1
			a := math.Atan2(st.VY[i], st.VX[i])
			e := 2 * math.Pi * float64(j) / float64(n)
			out[j] = math.Atan2(math.Sin(a-e), math.Cos(a-e))
		}
		return out
	}

	t.Run("ring uses a fixed jitter", func(t *testing.T) {
		for j, off := range offsets(explodeShape(t, particle.Ring)) {
			if math.Abs(off-cfg.RingAngleJitter) > 1e-9 {
				t.Fatalf("star %d offset %f, want %f", j, off, cfg.RingAngleJitter)
			}
		}
	})

	t.Run("peony jitters each star", func(t *testing.T) {
		offs := offsets(explodeShape(t, particle.Peony))
		distinct := false
		for j, off := range offs {
			if off < -1e-9 || off >= cfg.AngleJitter {
				t.Fatalf("star %d offset %f outside [0, %f)", j, off, cfg.AngleJitter)
			}
			if math.Abs(off-offs[0]) > 1e-6 {
				distinct = true
			}
		}
		if !distinct {
			t.Error("all peony stars share the same offset")
		}
	})
}

func TestUpdateShapePhysics(t *testing.T) {
	c := config.DefaultConfig()
	dt := 1.0 / 60
	g := c.Physics.Gravity
	drag := c.Physics.Drag

	tests := []struct {
		shape  particle.Shape
		wantVX float64
		wantVY float64
	}{
		{particle.Peony, 100 * drag, g * dt},
		{particle.Ring, 100 * drag, g * dt},
		{particle.Crossette, 100 * drag, g * dt},
		{particle.Willow, 100 * math.Pow(drag, c.Fireworks.WillowDragFactor), g * c.Fireworks.WillowGravityFactor * dt},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			s := newTestSystem(3)
			st := s.Store()
			idx, err := st.Allocate()
			if err != nil {
				t.Fatal(err)
			}
			st.Kind[idx] = particle.Normal
			st.Shape[idx] = tt.shape
			st.Life[idx], st.TTL[idx] = 2, 2
			st.VX[idx] = 100
			st.Brightness[idx] = 1

			s.Update(dt)

			if st.Len() != 1 {
				t.Fatalf("expected 1 particle, got %d", st.Len())
			}
			if math.Abs(st.VX[0]-tt.wantVX) > 1e-9 || math.Abs(st.VY[0]-tt.wantVY) > 1e-9 {
				t.Errorf("v = (%f, %f), want (%f, %f)", st.VX[0], st.VY[0], tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestUpdateRemovesExpired(t *testing.T) {
	s := newTestSystem(8)
	s.Explode(100, 100)
	s.Explode(300, 200)
	if s.Store().Len() == 0 {
		t.Fatal("expected particles")
	}
	s.Update(10)
	if s.Store().Len() != 0 {
		t.Errorf("expected all particles expired, %d left", s.Store().Len())
	}
}

func TestUpdateIgnoresNonPositiveDelta(t *testing.T) {
	s := newTestSystem(9)
	s.Explode(100, 100)
	before := s.Store().Life[0]
	s.Update(0)
	s.Update(-1)
	if s.Store().Life[0] != before {
		t.Errorf("life changed from %f to %f", before, s.Store().Life[0])
	}
}

type rect struct {
	x, y, w, h float64
	c          surface.RGB
	alpha      float64
}

type recordingCanvas struct{ rects []rect }

func (r *recordingCanvas) FillRect(x, y, w, h float64, c surface.RGB, alpha float64) {
	r.rects = append(r.rects, rect{x, y, w, h, c, alpha})
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		setup func(st *particle.Store, i int)
		want  int
		check func(t *testing.T, r rect)
	}{
		{
			name: "flash at full energy",
			setup: func(st *particle.Store, i int) {
				st.Kind[i] = particle.Flash
				st.X[i], st.Y[i] = 100, 100
				st.Life[i], st.TTL[i] = 0.12, 0.12
				st.Brightness[i] = 1
				st.Color[i] = WhiteIndex
			},
			want: 1,
			check: func(t *testing.T, r rect) {
				if r.w != 48 || r.x != 76 || r.alpha != 1 {
					t.Errorf("unexpected flash rect %+v", r)
				}
			},
		},
		{
			name: "zero alpha bucket skipped",
			setup: func(st *particle.Store, i int) {
				st.Kind[i] = particle.Normal
				st.Life[i], st.TTL[i] = 0.01, 1
				st.Brightness[i] = 1
			},
			want: 0,
		},
		{
			name: "strobe dark phase hidden",
			setup: func(st *particle.Store, i int) {
				st.Kind[i] = particle.Normal
				st.Life[i], st.TTL[i] = 0.25, 1
				st.Brightness[i] = 1
				st.Flags[i] = particle.Strobe
				st.StrobeHz[i] = 1
			},
			want: 0,
		},
		{
			name: "expired star skipped",
			setup: func(st *particle.Store, i int) {
				st.Kind[i] = particle.Normal
				st.Life[i], st.TTL[i] = 0, 1
				st.Brightness[i] = 1
				st.Flags[i] = particle.WhiteHot
				st.Color[i], st.Color2[i] = 0, 0
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(10)
			idx, _ := s.Store().Allocate()
			tt.setup(s.Store(), idx)

			canvas := &recordingCanvas{}
			s.Render(canvas)
			if len(canvas.rects) != tt.want {
				t.Fatalf("expected %d rects, got %d", tt.want, len(canvas.rects))
			}
			if tt.check != nil {
				tt.check(t, canvas.rects[0])
			}
		})
	}
}

func TestStarColor(t *testing.T) {
	s := newTestSystem(11)
	st := s.Store()
	idx, _ := st.Allocate()
	st.Kind[idx] = particle.Normal
	st.TTL[idx] = 1
	st.Color[idx], st.Color2[idx] = 0, 0
	st.Flags[idx] = particle.WhiteHot

	if got := s.starColor(idx, 1); got != Palette[0] {
		t.Errorf("full energy color %v, expected %v", got, Palette[0])
	}

	// 70% toward white from cyan
	got := s.starColor(idx, 0)
	if got.R < 178 || got.R > 179 || got.G != 255 || got.B != 255 {
		t.Errorf("white hot color %v", got)
	}

	st.Color2[idx] = 1
	st.Flags[idx] = 0
	if got := s.starColor(idx, 0); got != Palette[1] {
		t.Errorf("zero energy bi-color %v, expected secondary %v", got, Palette[1])
	}
}

func TestPickColorSkipsWhite(t *testing.T) {
	s := newTestSystem(12)
	for i := 0; i < 500; i++ {
		if c := s.pickColor(); c == WhiteIndex || int(c) >= len(Palette) {
			t.Fatalf("pickColor returned %d", c)
		}
	}
}

func BenchmarkUpdate(b *testing.B) {
	s := newTestSystem(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s.Store().Len() < 2000 {
			s.Explode(float64(i%800), 200)
		}
		s.Update(1.0 / 60)
	}
}
