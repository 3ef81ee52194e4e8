package show

import "math"

const (
	MinRapidFireHz = 5
	MaxRapidFireHz = 60
)

// RapidFire turns a held pointer into launches at a fixed rate.
type RapidFire struct {
	enabled   bool
	hz        float64
	maxBursts int
	acc       float64
}

func NewRapidFire(hz float64, maxBursts int) *RapidFire {
	r := &RapidFire{maxBursts: max(1, maxBursts)}
	r.SetHz(hz)
	return r
}

func (r *RapidFire) Enabled() bool { return r.enabled }
func (r *RapidFire) Hz() float64   { return r.hz }

func (r *RapidFire) SetEnabled(on bool) {
	r.enabled = on
	r.acc = 0
}

// SetHz clamps hz into [MinRapidFireHz, MaxRapidFireHz].
func (r *RapidFire) SetHz(hz float64) {
	r.hz = math.Min(MaxRapidFireHz, math.Max(MinRapidFireHz, hz))
}

func (r *RapidFire) Reset() { r.acc = 0 }

// Step advances by delta seconds and returns how many launches are due.
// At most maxBursts fire per call; the leftover is clamped to one interval.
func (r *RapidFire) Step(delta float64, held bool) int {
	if !held || !r.enabled {
		r.acc = 0
		return 0
	}
	interval := 1 / r.hz
	r.acc += delta
	pending := math.Floor(r.acc / interval)
	bursts := min(r.maxBursts, int(pending))
	r.acc -= pending * interval
	r.acc = math.Max(0, math.Min(r.acc, interval))
	return bursts
}
