// Package particle holds the fixed-capacity, column-oriented particle memory.
//
// Only indices [0, Len()) are live. Removal copies the last live slot into the
// freed one, so slot order is not stable across removals.
package particle

// Store keeps one slice per particle field, all sized to the physical
// capacity once. The budget only caps how many slots may be live.
type Store struct {
	X, Y       []float64
	VX, VY     []float64
	Life       []float64
	TTL        []float64
	Brightness []float64
	Color      []uint8
	Color2     []uint8
	Kind       []Kind
	Shape      []Shape
	Flags      []Flags
	StrobeHz   []float64
	TrailTimer []float64

	active   int
	budget   int
	capacity int
}

func New(capacity int) *Store {
	capacity = max(1, capacity)
	return &Store{
		X:          make([]float64, capacity),
		Y:          make([]float64, capacity),
		VX:         make([]float64, capacity),
		VY:         make([]float64, capacity),
		Life:       make([]float64, capacity),
		TTL:        make([]float64, capacity),
		Brightness: make([]float64, capacity),
		Color:      make([]uint8, capacity),
		Color2:     make([]uint8, capacity),
		Kind:       make([]Kind, capacity),
		Shape:      make([]Shape, capacity),
		Flags:      make([]Flags, capacity),
		StrobeHz:   make([]float64, capacity),
		TrailTimer: make([]float64, capacity),
		budget:     capacity,
		capacity:   capacity,
	}
}

func (s *Store) Len() int       { return s.active }
func (s *Store) Budget() int    { return s.budget }
func (s *Store) Cap() int       { return s.capacity }
func (s *Store) Available() int { return s.budget - s.active }

// Allocate appends a zeroed slot and returns its index.
func (s *Store) Allocate() (int, error) {
	if s.active >= s.budget {
		return -1, ErrBudgetExhausted
	}
	i := s.active
	s.X[i], s.Y[i] = 0, 0
	s.VX[i], s.VY[i] = 0, 0
	s.Life[i], s.TTL[i] = 0, 0
	s.Brightness[i] = 0
	s.Color[i], s.Color2[i] = 0, 0
	s.Kind[i] = Normal
	s.Shape[i] = Peony
	s.Flags[i] = 0
	s.StrobeHz[i] = 0
	s.TrailTimer[i] = 0
	s.active++
	return i, nil
}

// Free removes slot i by moving the last live slot into it.
// A forward scan must revisit i after calling Free.
func (s *Store) Free(i int) {
	if i < 0 || i >= s.active {
		return
	}
	last := s.active - 1
	if i != last {
		s.X[i], s.Y[i] = s.X[last], s.Y[last]
		s.VX[i], s.VY[i] = s.VX[last], s.VY[last]
		s.Life[i], s.TTL[i] = s.Life[last], s.TTL[last]
		s.Brightness[i] = s.Brightness[last]
		s.Color[i], s.Color2[i] = s.Color[last], s.Color2[last]
		s.Kind[i] = s.Kind[last]
		s.Shape[i] = s.Shape[last]
		s.Flags[i] = s.Flags[last]
		s.StrobeHz[i] = s.StrobeHz[last]
		s.TrailTimer[i] = s.TrailTimer[last]
	}
	s.active = last
}

// SetBudget sets the live-slot ceiling to max(1, n), clamped to capacity.
// Shrinking below Len() drops whatever occupies the tail of the compacted
// array; this is order-dependent but deterministic.
func (s *Store) SetBudget(n int) {
	s.budget = min(max(1, n), s.capacity)
	if s.active > s.budget {
		s.active = s.budget
	}
}

func (s *Store) Reset() { s.active = 0 }

// Energy is the remaining-life fraction of slot i.
func (s *Store) Energy(i int) float64 {
	if s.TTL[i] <= 0 {
		return 0
	}
	return s.Life[i] / s.TTL[i]
}
