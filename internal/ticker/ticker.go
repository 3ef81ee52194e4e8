// Package ticker turns display ticks into clamped frame deltas.
package ticker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Clock produces (delta, elapsed) pairs in seconds. Delta is clamped so a
// slow or paused frame cannot inject a large integration step.
type Clock struct {
	maxDelta float64
	prev     time.Time
	elapsed  float64
	running  bool
}

func NewClock(maxDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta}
}

// Start resets the reference time; elapsed keeps accumulating.
func (c *Clock) Start(now time.Time) {
	c.prev = now
	c.running = true
}

func (c *Clock) Stop()            { c.running = false }
func (c *Clock) Running() bool    { return c.running }
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Tick advances the clock to now.
func (c *Clock) Tick(now time.Time) (delta, elapsed float64) {
	if c.prev.IsZero() {
		c.prev = now
	}
	delta = min(now.Sub(c.prev).Seconds(), c.maxDelta)
	if delta < 0 {
		delta = 0
	}
	c.prev = now
	c.elapsed += delta
	return delta, c.elapsed
}

// FrameMsg is delivered once per scheduled frame.
type FrameMsg struct {
	Time time.Time
	Seq  uint64
}

// Scheduler issues frame ticks at a target rate. Stopping bumps the
// sequence so ticks already in flight are ignored.
type Scheduler struct {
	interval time.Duration
	seq      uint64
	running  bool
}

func NewScheduler(fps int) *Scheduler {
	return &Scheduler{interval: time.Second / time.Duration(max(1, fps))}
}

func (s *Scheduler) Interval() time.Duration { return s.interval }
func (s *Scheduler) Running() bool           { return s.running }

func (s *Scheduler) Start() tea.Cmd {
	s.seq++
	s.running = true
	return s.next()
}

func (s *Scheduler) Stop() {
	s.seq++
	s.running = false
}

// Accept reports whether msg belongs to the current run and, if so, returns
// the command for the following frame.
func (s *Scheduler) Accept(msg FrameMsg) (bool, tea.Cmd) {
	if !s.running || msg.Seq != s.seq {
		return false, nil
	}
	return true, s.next()
}

func (s *Scheduler) next() tea.Cmd {
	seq := s.seq
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, Seq: seq}
	})
}
