// Package perf estimates the frame rate and summarizes frame costs.
package perf

import "log/slog"

// Monitor keeps the most recent frame deltas in a ring and reports their
// average as a frame rate.
type Monitor struct {
	samples    []float64
	writeIndex int
	count      int
	sum        float64

	defaultFPS float64
	minAvg     float64
}

func NewMonitor(size int, defaultFPS, minAvgFrameTime float64) *Monitor {
	if size < 1 {
		size = 50
	}
	return &Monitor{
		samples:    make([]float64, size),
		defaultFPS: defaultFPS,
		minAvg:     minAvgFrameTime,
	}
}

// Sample records one frame delta in seconds.
func (m *Monitor) Sample(delta float64) {
	if m.count == len(m.samples) {
		m.sum -= m.samples[m.writeIndex]
	} else {
		m.count++
	}
	m.samples[m.writeIndex] = delta
	m.sum += delta
	m.writeIndex = (m.writeIndex + 1) % len(m.samples)
}

// FPS returns 1/avg over the window, or the default before any sample.
func (m *Monitor) FPS() float64 {
	if m.count == 0 {
		return m.defaultFPS
	}
	return 1 / max(m.sum/float64(m.count), m.minAvg)
}

func (m *Monitor) Count() int { return m.count }

func (m *Monitor) Reset() {
	m.writeIndex, m.count, m.sum = 0, 0, 0
}

func (m *Monitor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", m.FPS()),
		slog.Int("samples", m.count),
	)
}
