package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the HUD styles derived from a Theme.
type Styles struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Warn    lipgloss.Style
	Help    lipgloss.Style

	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(t.Warning),
		Help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Foreground(t.Text).
			Padding(0, 2),
		SparkHigh: lipgloss.NewStyle().Foreground(t.Success),
		SparkMid:  lipgloss.NewStyle().Foreground(t.Accent),
		SparkLow:  lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// ProgressBar renders a fill bar for percent in [0, 1].
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := min(width, max(0, int(percent*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	// a full particle budget is the warning state
	if percent > 0.8 {
		return s.SparkLow.Render(bar)
	} else if percent > 0.4 {
		return s.SparkMid.Render(bar)
	}
	return s.SparkHigh.Render(bar)
}

// Sparkline renders the last width values scaled between lo and hi.
func (s Styles) Sparkline(values []float64, width int, lo, hi float64) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := min(1, max(0, (v-lo)/span))
		c := string(chars[int(norm*float64(len(chars)-1))])
		if norm > 0.7 {
			result.WriteString(s.SparkHigh.Render(c))
		} else if norm > 0.3 {
			result.WriteString(s.SparkMid.Render(c))
		} else {
			result.WriteString(s.SparkLow.Render(c))
		}
	}
	return result.String()
}
