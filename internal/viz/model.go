package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/show"
	"github.com/san-kum/fireworks/internal/ticker"
)

const (
	hudHeight       = 1
	fpsHistoryLimit = 120
	rapidFireStep   = 5
)

// resizeMsg fires when a throttled window resize is due.
type resizeMsg struct{}

// Model binds terminal input to the show and drives its frames.
type Model struct {
	cfg       *config.Config
	show      *show.Show
	clock     *ticker.Clock
	scheduler *ticker.Scheduler
	log       *slog.Logger
	now       func() time.Time

	theme  Theme
	styles Styles

	width, height int
	ready         bool
	lastResize    time.Time
	pending       *tea.WindowSizeMsg
	resizeQueued  bool

	paused     bool
	showHelp   bool
	last       show.Report
	fpsHistory []float64
	err        error
}

func NewModel(cfg *config.Config, s *show.Show) Model {
	theme := GetTheme(cfg.Theme)
	s.SetLabelColor(theme.LabelRGB())
	return Model{
		cfg:        cfg,
		show:       s,
		clock:      ticker.NewClock(cfg.Ticker.MaxDelta),
		scheduler:  ticker.NewScheduler(cfg.Ticker.TargetFPS),
		log:        slog.With("component", "viz"),
		now:        time.Now,
		theme:      theme,
		styles:     NewStyles(theme),
		fpsHistory: make([]float64, 0, fpsHistoryLimit),
	}
}

func (m Model) Init() tea.Cmd {
	m.clock.Start(m.now())
	return m.scheduler.Start()
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error { return m.err }

// Update handles input events and advances frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case resizeMsg:
		m.resizeQueued = false
		if m.pending != nil {
			if err := m.applySize(*m.pending); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	case ticker.FrameMsg:
		ok, next := m.scheduler.Accept(msg)
		if !ok {
			return m, nil
		}
		if m.ready {
			delta, elapsed := m.clock.Tick(msg.Time)
			m.last = m.show.Frame(delta, elapsed)
			m.recordFPS(m.last.FPS)
		}
		return m, next
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rapid := m.show.RapidFire()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.show.LaunchRandom()
	case "g":
		rapid.SetEnabled(!rapid.Enabled())
		m.log.Info("rapid fire toggled", "enabled", rapid.Enabled(), "hz", rapid.Hz())
	case "+", "=":
		rapid.SetHz(rapid.Hz() + rapidFireStep)
	case "-", "_":
		rapid.SetHz(rapid.Hz() - rapidFireStep)
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
		m.show.SetLabelColor(m.theme.LabelRGB())
	case "p":
		return m.togglePause()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) togglePause() (tea.Model, tea.Cmd) {
	m.paused = !m.paused
	if m.paused {
		m.scheduler.Stop()
		m.clock.Stop()
		m.log.Info("animation paused")
		return m, nil
	}
	m.clock.Start(m.now())
	m.show.Restart()
	m.log.Info("animation resumed")
	return m, m.scheduler.Start()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.ready {
		return
	}
	_, rows := m.show.Size()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.Y < rows {
			m.show.PointerDown(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if msg.Y < rows {
			m.show.PointerMove(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		m.show.PointerUp()
	}
}

// handleResize applies at most one resize per throttle window; the latest
// size seen inside a window wins.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	wait := m.cfg.Input.ResizeThrottle - m.now().Sub(m.lastResize)
	if !m.ready || wait <= 0 {
		if err := m.applySize(msg); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil
	}
	m.pending = &msg
	if m.resizeQueued {
		return m, nil
	}
	m.resizeQueued = true
	return m, tea.Tick(wait, func(time.Time) tea.Msg { return resizeMsg{} })
}

func (m *Model) applySize(msg tea.WindowSizeMsg) error {
	m.pending = nil
	m.lastResize = m.now()
	m.width, m.height = msg.Width, msg.Height
	if err := m.show.Resize(msg.Width, max(1, msg.Height-hudHeight)); err != nil {
		return fmt.Errorf("resize show: %w", err)
	}
	m.ready = true
	return nil
}

func (m *Model) recordFPS(fps float64) {
	if len(m.fpsHistory) == fpsHistoryLimit {
		copy(m.fpsHistory, m.fpsHistory[1:])
		m.fpsHistory = m.fpsHistory[:fpsHistoryLimit-1]
	}
	m.fpsHistory = append(m.fpsHistory, fps)
}

// View renders the glyph canvas with the HUD line below it.
func (m Model) View() string {
	if !m.ready {
		return "starting fireworks…"
	}
	if m.showHelp {
		return m.helpView() + "\n" + m.hud()
	}
	return m.show.Screen().Render() + "\n" + m.hud()
}

func (m Model) hud() string {
	s := m.styles
	r := m.last
	rapid := m.show.RapidFire()

	status := s.Running.Render("LIVE")
	if m.paused {
		status = s.Paused.Render("PAUSED")
	}
	tier := s.Value.Render(r.Tier)
	if m.show.Quality().IsLow() {
		tier = s.Warn.Render(r.Tier)
	}
	rapidState := s.Label.Render("rapid off")
	if rapid.Enabled() {
		rapidState = s.Value.Render(fmt.Sprintf("rapid %.0fHz", rapid.Hz()))
	}
	load := 0.0
	if r.Budget > 0 {
		load = float64(r.Particles) / float64(r.Budget)
	}

	parts := []string{
		status,
		s.Label.Render("particles ") + s.Value.Render(fmt.Sprintf("%d/%d", r.Particles, r.Budget)) + " " + s.ProgressBar(load, 8),
		s.Label.Render("tier ") + tier,
		s.Sparkline(m.fpsHistory, 12, 0, float64(m.cfg.Ticker.TargetFPS)),
		rapidState,
		s.Hint.Render("? help"),
	}
	return strings.Join(parts, s.Label.Render(" │ "))
}

func (m Model) helpView() string {
	lines := []string{
		"KEYBOARD & MOUSE",
		"",
		"click     launch a shell to the pointer",
		"space     launch to a random point",
		"g         toggle rapid fire while held",
		"+ / -     rapid fire rate (5-60 Hz)",
		"t         cycle themes",
		"p         pause / resume",
		"?         toggle this help",
		"q         quit",
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}
