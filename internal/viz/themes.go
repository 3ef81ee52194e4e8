package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fireworks/internal/surface"
)

// Theme defines the HUD colors and the FPS label drawn on the canvas.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Label     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff1493"), // hot pink shells
		Secondary: lipgloss.Color("#00e5ff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#f4f4ff"),
		Muted:     lipgloss.Color("#5a5a78"),
		Success:   lipgloss.Color("#32ff32"),
		Warning:   lipgloss.Color("#ff9a1f"),
		Label:     lipgloss.Color("#8aa2c8"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#32ff32"), // acid green
		Secondary: lipgloss.Color("#1fbf3a"),
		Accent:    lipgloss.Color("#b4ffa0"),
		Text:      lipgloss.Color("#4cff4c"),
		Muted:     lipgloss.Color("#1a4a1a"),
		Success:   lipgloss.Color("#b4ffa0"),
		Warning:   lipgloss.Color("#e6e632"),
		Label:     lipgloss.Color("#1fbf3a"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#f0f0f0"),
		Secondary: lipgloss.Color("#b8b8b8"),
		Accent:    lipgloss.Color("#0099ff"),
		Text:      lipgloss.Color("#f0f0f0"),
		Muted:     lipgloss.Color("#7a7a7a"),
		Success:   lipgloss.Color("#7ad67a"),
		Warning:   lipgloss.Color("#e8b04a"),
		Label:     lipgloss.Color("#b8b8b8"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0099ff"), // harbor blue
		Secondary: lipgloss.Color("#00d4e0"),
		Accent:    lipgloss.Color("#ffd84a"),
		Text:      lipgloss.Color("#dcefff"),
		Muted:     lipgloss.Color("#3f6f8f"),
		Success:   lipgloss.Color("#3cf0a0"),
		Warning:   lipgloss.Color("#ffc23a"),
		Label:     lipgloss.Color("#88c8e8"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff7a3d"), // ember
		Secondary: lipgloss.Color("#ffd23f"), // willow gold
		Accent:    lipgloss.Color("#ff5ec4"),
		Text:      lipgloss.Color("#fff1e6"),
		Muted:     lipgloss.Color("#8a6a72"),
		Success:   lipgloss.Color("#7be07b"),
		Warning:   lipgloss.Color("#ffb03b"),
		Label:     lipgloss.Color("#ffd23f"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// LabelRGB converts the label color for drawing on the glyph canvas.
func (t Theme) LabelRGB() surface.RGB {
	c, err := colorful.Hex(string(t.Label))
	if err != nil {
		return surface.RGB{R: 0x8a, G: 0xa2, B: 0xc8}
	}
	r, g, b := c.RGB255()
	return surface.RGB{R: r, G: g, B: b}
}
