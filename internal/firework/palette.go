package firework

import "github.com/san-kum/fireworks/internal/surface"

// Palette is the fixed neon palette referenced by particle color indices.
var Palette = []surface.RGB{
	{R: 0, G: 255, B: 255},   // cyber cyan
	{R: 255, G: 0, B: 255},   // neon magenta
	{R: 50, G: 255, B: 50},   // acid green
	{R: 255, G: 255, B: 0},   // electric yellow
	{R: 255, G: 20, B: 147},  // hot pink
	{R: 0, G: 153, B: 255},   // electric blue
	{R: 255, G: 255, B: 255}, // pure white
}

const (
	GoldIndex  uint8 = 3
	WhiteIndex uint8 = 6
)

// PaletteColor returns the palette entry for idx, falling back to the first
// entry for out-of-range indices.
func PaletteColor(idx uint8) surface.RGB {
	if int(idx) >= len(Palette) {
		return Palette[0]
	}
	return Palette[idx]
}
