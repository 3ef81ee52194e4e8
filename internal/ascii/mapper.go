// Package ascii samples the logical surface into a grid of colored glyphs and
// redraws only what changed.
package ascii

import (
	"math"

	"github.com/san-kum/fireworks/internal/surface"
)

// Mapper maps brightness onto a ramp of glyphs ordered darkest to brightest.
type Mapper struct {
	ramp []rune
}

func NewMapper(charset string) *Mapper {
	ramp := []rune(charset)
	if len(ramp) == 0 {
		ramp = []rune{' '}
	}
	return &Mapper{ramp: ramp}
}

// Blank is the darkest glyph of the ramp.
func (m *Mapper) Blank() rune { return m.ramp[0] }

// Glyph picks the ramp entry proportional to luma in [0, 255].
func (m *Mapper) Glyph(luma float64) rune {
	n := math.Max(0, math.Min(1, luma/255))
	return m.ramp[int(math.Floor(n*float64(len(m.ramp)-1)))]
}

// Luma returns the rounded Rec. 601 luma of c.
func Luma(c surface.RGB) uint16 {
	return uint16(math.Round(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)))
}
