package export

import (
	"fmt"
	"html"
	"image/png"
	"io"
	"strings"

	"github.com/san-kum/fireworks/internal/ascii"
	"github.com/san-kum/fireworks/internal/surface"
)

// FrameToSVG converts an ascii frame to SVG text, one <text> per glyph.
// cellW and cellH are the pixel size of a terminal cell.
func FrameToSVG(frame *ascii.CellBuffer, cellW, cellH float64) string {
	if frame == nil || frame.Width() == 0 || frame.Height() == 0 {
		return ""
	}

	width := float64(frame.Width()) * cellW
	height := float64(frame.Height()) * cellH

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g font-family="monospace" font-size="%.0f">
`, width, height, width, height, cellH))

	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			c := frame.At(x, y)
			if c.Ch == ' ' || c.Ch == 0 {
				continue
			}
			// baseline sits at ~80% of the cell
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, float64(x)*cellW, float64(y)*cellH+cellH*0.8, hexColor(c.Fg), html.EscapeString(string(c.Ch))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// RasterToPNG encodes the logical raster behind the ascii frame.
func RasterToPNG(w io.Writer, r *surface.Raster) error {
	if r == nil {
		return fmt.Errorf("export: nil raster")
	}
	return png.Encode(w, r.Image())
}

func hexColor(c surface.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
