package ascii

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/surface"
)

// FontMetrics reports the natural advance width of a glyph at a font size,
// in world pixels.
type FontMetrics interface {
	Advance(fontSize int) float64
}

// TerminalMetrics reports a fixed advance: a terminal glyph always spans
// exactly one terminal cell.
type TerminalMetrics struct {
	CellWidth float64
}

func (m TerminalMetrics) Advance(int) float64 { return m.CellWidth }

// FrameStats describes what RenderTo did for one frame.
type FrameStats struct {
	Sampled    bool
	FullRedraw bool
	DirtyCells int
	TotalCells int
	DirtyRatio float64
}

// generation is one snapshot of per-cell sample state.
type generation struct {
	glyphs     []rune
	colors     []uint32
	brightness []uint16
}

func newGeneration(n int) generation {
	return generation{
		glyphs:     make([]rune, n),
		colors:     make([]uint32, n),
		brightness: make([]uint16, n),
	}
}

// Layer owns the logical surface and the glyph surface. Scene layers draw
// through WithBuffer; RenderTo samples, diffs and composites.
type Layer struct {
	cfg     config.ASCIIConfig
	mapper  *Mapper
	metrics FontMetrics
	log     *slog.Logger

	raster *surface.Raster
	frame  *CellBuffer
	pixels []uint8

	columns, rows  int
	cellW, cellH   int
	worldW, worldH float64

	sampleInterval int
	sampleTick     int
	forceFull      bool

	fontSize  int
	charWidth float64

	prev, next generation

	labelColor surface.RGB
}

func NewLayer(cfg config.ASCIIConfig, metrics FontMetrics) (*Layer, error) {
	raster, err := surface.New(1, 1)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = TerminalMetrics{CellWidth: float64(cfg.TermCellWidth)}
	}
	return &Layer{
		cfg:            cfg,
		mapper:         NewMapper(cfg.Charset),
		metrics:        metrics,
		log:            slog.With("component", "ascii"),
		raster:         raster,
		frame:          NewCellBuffer(1, 1),
		columns:        1,
		rows:           1,
		worldW:         1,
		worldH:         1,
		sampleInterval: 1,
		forceFull:      true,
		charWidth:      1,
		prev:           newGeneration(1),
		next:           newGeneration(1),
		labelColor:     surface.RGB{R: 0x8a, G: 0xa2, B: 0xc8},
	}, nil
}

// Resize recomputes the grid for a world of width × height pixels at the
// given quality tier and forces a full redraw.
func (l *Layer) Resize(width, height float64, tier config.Tier) error {
	l.worldW = math.Max(1, math.Round(width))
	l.worldH = math.Max(1, math.Round(height))

	scale := tier.Scale
	if scale <= 0 {
		scale = 1
	}
	l.cellW = max(l.cfg.BaseCellWidth, int(math.Floor(float64(l.cfg.BaseCellWidth)/scale)))
	l.cellH = max(l.cfg.BaseCellHeight, int(math.Floor(float64(l.cfg.BaseCellHeight)/scale)))
	l.columns = max(l.cfg.MinColumns, int(math.Floor(width/float64(l.cellW))))
	l.rows = max(l.cfg.MinRows, int(math.Floor(height/float64(l.cellH))))

	if err := l.raster.Resize(l.columns, l.rows); err != nil {
		return fmt.Errorf("resize logical surface: %w", err)
	}
	l.frame.Resize(l.termCols(l.worldW), l.termRows(l.worldH))

	l.sampleInterval = max(1, tier.SampleInterval)
	l.sampleTick = 0
	l.forceFull = true
	n := l.columns * l.rows
	l.prev = newGeneration(n)
	l.next = newGeneration(n)
	l.fontSize = 0

	l.log.Info("buffer resized",
		"columns", l.columns, "rows", l.rows,
		"world", fmt.Sprintf("%.0fx%.0f", l.worldW, l.worldH),
		"tier", tier.Name, "scale", scale)
	return nil
}

func (l *Layer) Columns() int                { return l.columns }
func (l *Layer) Rows() int                   { return l.rows }
func (l *Layer) SampleInterval() int         { return l.sampleInterval }
func (l *Layer) Raster() *surface.Raster     { return l.raster }
func (l *Layer) Frame() *CellBuffer          { return l.frame }
func (l *Layer) SetLabelColor(c surface.RGB) { l.labelColor = c }

// Fade darkens the whole logical surface, leaving decaying trails.
func (l *Layer) Fade() {
	l.raster.Fade(l.cfg.FadeAlpha)
}

// WithBuffer runs draw with the logical surface mapped to world pixels.
func (l *Layer) WithBuffer(draw func(c surface.Canvas)) {
	l.raster.SetTransform(float64(l.columns)/l.worldW, float64(l.rows)/l.worldH)
	defer l.raster.ResetTransform()
	draw(l.raster)
}

// RenderTo samples the logical surface when due, redraws changed glyphs and
// composites the glyph surface plus an FPS label onto screen. width and
// height are the visible world size in pixels.
func (l *Layer) RenderTo(screen *CellBuffer, width, height, fps float64) FrameStats {
	tw, th := l.termCols(width), l.termRows(height)
	if l.frame.Width() != tw || l.frame.Height() != th {
		l.frame.Resize(tw, th)
		l.forceFull = true
	}

	drawCellW := width / float64(l.columns)
	drawCellH := height / float64(l.rows)
	fontSize := int(math.Ceil(drawCellH))
	if fontSize != l.fontSize {
		l.charWidth = math.Max(1, l.metrics.Advance(fontSize))
		l.fontSize = fontSize
		l.forceFull = true
	}

	var stats FrameStats
	shouldSample := l.sampleTick == 0 || l.forceFull
	l.sampleTick = (l.sampleTick + 1) % l.sampleInterval

	if shouldSample {
		stats = l.sample(drawCellW, drawCellH)
	}

	if screen.Width() != tw || screen.Height() != th {
		screen.Resize(tw, th)
	}
	screen.Blit(l.frame)

	label := fmt.Sprintf("FPS %d", int(math.Round(fps)))
	off := float64(l.cfg.FPSLabelOffset)
	screen.DrawText(int(off/float64(l.cfg.TermCellWidth)), int(off/float64(l.cfg.TermCellHeight)), label, l.labelColor)
	return stats
}

func (l *Layer) sample(drawCellW, drawCellH float64) FrameStats {
	l.pixels = l.raster.ReadPixels(l.pixels)
	total := l.columns * l.rows

	dirty := 0
	for i := 0; i < total; i++ {
		p := l.pixels[i*4 : i*4+3]
		c := surface.RGB{R: p[0], G: p[1], B: p[2]}
		luma := Luma(c)
		l.next.glyphs[i] = l.mapper.Glyph(float64(luma))
		l.next.colors[i] = c.Pack()
		l.next.brightness[i] = luma
		if l.forceFull || l.isDirty(i) {
			dirty++
		}
	}

	ratio := float64(dirty) / float64(max(1, total))
	redrawAll := l.forceFull || ratio > l.cfg.DirtyFullRedrawPct
	hStretch := drawCellW / l.charWidth

	if redrawAll {
		l.frame.Clear()
	}
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.columns; col++ {
			i := row*l.columns + col
			if !redrawAll && !l.isDirty(i) {
				continue
			}
			x0 := float64(col) * l.charWidth * hStretch
			y0 := float64(row) * drawCellH
			c0, c1 := span(x0, x0+drawCellW, float64(l.cfg.TermCellWidth))
			r0, r1 := span(y0, y0+drawCellH, float64(l.cfg.TermCellHeight))
			if !redrawAll {
				l.frame.Erase(c0, r0, c1, r1)
			}
			g := l.next.glyphs[i]
			if g == l.mapper.Blank() || c0 >= c1 || r0 >= r1 {
				continue
			}
			l.frame.Set(c0, r0, g, surface.Unpack(l.next.colors[i]))
		}
	}

	l.prev, l.next = l.next, l.prev
	l.forceFull = false
	return FrameStats{
		Sampled:    true,
		FullRedraw: redrawAll,
		DirtyCells: dirty,
		TotalCells: total,
		DirtyRatio: ratio,
	}
}

func (l *Layer) isDirty(i int) bool {
	if l.next.glyphs[i] != l.prev.glyphs[i] || l.next.colors[i] != l.prev.colors[i] {
		return true
	}
	d := int(l.next.brightness[i]) - int(l.prev.brightness[i])
	return d > l.cfg.DirtyEpsilon || -d > l.cfg.DirtyEpsilon
}

func (l *Layer) termCols(width float64) int {
	return max(1, int(math.Round(width/float64(l.cfg.TermCellWidth))))
}

func (l *Layer) termRows(height float64) int {
	return max(1, int(math.Round(height/float64(l.cfg.TermCellHeight))))
}

// span returns the terminal cells whose origin lies in [a, b).
func span(a, b, unit float64) (int, int) {
	const eps = 1e-9
	return int(math.Ceil(a/unit - eps)), int(math.Ceil(b/unit - eps))
}
