package ascii

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fireworks/internal/surface"
)

type Cell struct {
	Ch rune
	Fg surface.RGB
}

var blankCell = Cell{Ch: ' '}

// CellBuffer is a grid of terminal cells. Render output is cached per row and
// only rebuilt for rows touched since the previous call.
type CellBuffer struct {
	width, height int
	cells         []Cell
	rowCache      []string
	rowDirty      []bool
	styles        map[uint32]lipgloss.Style
}

func NewCellBuffer(width, height int) *CellBuffer {
	b := &CellBuffer{styles: make(map[uint32]lipgloss.Style)}
	b.Resize(width, height)
	return b
}

// Resize reallocates the grid and blanks it.
func (b *CellBuffer) Resize(width, height int) {
	b.width, b.height = max(1, width), max(1, height)
	b.cells = make([]Cell, b.width*b.height)
	b.rowCache = make([]string, b.height)
	b.rowDirty = make([]bool, b.height)
	b.Clear()
}

func (b *CellBuffer) Width() int  { return b.width }
func (b *CellBuffer) Height() int { return b.height }

func (b *CellBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blankCell
	}
	for y := range b.rowDirty {
		b.rowDirty[y] = true
	}
}

func (b *CellBuffer) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return blankCell
	}
	return b.cells[y*b.width+x]
}

func (b *CellBuffer) Set(x, y int, ch rune, fg surface.RGB) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	i := y*b.width + x
	c := Cell{Ch: ch, Fg: fg}
	if b.cells[i] != c {
		b.cells[i] = c
		b.rowDirty[y] = true
	}
}

// Erase blanks the half-open cell rectangle [x0, x1) × [y0, y1).
func (b *CellBuffer) Erase(x0, y0, x1, y1 int) {
	x0, y0 = max(0, x0), max(0, y0)
	x1, y1 = min(b.width, x1), min(b.height, y1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.Set(x, y, blankCell.Ch, blankCell.Fg)
		}
	}
}

// Blit copies the overlapping region of src into b.
func (b *CellBuffer) Blit(src *CellBuffer) {
	w, h := min(b.width, src.width), min(b.height, src.height)
	for y := 0; y < h; y++ {
		row := src.cells[y*src.width : y*src.width+w]
		dst := b.cells[y*b.width : y*b.width+w]
		for x, c := range row {
			if dst[x] != c {
				dst[x] = c
				b.rowDirty[y] = true
			}
		}
	}
}

func (b *CellBuffer) DrawText(x, y int, s string, fg surface.RGB) {
	for _, r := range s {
		b.Set(x, y, r, fg)
		x++
	}
}

// Plain returns the grid as text without color.
func (b *CellBuffer) Plain() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for y := 0; y < b.height; y++ {
		for _, c := range b.cells[y*b.width : (y+1)*b.width] {
			sb.WriteRune(c.Ch)
		}
		if y < b.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *CellBuffer) String() string { return b.Plain() }

// Render returns the grid as styled terminal output.
func (b *CellBuffer) Render() string {
	for y := 0; y < b.height; y++ {
		if b.rowDirty[y] {
			b.rowCache[y] = b.renderRow(y)
			b.rowDirty[y] = false
		}
	}
	return strings.Join(b.rowCache, "\n")
}

// renderRow styles runs of equal foreground color together.
func (b *CellBuffer) renderRow(y int) string {
	var sb strings.Builder
	var run []rune
	row := b.cells[y*b.width : (y+1)*b.width]

	flush := func(fg surface.RGB) {
		if len(run) == 0 {
			return
		}
		sb.WriteString(b.style(fg).Render(string(run)))
		run = run[:0]
	}

	cur := row[0].Fg
	for _, c := range row {
		if c.Ch == ' ' {
			// blanks render the same in any color
			run = append(run, ' ')
			continue
		}
		if c.Fg != cur {
			flush(cur)
			cur = c.Fg
		}
		run = append(run, c.Ch)
	}
	flush(cur)
	return sb.String()
}

func (b *CellBuffer) style(fg surface.RGB) lipgloss.Style {
	key := fg.Pack()
	if s, ok := b.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%06x", key)))
	b.styles[key] = s
	return s
}
