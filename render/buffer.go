package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell is one screen position
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Screen is the subset of tcell.Screen the buffer flushes to
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Buffer is the frame compositor with the hit regions drawn this frame
type Buffer struct {
	cells   []Cell
	width   int
	height  int
	regions []Region
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blanks and drops hit regions, using exponential copy
func (b *Buffer) Clear() {
	b.regions = b.regions[:0]
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Style: StyleBase}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one cell, out of bounds writes are dropped
func (b *Buffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: style}
}

// Get returns the cell at x,y, a zero Cell out of bounds
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Text draws s from x,y and returns the columns used
// Wide runes take two columns, the second filled with a zero rune
func (b *Buffer) Text(x, y int, s string, style tcell.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.Set(col, y, r, style)
		if w == 2 {
			b.Set(col+1, y, 0, style)
		}
		col += w
	}
	return col - x
}

// TextCenter draws s centered on the row and returns its starting column
func (b *Buffer) TextCenter(y int, s string, style tcell.Style) int {
	x := (b.width - runewidth.StringWidth(s)) / 2
	b.Text(x, y, s, style)
	return x
}

// Fill paints a rectangle with blanks in style
func (b *Buffer) Fill(r Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			b.Set(x, y, ' ', style)
		}
	}
}

// Row returns row y as text, for tests and snapshots
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y*b.width : (y+1)*b.width] {
		if c.Rune == 0 {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Flush copies every cell to the screen and shows it
func (b *Buffer) Flush(s Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			if c.Rune == 0 {
				continue
			}
			s.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
	s.Show()
}

// Truncate shortens s to at most w columns with a trailing ellipsis
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}
