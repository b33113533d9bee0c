package platform

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Cell is one character cell of a MemorySurface.
type Cell struct {
	Rune rune
	FG   colorful.Color
	BG   colorful.Color
}

// MemorySurface is an in-memory Surface used by headless runs and tests.
type MemorySurface struct {
	width, height int
	cells         [][]Cell
	presents      int
}

// NewMemorySurface creates a blank surface.
func NewMemorySurface(width, height int) *MemorySurface {
	s := &MemorySurface{}
	s.resize(width, height)
	return s
}

func (s *MemorySurface) resize(width, height int) {
	s.width, s.height = width, height
	s.cells = make([][]Cell, height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, width)
	}
	s.Clear()
}

// Clear blanks every cell.
func (s *MemorySurface) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// DrawText writes text starting at (x, y). Cells outside the surface are
// silently dropped.
func (s *MemorySurface) DrawText(x, y int, text string, fg, bg colorful.Color) {
	if y < 0 || y >= s.height {
		return
	}
	for _, r := range text {
		if x >= 0 && x < s.width {
			s.cells[y][x] = Cell{Rune: r, FG: fg, BG: bg}
		}
		x++
	}
}

// Present counts a frame.
func (s *MemorySurface) Present() {
	s.presents++
}

// Size returns the surface dimensions.
func (s *MemorySurface) Size() (int, int) {
	return s.width, s.height
}

// Cell returns the cell at (x, y), or a zero Cell outside the surface.
func (s *MemorySurface) Cell(x, y int) Cell {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		return s.cells[y][x]
	}
	return Cell{}
}

// Line returns row y as a string with trailing blanks trimmed.
func (s *MemorySurface) Line(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[y] {
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// Presents returns the number of Present calls.
func (s *MemorySurface) Presents() int {
	return s.presents
}
