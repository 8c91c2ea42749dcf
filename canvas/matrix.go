package canvas

import (
	"envgraph/core"
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
)

// Ink names the role a cell is drawn with. The host maps inks to colours.
type Ink int

const (
	InkNone Ink = iota
	InkLine
	InkNode
	InkSustain
	InkHover
	InkLocked
	InkMenu
	InkStatus
)

// Cell is one character cell.
type Cell struct {
	Rune rune
	Ink  Ink
}

// continuation marks the second cell of a wide rune.
const continuation = '\x00'

// Matrix is a grid of styled cells.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Matrix is NOT safe for concurrent use.
type Matrix struct {
	cells  [][]Cell
	width  int
	height int
}

// NewMatrix creates a blank matrix. Returns nil for a non-positive size.
func NewMatrix(width, height int) *Matrix {
	if width <= 0 || height <= 0 {
		return nil
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	m := &Matrix{cells: cells, width: width, height: height}
	m.Clear()
	return m
}

// Size returns the width and height of the matrix.
func (m *Matrix) Size() (width, height int) {
	return m.width, m.height
}

// Bounds returns the area covered by the matrix.
func (m *Matrix) Bounds() core.Bounds {
	return core.Rect(0, 0, m.width, m.height)
}

// Get returns the cell at p, or a blank cell out of bounds.
func (m *Matrix) Get(p core.Point) Cell {
	if !m.Bounds().Contains(p) {
		return Cell{Rune: ' '}
	}
	return m.cells[p.Y][p.X]
}

// Set places a rune at p.
func (m *Matrix) Set(p core.Point, r rune, ink Ink) error {
	if !m.Bounds().Contains(p) {
		return ErrOutOfBounds
	}
	m.cells[p.Y][p.X] = Cell{Rune: r, Ink: ink}
	return nil
}

func (m *Matrix) setClipped(x, y int, r rune, ink Ink) {
	if x >= 0 && x < m.width && y >= 0 && y < m.height {
		m.cells[y][x] = Cell{Rune: r, Ink: ink}
	}
}

// Clear resets every cell to a blank space.
func (m *Matrix) Clear() {
	for y := range m.cells {
		for x := range m.cells[y] {
			m.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// String returns the runes as text with newlines, dropping inks.
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width + 1))

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			r := m.cells[y][x].Rune
			if r == continuation {
				continue
			}
			sb.WriteRune(r)
		}
		if y < m.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// DrawLine draws a line between two points using Bresenham's algorithm,
// clipped to the matrix.
func (m *Matrix) DrawLine(p1, p2 core.Point, r rune, ink Ink) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}
	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			m.setClipped(x, y, r, ink)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			m.setClipped(x, y, r, ink)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}

	m.setClipped(p2.X, p2.Y, r, ink)
}

// DrawText writes text starting at (x, y). Wide runes take two cells and
// text past the right edge is dropped. Returns the number of cells used.
func (m *Matrix) DrawText(x, y int, text string, ink Ink) int {
	if y < 0 || y >= m.height {
		return 0
	}

	cur := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cur+w > m.width {
			break
		}
		if cur >= 0 {
			m.cells[y][cur] = Cell{Rune: r, Ink: ink}
			if w == 2 {
				m.cells[y][cur+1] = Cell{Rune: continuation, Ink: ink}
			}
		}
		cur += w
	}
	return cur - x
}

// FillRect fills an area with a rune, clipped to the matrix.
func (m *Matrix) FillRect(b core.Bounds, r rune, ink Ink) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.setClipped(x, y, r, ink)
		}
	}
}

// DrawBox draws a rounded rectangle outline, clipped to the matrix.
func (m *Matrix) DrawBox(b core.Bounds, ink Ink) {
	if b.Width() < 2 || b.Height() < 2 {
		return
	}
	x0, y0 := b.Min.X, b.Min.Y
	x1, y1 := b.Max.X-1, b.Max.Y-1

	for x := x0 + 1; x < x1; x++ {
		m.setClipped(x, y0, '─', ink)
		m.setClipped(x, y1, '─', ink)
	}
	for y := y0 + 1; y < y1; y++ {
		m.setClipped(x0, y, '│', ink)
		m.setClipped(x1, y, '│', ink)
	}
	m.setClipped(x0, y0, '╭', ink)
	m.setClipped(x1, y0, '╮', ink)
	m.setClipped(x0, y1, '╰', ink)
	m.setClipped(x1, y1, '╯', ink)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
