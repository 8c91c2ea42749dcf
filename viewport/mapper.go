// Package viewport converts between envelope values and screen cells.
//
// Coordinate System:
//   - Value space: X is elapsed time (>= 0), Y is level, growing upward
//   - Screen space: origin (0,0) is the top-left cell of the view, Y grows
//     downward
//   - The virtual area is the unscrolled screen space; the view is a window
//     onto it offset by the scroll position, counted in scroll units
package viewport

import (
	"envgraph/core"
	"envgraph/geometry"
	"math"
)

// Mapper holds the scale configuration and scroll state of a view. The
// mapping methods use a value receiver and depend only on the receiver and
// their argument.
type Mapper struct {
	Radius     int     // Node radius in cells; also the margin around the curve
	ScaleX     float64 // Cells per value unit, horizontal
	ScaleY     float64 // Cells per value unit, vertical
	ScrollRate int     // Cells per scroll unit
	MaxHeight  int     // Highest level kept inside the virtual area
	MinimumY   int     // Lowest level a node may take
	MaximumY   int     // Highest level a node may take

	scrollX, scrollY int // Scroll position in scroll units
	width, height    int // View size in cells
}

// Baseline is the virtual row of level 0.
func (m Mapper) Baseline() int {
	return m.Radius + geometry.Round(float64(m.MaxHeight)*m.ScaleY)
}

func (m Mapper) scrollOffset() core.Point {
	return core.Point{X: m.scrollX * m.ScrollRate, Y: m.scrollY * m.ScrollRate}
}

// ToVirtual maps a node value to its unscrolled cell.
func (m Mapper) ToVirtual(p core.Point) core.Point {
	return core.Point{
		X: m.Radius + geometry.Round(float64(p.X)*m.ScaleX),
		Y: m.Baseline() - geometry.Round(float64(p.Y)*m.ScaleY),
	}
}

// ToScreen maps a node value to the cell of its centre in the view.
func (m Mapper) ToScreen(p core.Point) core.Point {
	return m.ToVirtual(p).Sub(m.scrollOffset())
}

// ToValue maps a view cell to a node value. X is kept non-negative and Y is
// clamped into [MinimumY, MaximumY]; neighbour ordering is the caller's
// concern.
func (m Mapper) ToValue(s core.Point) core.Point {
	v := s.Add(m.scrollOffset())
	x := float64(v.X-m.Radius) / m.ScaleX
	y := float64(m.Baseline()-v.Y) / m.ScaleY
	return core.Point{
		X: geometry.Max(geometry.Round(x), 0),
		Y: geometry.Clamp(geometry.Round(y), m.MinimumY, m.MaximumY),
	}
}

// HitRegion returns the square of side 2*Radius+1 centred on a node's cell.
func (m Mapper) HitRegion(center core.Point) core.Bounds {
	side := 2*m.Radius + 1
	return core.Rect(center.X-m.Radius, center.Y-m.Radius, side, side)
}

// Hit reports whether cell s lies in the hit region of the node at value p.
func (m Mapper) Hit(s core.Point, p core.Point) bool {
	c := m.ToScreen(p)
	return geometry.ChebyshevDistance(s.X, s.Y, c.X, c.Y) <= m.Radius
}

// FitExtent returns the virtual area needed to show every node and the
// range up to MaxHeight without clipping a node's hit region.
func (m Mapper) FitExtent(nodes []core.Point) core.Bounds {
	maxX := 0
	for _, p := range nodes {
		maxX = geometry.Max(maxX, p.X)
	}
	below := 0
	if m.MinimumY < 0 {
		below = geometry.Round(float64(-m.MinimumY) * m.ScaleY)
	}

	width := m.ToVirtual(core.Point{X: maxX}).X + m.Radius + 1
	height := m.Baseline() + below + m.Radius + 1
	return core.Rect(0, 0, width, height)
}

// SetViewSize records the size of the visible window in cells.
func (m *Mapper) SetViewSize(width, height int) {
	m.width = geometry.Max(width, 0)
	m.height = geometry.Max(height, 0)
}

// ViewSize returns the size of the visible window in cells.
func (m Mapper) ViewSize() (width, height int) {
	return m.width, m.height
}

// View returns the visible window in view coordinates.
func (m Mapper) View() core.Bounds {
	return core.Rect(0, 0, m.width, m.height)
}

// DragRegion is the part of the view where a dragged node's centre stays
// fully visible: the view minus the node radius on each side.
func (m Mapper) DragRegion() core.Bounds {
	r := m.View().Inset(m.Radius)
	if r.Empty() {
		return m.View()
	}
	return r
}

// Scroll returns the scroll position in scroll units.
func (m Mapper) Scroll() (x, y int) {
	return m.scrollX, m.scrollY
}

// ScrollTo sets the scroll position, clamped to the given extent.
func (m *Mapper) ScrollTo(x, y int, extent core.Bounds) {
	maxX, maxY := m.maxScroll(extent)
	m.scrollX = geometry.Clamp(x, 0, maxX)
	m.scrollY = geometry.Clamp(y, 0, maxY)
}

// ScrollBy moves the scroll position by a number of units and reports
// whether it changed.
func (m *Mapper) ScrollBy(dx, dy int, extent core.Bounds) bool {
	ox, oy := m.scrollX, m.scrollY
	m.ScrollTo(ox+dx, oy+dy, extent)
	return ox != m.scrollX || oy != m.scrollY
}

// ClampScroll pulls the scroll position back inside the extent, e.g. after
// a resize or after nodes were removed.
func (m *Mapper) ClampScroll(extent core.Bounds) {
	m.ScrollTo(m.scrollX, m.scrollY, extent)
}

func (m Mapper) maxScroll(extent core.Bounds) (int, int) {
	rate := geometry.Max(m.ScrollRate, 1)
	over := func(content, view int) int {
		if content <= view {
			return 0
		}
		return int(math.Ceil(float64(content-view) / float64(rate)))
	}
	return over(extent.Width(), m.width), over(extent.Height(), m.height)
}

// EnsureVisible scrolls one unit towards cell s when it lies outside the
// drag region and reports whether the view moved.
func (m *Mapper) EnsureVisible(s core.Point, extent core.Bounds) bool {
	r := m.DragRegion()
	dx, dy := 0, 0
	switch {
	case s.X < r.Min.X:
		dx = -1
	case s.X >= r.Max.X:
		dx = 1
	}
	switch {
	case s.Y < r.Min.Y:
		dy = -1
	case s.Y >= r.Max.Y:
		dy = 1
	}
	if dx == 0 && dy == 0 {
		return false
	}
	return m.ScrollBy(dx, dy, extent)
}
