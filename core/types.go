// Package core contains the fundamental types shared by the envelope model,
// the viewport mapper and the terminal host.
package core

// Point represents a 2D coordinate. It is used both for node values
// (time, level) and for screen cells.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Bounds represents a rectangular area. Max is exclusive.
type Bounds struct {
	Min, Max Point
}

// Rect builds bounds from an origin and a size.
func Rect(x, y, width, height int) Bounds {
	return Bounds{Min: Point{X: x, Y: y}, Max: Point{X: x + width, Y: y + height}}
}

// Width returns the width of the bounds.
func (b Bounds) Width() int {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() int {
	return b.Max.Y - b.Min.Y
}

// Empty reports whether the bounds contain no points.
func (b Bounds) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Clamp returns the point inside the bounds closest to p.
// The result is undefined for empty bounds.
func (b Bounds) Clamp(p Point) Point {
	if p.X < b.Min.X {
		p.X = b.Min.X
	}
	if p.X >= b.Max.X {
		p.X = b.Max.X - 1
	}
	if p.Y < b.Min.Y {
		p.Y = b.Min.Y
	}
	if p.Y >= b.Max.Y {
		p.Y = b.Max.Y - 1
	}
	return p
}

// Inset shrinks the bounds by n on every side.
func (b Bounds) Inset(n int) Bounds {
	return Bounds{
		Min: Point{X: b.Min.X + n, Y: b.Min.Y + n},
		Max: Point{X: b.Max.X - n, Y: b.Max.Y - n},
	}
}
