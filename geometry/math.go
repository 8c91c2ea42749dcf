package geometry

import "math"

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the closed range [lo, hi]. When lo > hi, lo wins.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Round converts a float to the nearest integer, halves away from zero.
func Round(f float64) int {
	return int(math.Round(f))
}

// ChebyshevDistance is the chessboard distance between two points. A point
// lies in the square of "radius" r around a centre when the distance is <= r.
func ChebyshevDistance(x1, y1, x2, y2 int) int {
	return Max(Abs(x2-x1), Abs(y2-y1))
}
