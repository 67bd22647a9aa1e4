package gamemath

import "math"

// Pose is a position on the world grid plus a heading in degrees.
type Pose struct {
	X, Y    float64
	Heading float64
}

// NormalizeHeading reduces degrees into [0, 360).
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	// -0 and values that round up to 360 after the add
	if h >= 360 || h == 0 {
		return 0
	}
	return h
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampToWorld bounds a position to the [0, maxX] x [0, maxY] grid.
func ClampToWorld(x, y, maxX, maxY float64) (float64, float64) {
	return Clamp(x, 0, maxX), Clamp(y, 0, maxY)
}

// Cell returns the integer grid cell a position rounds to.
func Cell(x, y float64) (int, int) {
	return int(math.Round(x)), int(math.Round(y))
}
