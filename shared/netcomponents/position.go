package netcomponents

import "math"

// Vec2 is an integer grid coordinate as stored on the ledger.
type Vec2 struct {
	X, Y uint32
}

// Key returns the spatial key "{x}-{y}" used to index map tiles.
func (v Vec2) Key() string {
	return CellKey(int(v.X), int(v.Y))
}

// CellKey builds the spatial key for an integer cell.
func CellKey(x, y int) string {
	return itoa(x) + "-" + itoa(y)
}

// Vec2FromFloat rounds a predicted position to the grid, clamping negatives to 0.
func Vec2FromFloat(x, y float64) Vec2 {
	return Vec2{X: roundU32(x), Y: roundU32(y)}
}

func roundU32(v float64) uint32 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	return uint32(r)
}
