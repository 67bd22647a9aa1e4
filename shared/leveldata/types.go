// Package leveldata provides TMX arena parsing shared between the client and
// the relay. It has no dependencies on ebitengine, donburi or resolv; pure
// data only.
package leveldata

import "github.com/automoto/dojo-tanks/shared/netconfig"

// Arena holds the tile grid and spawn cells parsed from a TMX file.
type Arena struct {
	Width, Height int
	// Tiles is row-major, len Width*Height.
	Tiles       []netconfig.TileType
	SpawnPoints []SpawnPoint
}

// SpawnPoint is a tank spawn cell.
type SpawnPoint struct {
	X, Y  int
	Index int
}

// At returns the tile at a cell; cells outside the arena read as walls.
func (a *Arena) At(x, y int) netconfig.TileType {
	if x < 0 || y < 0 || x >= a.Width || y >= a.Height {
		return netconfig.TileWall
	}
	return a.Tiles[y*a.Width+x]
}
