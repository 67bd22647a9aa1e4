package core

import (
	"log"

	"github.com/automoto/dojo-tanks/shared/leveldata"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/automoto/dojo-tanks/tags"
	"github.com/solarlune/resolv"
)

// cellSize is the width of one grid cell in collision space units.
const cellSize = 16

// ArenaSpace holds the relay's collision space for the arena's solid tiles.
type ArenaSpace struct {
	Space  *resolv.Space
	Width  int
	Height int
}

// NewArenaSpace builds a resolv.Space with one object per wall or
// destructible tile.
func NewArenaSpace(a *leveldata.Arena) *ArenaSpace {
	space := resolv.NewSpace(a.Width*cellSize, a.Height*cellSize, cellSize, cellSize)

	walls, crates := 0, 0
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			var tag string
			switch a.At(x, y) {
			case netconfig.TileWall:
				tag = tags.ResolvWall
				walls++
			case netconfig.TileDestructible:
				tag = tags.ResolvDestructible
				crates++
			default:
				continue
			}
			obj := resolv.NewObject(float64(x*cellSize), float64(y*cellSize), cellSize, cellSize, tag)
			obj.SetShape(resolv.NewRectangle(0, 0, cellSize, cellSize))
			space.Add(obj)
		}
	}

	log.Printf("Loaded arena: %d walls, %d destructibles, %d spawn points, %dx%d grid",
		walls, crates, len(a.SpawnPoints), a.Width, a.Height)

	return &ArenaSpace{Space: space, Width: a.Width, Height: a.Height}
}

// InBounds reports whether a cell lies on the grid.
func (s *ArenaSpace) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// Blocked reports whether a tank may not stand on the cell.
func (s *ArenaSpace) Blocked(x, y int) bool {
	probe := resolv.NewObject(float64(x*cellSize)+2, float64(y*cellSize)+2, cellSize-4, cellSize-4)
	s.Space.Add(probe)
	defer s.Space.Remove(probe)

	return probe.Check(0, 0, tags.ResolvWall, tags.ResolvDestructible) != nil
}
