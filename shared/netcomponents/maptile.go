package netcomponents

import (
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/yohamta/donburi"
)

// MapTileData mirrors the ledger MapTiles model, keyed by game and position.
type MapTileData struct {
	GameID   uint32
	Position Vec2
	TileType netconfig.TileType
}

func (MapTileData) Kind() Kind { return KindMapTile }
func (MapTileData) sealed()    {}

var MapTile = donburi.NewComponentType[MapTileData]()
