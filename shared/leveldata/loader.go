package leveldata

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/lafriks/go-tiled"
)

// TileLayer is the TMX layer holding arena tiles. Each tileset tile carries a
// "kind" property: "wall" or "destructible". Empty cells have no tile.
const TileLayer = "tiles"

// LoadArena parses a TMX file from fsys. It takes an fs.FS so callers can pass
// embed.FS (client) or os.DirFS (relay).
func LoadArena(fsys fs.FS, tmxPath string) (*Arena, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	arena := &Arena{
		Width:  levelMap.Width,
		Height: levelMap.Height,
		Tiles:  make([]netconfig.TileType, levelMap.Width*levelMap.Height),
	}

	found := false
	for _, layer := range levelMap.Layers {
		if layer.Name != TileLayer {
			continue
		}
		found = true
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				kind := "wall"
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					if k := tilesetTile.Properties.GetString("kind"); k != "" {
						kind = k
					}
				}
				arena.Tiles[y*levelMap.Width+x] = netconfig.ParseTileType(kind)
			}
		}
		break
	}
	if !found {
		return nil, fmt.Errorf("TMX %s: missing %q layer", tmxPath, TileLayer)
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, og := range levelMap.ObjectGroups {
		if og.Name != "TankSpawn" {
			continue
		}
		for _, o := range og.Objects {
			arena.SpawnPoints = append(arena.SpawnPoints, SpawnPoint{
				X:     int(o.X / tileW),
				Y:     int(o.Y / tileH),
				Index: o.Properties.GetInt("spawnIndex"),
			})
		}
	}

	sort.Slice(arena.SpawnPoints, func(i, j int) bool {
		return arena.SpawnPoints[i].Index < arena.SpawnPoints[j].Index
	})

	return arena, nil
}
