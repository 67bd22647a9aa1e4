package assets

import (
	"embed"
	"io/fs"

	"github.com/automoto/dojo-tanks/shared/leveldata"
)

// ArenaPath is the arena map inside FS.
const ArenaPath = "maps/arena.tmx"

//go:embed all:maps
var assetFS embed.FS

// FS exposes the embedded maps so the relay can load the same arena.
func FS() fs.FS {
	return assetFS
}

// LoadArena parses the embedded arena map.
func LoadArena() (*leveldata.Arena, error) {
	return leveldata.LoadArena(assetFS, ArenaPath)
}
