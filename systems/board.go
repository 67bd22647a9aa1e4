package systems

import (
	cfg "github.com/automoto/dojo-tanks/config"
)

// cellCenter maps a grid position to the screen point at the centre of its cell.
func cellCenter(x, y float64) (float32, float32) {
	ts := float64(cfg.Render.TileSize)
	sx := float64(cfg.Render.BoardOffsetX) + x*ts + ts/2
	sy := float64(cfg.Render.BoardOffsetY) + y*ts + ts/2
	return float32(sx), float32(sy)
}

// screenToCell maps a screen point to the grid cell under it.
func screenToCell(sx, sy int) (int, int, bool) {
	ts := cfg.Render.TileSize
	dx := sx - cfg.Render.BoardOffsetX
	dy := sy - cfg.Render.BoardOffsetY
	if dx < 0 || dy < 0 {
		return 0, 0, false
	}
	x, y := dx/ts, dy/ts
	if x >= cfg.World.Width || y >= cfg.World.Height {
		return 0, 0, false
	}
	return x, y, true
}
