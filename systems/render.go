package systems

import (
	"fmt"
	"image/color"

	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/components"
	"github.com/automoto/dojo-tanks/fonts"
	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CellSource answers what occupies a grid cell.
type CellSource interface {
	Cell(x, y int) network.CellView
}

func tileColor(t netconfig.TileType) color.RGBA {
	switch t {
	case netconfig.TileWall:
		return cfg.WallColor
	case netconfig.TileDestructible:
		return cfg.DestructibleColor
	default:
		return cfg.EmptyColor
	}
}

// NewBoardRenderer draws the arena grid from the ledger's map tiles.
func NewBoardRenderer(cells CellSource) func(*ecs.ECS, *ebiten.Image) {
	ts := float32(cfg.Render.TileSize)
	ox := float32(cfg.Render.BoardOffsetX)
	oy := float32(cfg.Render.BoardOffsetY)

	return func(_ *ecs.ECS, screen *ebiten.Image) {
		w := ts * float32(cfg.World.Width)
		h := ts * float32(cfg.World.Height)
		vector.DrawFilledRect(screen, ox, oy, w, h, cfg.GridLineColor, false)

		for y := 0; y < cfg.World.Height; y++ {
			for x := 0; x < cfg.World.Width; x++ {
				view := cells.Cell(x, y)
				vector.DrawFilledRect(screen,
					ox+float32(x)*ts+1, oy+float32(y)*ts+1,
					ts-2, ts-2,
					tileColor(view.Tile), false)
			}
		}
	}
}

func drawTank(screen *ebiten.Image, x, y, heading float64, body color.Color) {
	size := cfg.Render.TankSize
	cx, cy := cellCenter(x, y)
	vector.DrawFilledRect(screen, cx-size/2, cy-size/2, size, size, body, false)

	dx, dy := gamemath.HeadingVector(heading)
	barrel := size * 0.8
	vector.StrokeLine(screen, cx, cy, cx+float32(dx)*barrel, cy+float32(dy)*barrel, 5, cfg.White, false)
}

// NewLocalTankRenderer draws the predicted tank and, when known, a ghost at the
// position the ledger last accepted.
func NewLocalTankRenderer(pose func() gamemath.Pose, ledger func() (gamemath.Pose, bool)) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		if ghost, ok := ledger(); ok {
			size := cfg.Render.TankSize
			cx, cy := cellCenter(ghost.X, ghost.Y)
			vector.StrokeRect(screen, cx-size/2, cy-size/2, size, size, 2, cfg.GhostColor, false)
		}
		p := pose()
		drawTank(screen, p.X, p.Y, p.Heading, cfg.BrightGreen)
	}
}

// DrawRemoteTanks draws the other players' tanks.
func DrawRemoteTanks(e *ecs.ECS, screen *ebiten.Image) {
	remoteTankQuery.Each(e.World, func(entry *donburi.Entry) {
		rt := components.RemoteTank.Get(entry)
		var body color.Color = rt.Color
		if !rt.Alive {
			body = cfg.GhostColor
		}
		drawTank(screen, rt.X, rt.Y, rt.Heading, body)
	})
}

// DrawProjectiles draws every live projectile.
func DrawProjectiles(e *ecs.ECS, screen *ebiten.Image) {
	projectileQuery.Each(e.World, func(entry *donburi.Entry) {
		p := components.Projectile.Get(entry)
		cx, cy := cellCenter(p.X, p.Y)
		vector.DrawFilledCircle(screen, cx, cy, cfg.Render.BulletRadius, cfg.BulletColor, true)
	})
}

func tooltipText(x, y int, view network.CellView) string {
	s := fmt.Sprintf("Tile (%d, %d): %s", x, y, view.Tile)
	if view.Occupied {
		s += ", tank"
	}
	return s
}

// NewTooltipRenderer shows the type of the tile under the mouse cursor.
func NewTooltipRenderer(cells CellSource) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		mx, my := ebiten.CursorPosition()
		x, y, ok := screenToCell(mx, my)
		if !ok {
			return
		}
		label := tooltipText(x, y, cells.Cell(x, y))
		w := float32(len(label)*7 + 12)
		vector.DrawFilledRect(screen, float32(mx+12), float32(my+8), w, 22, cfg.BlackOverlay, false)
		text.Draw(screen, label, fonts.Small.Get(), mx+18, my+24, cfg.White)
	}
}
