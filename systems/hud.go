package systems

import (
	"fmt"

	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/fonts"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/yohamta/donburi/ecs"
)

const (
	hudMargin     = 12
	hudLineHeight = 18
)

// HUDInfo is everything the battle HUD shows.
type HUDInfo struct {
	Account    string
	Connection string
	Predicted  gamemath.Pose
	Ledger     gamemath.Pose
	HasLedger  bool
	LastBullet uint32
	HasBullet  bool
	Live       int
	Pending    int
}

func hudLines(info HUDInfo) []string {
	ledger := "Tank on ledger: not spawned"
	if info.HasLedger {
		ledger = fmt.Sprintf("Tank on ledger: (%d, %d) %d°",
			int(info.Ledger.X), int(info.Ledger.Y), int(info.Ledger.Heading))
	}
	bullet := "Last bullet ID: none"
	if info.HasBullet {
		bullet = fmt.Sprintf("Last bullet ID: %d", info.LastBullet)
	}
	return []string{
		fmt.Sprintf("Player %s  relay %s", shortAccount(info.Account), info.Connection),
		ledger,
		fmt.Sprintf("Predicted: (%.2f, %.2f) %.0f°", info.Predicted.X, info.Predicted.Y, info.Predicted.Heading),
		fmt.Sprintf("%s  in flight %d  awaiting %d", bullet, info.Live, info.Pending),
	}
}

func shortAccount(a string) string {
	if len(a) <= 10 {
		return a
	}
	return a[:6] + "…" + a[len(a)-4:]
}

// NewHUDRenderer draws the status lines above the board.
func NewHUDRenderer(info func() HUDInfo) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		face := fonts.Small.Get()
		for i, line := range hudLines(info()) {
			text.Draw(screen, line, face, hudMargin, hudMargin+hudLineHeight*(i+1), cfg.LightGreen)
		}
	}
}
