package systems

import (
	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// KeyReceiver takes movement key edges.
type KeyReceiver interface {
	KeyDown(k netconfig.Key)
	KeyUp(k netconfig.Key)
}

// keyEdges reports press and release edges for a physical key this frame.
type keyEdges struct {
	pressed  func(ebiten.Key) bool
	released func(ebiten.Key) bool
}

var ebitenEdges = keyEdges{
	pressed:  inpututil.IsKeyJustPressed,
	released: inpututil.IsKeyJustReleased,
}

// NewTankInputSystem returns an ECS system that forwards keyboard edges to the
// predictor and fires on the fire keys.
func NewTankInputSystem(tank KeyReceiver, fire func()) func(*ecs.ECS) {
	return func(_ *ecs.ECS) {
		applyKeyEdges(ebitenEdges, cfg.Input, tank, fire)
	}
}

func applyKeyEdges(edges keyEdges, input cfg.InputConfig, tank KeyReceiver, fire func()) {
	for key, sym := range input.Movement {
		if edges.pressed(key) {
			tank.KeyDown(sym)
		}
		if edges.released(key) {
			tank.KeyUp(sym)
		}
	}
	if fire == nil {
		return
	}
	for _, key := range input.Fire {
		if edges.pressed(key) {
			fire()
			return
		}
	}
}
