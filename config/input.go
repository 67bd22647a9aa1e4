package config

import (
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
)

// InputConfig maps physical keys to predictor symbols.
type InputConfig struct {
	Movement map[ebiten.Key]netconfig.Key
	Fire     []ebiten.Key
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Movement: map[ebiten.Key]netconfig.Key{
			ebiten.KeyW:          netconfig.KeyW,
			ebiten.KeyA:          netconfig.KeyA,
			ebiten.KeyS:          netconfig.KeyS,
			ebiten.KeyD:          netconfig.KeyD,
			ebiten.KeyArrowLeft:  netconfig.KeyArrowLeft,
			ebiten.KeyArrowRight: netconfig.KeyArrowRight,
		},
		Fire: []ebiten.Key{ebiten.KeySpace},
	}
}
