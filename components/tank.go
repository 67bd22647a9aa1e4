package components

import (
	"image/color"

	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// RemoteTankData is the display state of another player's tank. The ledger
// moves tanks a whole cell at a time; TweenX and TweenY glide the drawn
// position toward the latest target.
type RemoteTankData struct {
	EntityID string
	Player   string
	Alive    bool
	Color    color.RGBA

	X, Y    float64
	Heading float64

	TargetX, TargetY float64
	TweenX, TweenY   *gween.Tween
}

var RemoteTank = donburi.NewComponentType[RemoteTankData]()
