package components

import (
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/yohamta/donburi"
)

// ProjectileData is a live projectile. ID is the authoritative id carried by
// the ProjectileFired event that confirmed the shot.
type ProjectileData struct {
	ID uint32
	gamemath.ProjectileState
}

var Projectile = donburi.NewComponentType[ProjectileData]()
