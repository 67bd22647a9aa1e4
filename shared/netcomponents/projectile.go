package netcomponents

import "github.com/yohamta/donburi"

// ProjectileFiredData is the event carrying the authoritative id of a shot.
type ProjectileFiredData struct {
	Player       string
	ProjectileID uint32
	Position     Vec2
}

func (ProjectileFiredData) Kind() Kind { return KindProjectileFired }
func (ProjectileFiredData) sealed()    {}

var ProjectileFired = donburi.NewComponentType[ProjectileFiredData]()
