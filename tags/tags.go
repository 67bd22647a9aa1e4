package tags

import "github.com/yohamta/donburi"

var (
	Projectile = donburi.NewTag().SetName("Projectile")
	RemoteTank = donburi.NewTag().SetName("RemoteTank")
	Tile       = donburi.NewTag().SetName("Tile")
	Tank       = donburi.NewTag().SetName("Tank")
)

// Resolv tags for the relay's arena collision space
const (
	ResolvWall         = "wall"
	ResolvDestructible = "destructible"
)
