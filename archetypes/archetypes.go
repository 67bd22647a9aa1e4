package archetypes

import (
	"github.com/automoto/dojo-tanks/components"
	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Projectile = newArchetype(
		tags.Projectile,
		components.Projectile,
	)
	RemoteTank = newArchetype(
		tags.RemoteTank,
		components.RemoteTank,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
