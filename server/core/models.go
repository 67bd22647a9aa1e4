package core

import (
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var tankFilter = filter.Contains(tags.Tank, netcomponents.Tank)

// componentsFor lists the components an entity holding m is created with.
func componentsFor(m netcomponents.Model) []donburi.IComponentType {
	switch m.(type) {
	case netcomponents.GameData:
		return []donburi.IComponentType{netcomponents.Game}
	case netcomponents.MapTileData:
		return []donburi.IComponentType{tags.Tile, netcomponents.MapTile}
	case netcomponents.TankData:
		return []donburi.IComponentType{tags.Tank, netcomponents.Tank}
	case netcomponents.ProjectileFiredData:
		return []donburi.IComponentType{netcomponents.ProjectileFired}
	case netcomponents.TankMovedData:
		return []donburi.IComponentType{netcomponents.TankMoved}
	case netcomponents.GameSpawnedData:
		return []donburi.IComponentType{netcomponents.GameSpawned}
	}
	return nil
}

func setModel(entry *donburi.Entry, m netcomponents.Model) {
	switch v := m.(type) {
	case netcomponents.GameData:
		netcomponents.Game.SetValue(entry, v)
	case netcomponents.MapTileData:
		netcomponents.MapTile.SetValue(entry, v)
	case netcomponents.TankData:
		netcomponents.Tank.SetValue(entry, v)
	case netcomponents.ProjectileFiredData:
		netcomponents.ProjectileFired.SetValue(entry, v)
	case netcomponents.TankMovedData:
		netcomponents.TankMoved.SetValue(entry, v)
	case netcomponents.GameSpawnedData:
		netcomponents.GameSpawned.SetValue(entry, v)
	}
}

func modelOf(entry *donburi.Entry) (netcomponents.Model, bool) {
	switch {
	case entry.HasComponent(netcomponents.Game):
		return *netcomponents.Game.Get(entry), true
	case entry.HasComponent(netcomponents.MapTile):
		return *netcomponents.MapTile.Get(entry), true
	case entry.HasComponent(netcomponents.Tank):
		return *netcomponents.Tank.Get(entry), true
	case entry.HasComponent(netcomponents.ProjectileFired):
		return *netcomponents.ProjectileFired.Get(entry), true
	case entry.HasComponent(netcomponents.TankMoved):
		return *netcomponents.TankMoved.Get(entry), true
	case entry.HasComponent(netcomponents.GameSpawned):
		return *netcomponents.GameSpawned.Get(entry), true
	}
	return nil, false
}
