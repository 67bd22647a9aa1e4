package netcomponents

import (
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/yohamta/donburi"
)

type GameData struct {
	GameID      uint32
	Status      netconfig.GameStatus
	PlayerCount uint32
	LastSync    uint64
}

func (GameData) Kind() Kind { return KindGame }
func (GameData) sealed()    {}

var Game = donburi.NewComponentType[GameData]()

// GameSpawnedData is emitted when a player joins a game.
type GameSpawnedData struct {
	GameID uint32
	Player string
}

func (GameSpawnedData) Kind() Kind { return KindGameSpawned }
func (GameSpawnedData) sealed()    {}

var GameSpawned = donburi.NewComponentType[GameSpawnedData]()
