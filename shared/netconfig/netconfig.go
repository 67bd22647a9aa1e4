// Package netconfig defines lightweight types shared between the client and the
// ledger relay. It must have zero dependencies on ebiten or any graphics library
// so the relay binary stays headless.
package netconfig

// Namespace is the ledger world namespace every model and action lives in.
const Namespace = "dojo_tanks"

// Model names as they appear in subscription queries and payloads.
const (
	ModelGame            = "Game"
	ModelMapTiles        = "MapTiles"
	ModelTank            = "Tank"
	ModelProjectileFired = "ProjectileFired"
	ModelTankMoved       = "TankMoved"
	ModelGameSpawned     = "GameSpawned"
)

// Key is an input symbol understood by the movement predictor.
type Key string

const (
	KeyW          Key = "w"
	KeyA          Key = "a"
	KeyS          Key = "s"
	KeyD          Key = "d"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// MovementKeys is the fixed symbol set the predictor reacts to.
var MovementKeys = []Key{KeyW, KeyA, KeyS, KeyD, KeyArrowLeft, KeyArrowRight}

// IsMovementKey reports whether k belongs to MovementKeys.
func IsMovementKey(k Key) bool {
	for _, m := range MovementKeys {
		if m == k {
			return true
		}
	}
	return false
}

// TileType classifies a map cell.
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileDestructible
)

var tileNames = map[TileType]string{
	TileEmpty:        "Empty",
	TileWall:         "Wall",
	TileDestructible: "Destructible",
}

func (t TileType) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTileType maps a tile kind name to a TileType. The ledger's historical
// misspelling "Destrucible" is accepted. Unknown names map to TileEmpty.
func ParseTileType(name string) TileType {
	switch name {
	case "Wall", "wall":
		return TileWall
	case "Destructible", "destructible", "Destrucible":
		return TileDestructible
	default:
		return TileEmpty
	}
}

// GameStatus is the lifecycle state of a game on the ledger.
type GameStatus int

const (
	GameWaiting GameStatus = iota
	GameInProgress
	GameCompleted
)

func (s GameStatus) String() string {
	switch s {
	case GameWaiting:
		return "Waiting"
	case GameInProgress:
		return "InProgress"
	case GameCompleted:
		return "Completed"
	}
	return "unknown"
}
