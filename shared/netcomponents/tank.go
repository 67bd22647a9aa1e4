package netcomponents

import "github.com/yohamta/donburi"

// TankData mirrors the ledger Tank model, keyed by owning player.
type TankData struct {
	Player            string
	IsAlive           bool
	Position          Vec2
	Rotation          uint32
	Speed             uint32
	ShotsFired        uint32
	LastMoveTimestamp uint64
	Velocity          Vec2
}

func (TankData) Kind() Kind { return KindTank }
func (TankData) sealed()    {}

var Tank = donburi.NewComponentType[TankData]()

// TankMovedData is the event emitted when a tank position is accepted.
type TankMovedData struct {
	Player   string
	Position Vec2
	GameID   uint32
}

func (TankMovedData) Kind() Kind { return KindTankMoved }
func (TankMovedData) sealed()    {}

var TankMoved = donburi.NewComponentType[TankMovedData]()
