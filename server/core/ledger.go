package core

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"time"

	"github.com/automoto/dojo-tanks/shared/leveldata"
	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/automoto/dojo-tanks/shared/protocol"
	"github.com/yohamta/donburi"
)

// Reasons an action is declined.
var (
	ErrNoAccount         = errors.New("missing account")
	ErrWrongGame         = errors.New("wrong game")
	ErrNotSpawned        = errors.New("tank not spawned")
	ErrTankDestroyed     = errors.New("tank destroyed")
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrBlocked           = errors.New("position blocked")
	ErrBadDirection      = errors.New("invalid direction")
	ErrUnknownProjectile = errors.New("unknown projectile")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Record is one ledger entity with its current model.
type Record struct {
	ID    string
	Model netcomponents.Model
}

// Ledger is the relay's authoritative world for a single game. Every model
// lives on its own donburi entity, addressed by a stable hex entity id.
// It is not safe for concurrent use.
type Ledger struct {
	world  donburi.World
	arena  *leveldata.Arena
	space  *ArenaSpace
	gameID uint32

	byID  map[string]donburi.Entity
	ids   map[donburi.Entity]string
	dirty map[donburi.Entity]struct{}

	nextProjectile uint32
	block          uint64
	now            func() time.Time
}

// NewLedger seeds a ledger with the game and one MapTiles entity per cell.
func NewLedger(arena *leveldata.Arena, gameID uint32) *Ledger {
	l := &Ledger{
		world:  donburi.NewWorld(),
		arena:  arena,
		space:  NewArenaSpace(arena),
		gameID: gameID,
		byID:   make(map[string]donburi.Entity),
		ids:    make(map[donburi.Entity]string),
		dirty:  make(map[donburi.Entity]struct{}),
		now:    time.Now,
	}

	l.put(gameKey(gameID), netcomponents.GameData{GameID: gameID, Status: netconfig.GameWaiting})
	for y := 0; y < arena.Height; y++ {
		for x := 0; x < arena.Width; x++ {
			l.put(tileKey(gameID, x, y), netcomponents.MapTileData{
				GameID:   gameID,
				Position: netcomponents.Vec2{X: uint32(x), Y: uint32(y)},
				TileType: arena.At(x, y),
			})
		}
	}
	return l
}

func (l *Ledger) GameID() uint32 { return l.gameID }

// Block is the number of the last committed block.
func (l *Ledger) Block() uint64 { return l.block }

// EntityID derives the ledger entity id for a model key.
func EntityID(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("0x%016x", h.Sum64())
}

func gameKey(gameID uint32) string { return fmt.Sprintf("Game/%d", gameID) }

func tileKey(gameID uint32, x, y int) string {
	return fmt.Sprintf("MapTiles/%d/%s", gameID, netcomponents.CellKey(x, y))
}

func tankKey(account string) string { return "Tank/" + account }

func projectileKey(id uint32) string { return fmt.Sprintf("ProjectileFired/%d", id) }

// Apply executes one action against the ledger. A non-nil error declines the
// action and leaves the ledger unchanged.
func (l *Ledger) Apply(action messages.Action) error {
	account := action.Head().Account
	if account == "" {
		return ErrNoAccount
	}

	switch a := action.(type) {
	case messages.Spawn:
		return l.spawn(account)
	case messages.ValidatePosition:
		tank, err := l.liveTank(account, a.GameID)
		if err != nil {
			return err
		}
		return l.moveTo(tank, int(a.X), int(a.Y), a.Rotation)
	case messages.MoveTank:
		tank, err := l.liveTank(account, a.GameID)
		if err != nil {
			return err
		}
		dx, dy, ok := directionDelta(a.Direction)
		if !ok {
			return fmt.Errorf("%w: %d", ErrBadDirection, a.Direction)
		}
		return l.moveTo(tank, int(tank.Position.X)+dx, int(tank.Position.Y)+dy, a.Direction*90)
	case messages.RotateTank:
		tank, err := l.liveTank(account, a.GameID)
		if err != nil {
			return err
		}
		tank.Rotation = a.Rotation % 360
		l.put(tankKey(account), tank)
		return nil
	case messages.Shoot:
		tank, err := l.liveTank(account, a.GameID)
		if err != nil {
			return err
		}
		l.nextProjectile++
		tank.ShotsFired++
		l.put(tankKey(account), tank)
		l.put(projectileKey(l.nextProjectile), netcomponents.ProjectileFiredData{
			Player:       account,
			ProjectileID: l.nextProjectile,
			Position:     tank.Position,
		})
		return nil
	case messages.GotHit:
		tank, err := l.liveTank(account, a.GameID)
		if err != nil {
			return err
		}
		if _, ok := l.byID[EntityID(projectileKey(a.ProjectileID))]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownProjectile, a.ProjectileID)
		}
		tank.IsAlive = false
		l.put(tankKey(account), tank)
		l.refreshGame()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedAction, action.Entrypoint())
}

// spawn places the account's tank on the first free spawn point. Spawning
// with a live tank is accepted and changes nothing.
func (l *Ledger) spawn(account string) error {
	if tank, ok := l.Tank(account); ok && tank.IsAlive {
		return nil
	}

	x, y := l.freeSpawn()
	l.put(tankKey(account), netcomponents.TankData{
		Player:            account,
		IsAlive:           true,
		Position:          netcomponents.Vec2{X: uint32(x), Y: uint32(y)},
		LastMoveTimestamp: uint64(l.now().Unix()),
	})
	l.put("GameSpawned/"+account, netcomponents.GameSpawnedData{GameID: l.gameID, Player: account})
	l.refreshGame()
	log.Printf("[ledger] spawned %s at (%d, %d)", account, x, y)
	return nil
}

func (l *Ledger) freeSpawn() (int, int) {
	spawns := append([]leveldata.SpawnPoint(nil), l.arena.SpawnPoints...)
	sort.Slice(spawns, func(i, j int) bool { return spawns[i].Index < spawns[j].Index })

	occupied := make(map[string]bool)
	for _, t := range l.liveTanks() {
		occupied[t.Position.Key()] = true
	}
	for _, sp := range spawns {
		if !occupied[netcomponents.CellKey(sp.X, sp.Y)] {
			return sp.X, sp.Y
		}
	}
	if len(spawns) > 0 {
		return spawns[0].X, spawns[0].Y
	}
	return 1, 1
}

func (l *Ledger) moveTo(tank netcomponents.TankData, x, y int, rotation uint32) error {
	if !l.space.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	if l.space.Blocked(x, y) {
		return fmt.Errorf("%w: (%d, %d) is %s", ErrBlocked, x, y, l.arena.At(x, y))
	}
	tank.Position = netcomponents.Vec2{X: uint32(x), Y: uint32(y)}
	tank.Rotation = rotation % 360
	tank.LastMoveTimestamp = uint64(l.now().Unix())
	l.put(tankKey(tank.Player), tank)
	l.put("TankMoved/"+tank.Player, netcomponents.TankMovedData{
		Player:   tank.Player,
		Position: tank.Position,
		GameID:   l.gameID,
	})
	return nil
}

func (l *Ledger) liveTank(account string, gameID uint32) (netcomponents.TankData, error) {
	if gameID != l.gameID {
		return netcomponents.TankData{}, fmt.Errorf("%w: %d", ErrWrongGame, gameID)
	}
	tank, ok := l.Tank(account)
	if !ok {
		return netcomponents.TankData{}, ErrNotSpawned
	}
	if !tank.IsAlive {
		return netcomponents.TankData{}, ErrTankDestroyed
	}
	return tank, nil
}

func (l *Ledger) refreshGame() {
	live := uint32(len(l.liveTanks()))
	status := netconfig.GameWaiting
	if live > 0 {
		status = netconfig.GameInProgress
	}
	l.put(gameKey(l.gameID), netcomponents.GameData{
		GameID:      l.gameID,
		Status:      status,
		PlayerCount: live,
		LastSync:    l.block,
	})
}

// directionDelta maps a MoveTank direction to a cell offset.
func directionDelta(dir uint32) (int, int, bool) {
	switch dir {
	case 0:
		return 0, -1, true
	case 1:
		return 1, 0, true
	case 2:
		return 0, 1, true
	case 3:
		return -1, 0, true
	}
	return 0, 0, false
}

// Tank returns the account's tank.
func (l *Ledger) Tank(account string) (netcomponents.TankData, bool) {
	entity, ok := l.byID[EntityID(tankKey(account))]
	if !ok || !l.world.Valid(entity) {
		return netcomponents.TankData{}, false
	}
	return *netcomponents.Tank.Get(l.world.Entry(entity)), true
}

func (l *Ledger) liveTanks() []netcomponents.TankData {
	var out []netcomponents.TankData
	donburi.NewQuery(tankFilter).Each(l.world, func(entry *donburi.Entry) {
		if t := netcomponents.Tank.Get(entry); t.IsAlive {
			out = append(out, *t)
		}
	})
	return out
}

// CommitBlock closes the current block and returns the entities it changed.
func (l *Ledger) CommitBlock() (uint64, []Record) {
	l.block++
	changed := make([]Record, 0, len(l.dirty))
	for entity := range l.dirty {
		if r, ok := l.record(entity); ok {
			changed = append(changed, r)
		}
	}
	clear(l.dirty)
	sortRecords(changed)
	return l.block, changed
}

// Records returns every entity ordered by id.
func (l *Ledger) Records() []Record {
	out := make([]Record, 0, len(l.ids))
	for entity := range l.ids {
		if r, ok := l.record(entity); ok {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out
}

func (l *Ledger) record(entity donburi.Entity) (Record, bool) {
	if !l.world.Valid(entity) {
		return Record{}, false
	}
	m, ok := modelOf(l.world.Entry(entity))
	if !ok {
		return Record{}, false
	}
	return Record{ID: l.ids[entity], Model: m}, true
}

func sortRecords(rs []Record) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
}

// Select encodes the records matching q.
func Select(records []Record, q messages.Query) []messages.EntityUpdate {
	var out []messages.EntityUpdate
	for _, r := range records {
		if !protocol.Matches(q, r.Model) {
			continue
		}
		p, err := protocol.EncodeModel(r.Model)
		if err != nil {
			log.Printf("[ledger] skipping entity %s: %v", r.ID, err)
			continue
		}
		out = append(out, messages.EntityUpdate{EntityID: r.ID, Models: []messages.ModelPayload{p}})
	}
	return out
}

// put creates or overwrites the entity for key and marks it changed.
func (l *Ledger) put(key string, m netcomponents.Model) {
	id := EntityID(key)
	entity, ok := l.byID[id]
	if !ok {
		entity = l.world.Create(componentsFor(m)...)
		l.byID[id] = entity
		l.ids[entity] = id
	}
	setModel(l.world.Entry(entity), m)
	l.dirty[entity] = struct{}{}
}
