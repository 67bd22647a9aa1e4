package network

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/automoto/dojo-tanks/shared/protocol"
)

// CellView is the derived state of one grid cell.
type CellView struct {
	Tile     netconfig.TileType
	Occupied bool
}

// FiredEvent is a ProjectileFired model together with its ledger entity id.
type FiredEvent struct {
	EntityID string
	netcomponents.ProjectileFiredData
}

// RemoteSync folds ledger entity batches into keyed maps. Batches arrive on
// transport goroutines while the game reads on the Update goroutine, so every
// map is guarded by mu.
type RemoteSync struct {
	subscriber Subscriber
	gameID     uint32
	account    string

	mu    sync.RWMutex
	tanks map[string]netcomponents.TankData
	tiles map[string]netcomponents.MapTileData
	fired map[string]netcomponents.ProjectileFiredData
	// keys inserted into fired since the last DrainFired, in arrival order
	freshFired []string

	subs []*Subscription
	// bumped on every Start and teardown; handlers of older generations are ignored
	gen uint64
}

func NewRemoteSync(subscriber Subscriber, gameID uint32, account string) *RemoteSync {
	s := &RemoteSync{
		subscriber: subscriber,
		gameID:     gameID,
		account:    account,
	}
	s.reset()
	return s
}

func (s *RemoteSync) reset() {
	s.tanks = make(map[string]netcomponents.TankData)
	s.tiles = make(map[string]netcomponents.MapTileData)
	s.fired = make(map[string]netcomponents.ProjectileFiredData)
	s.freshFired = nil
}

// Queries returns the live queries Start opens.
func (s *RemoteSync) Queries() []messages.Query {
	return []messages.Query{
		{
			Namespace: netconfig.Namespace,
			Model:     netconfig.ModelMapTiles,
			Filters:   []messages.Eq{{Field: "game_id", Value: strconv.FormatUint(uint64(s.gameID), 10)}},
		},
		{
			Namespace: netconfig.Namespace,
			Model:     netconfig.ModelTank,
		},
		{
			Namespace: netconfig.Namespace,
			Model:     netconfig.ModelProjectileFired,
			Filters:   []messages.Eq{{Field: "player", Value: s.account}},
		},
	}
}

// Start opens the subscriptions. A running sync is stopped first so the maps
// are rebuilt from the fresh initial batches.
func (s *RemoteSync) Start(ctx context.Context) error {
	s.Stop()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	var subs []*Subscription
	for _, q := range s.Queries() {
		sub, err := s.subscriber.Subscribe(ctx, q, s.handler(gen))
		if err != nil {
			s.teardown(subs)
			return fmt.Errorf("subscribe %s: %w", q.Model, err)
		}
		subs = append(subs, sub)
	}

	s.mu.Lock()
	s.subs = subs
	s.mu.Unlock()
	return nil
}

// handler binds batches to the generation of the Start that opened them.
func (s *RemoteSync) handler(gen uint64) BatchHandler {
	return func(entities []messages.EntityUpdate, err error) {
		if err != nil {
			log.Printf("[remotesync] dropped batch: %v", err)
			return
		}
		s.fold(gen, decode(entities))
	}
}

// Stop cancels every subscription and clears the maps. Batches still in flight
// from the cancelled subscriptions are dropped.
func (s *RemoteSync) Stop() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	s.teardown(subs)
}

func (s *RemoteSync) teardown(subs []*Subscription) {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}

	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

type decodedModel struct {
	entityID string
	model    netcomponents.Model
}

// Apply folds one batch into the current maps. A stream error drops the whole
// batch and keeps the last good maps. Payloads that fail to decode are skipped
// one by one. Within a batch the last write to a key wins.
func (s *RemoteSync) Apply(entities []messages.EntityUpdate, err error) error {
	if err != nil {
		log.Printf("[remotesync] dropped batch: %v", err)
		return err
	}

	decoded := decode(entities)
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()
	s.fold(gen, decoded)
	return nil
}

func decode(entities []messages.EntityUpdate) []decodedModel {
	decoded := make([]decodedModel, 0, len(entities))
	for _, e := range entities {
		for _, p := range e.Models {
			m, err := protocol.DecodeModel(p)
			if err != nil {
				log.Printf("[remotesync] skipping %s in entity %s: %v", p.Name, e.EntityID, err)
				continue
			}
			decoded = append(decoded, decodedModel{entityID: e.EntityID, model: m})
		}
	}
	return decoded
}

// fold writes decoded models under the lock, unless gen has been superseded.
func (s *RemoteSync) fold(gen uint64, decoded []decodedModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Printf("[remotesync] dropped %d models from a closed subscription", len(decoded))
		return
	}
	for _, d := range decoded {
		switch m := d.model.(type) {
		case netcomponents.TankData:
			s.tanks[d.entityID] = m
		case netcomponents.MapTileData:
			s.tiles[m.Position.Key()] = m
		case netcomponents.ProjectileFiredData:
			if _, seen := s.fired[d.entityID]; !seen {
				s.freshFired = append(s.freshFired, d.entityID)
			}
			s.fired[d.entityID] = m
		}
	}
}

// Cell returns the tile type and occupancy of an integer cell.
func (s *RemoteSync) Cell(x, y int) CellView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := CellView{Tile: netconfig.TileEmpty}
	if tile, ok := s.tiles[netcomponents.CellKey(x, y)]; ok {
		view.Tile = tile.TileType
	}
	for _, t := range s.tanks {
		if int(t.Position.X) == x && int(t.Position.Y) == y {
			view.Occupied = true
			break
		}
	}
	return view
}

// DrainFired returns fired events first seen since the previous call.
func (s *RemoteSync) DrainFired() []FiredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.freshFired) == 0 {
		return nil
	}
	out := make([]FiredEvent, 0, len(s.freshFired))
	for _, key := range s.freshFired {
		out = append(out, FiredEvent{EntityID: key, ProjectileFiredData: s.fired[key]})
	}
	s.freshFired = nil
	return out
}

// OwnTank returns the tank owned by the local account.
func (s *RemoteSync) OwnTank() (netcomponents.TankData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tanks {
		if t.Player == s.account {
			return t, true
		}
	}
	return netcomponents.TankData{}, false
}

// Tanks returns a copy of the tank map keyed by entity id.
func (s *RemoteSync) Tanks() map[string]netcomponents.TankData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]netcomponents.TankData, len(s.tanks))
	for k, v := range s.tanks {
		out[k] = v
	}
	return out
}

// Tiles returns a copy of the tile map keyed by "{x}-{y}".
func (s *RemoteSync) Tiles() map[string]netcomponents.MapTileData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]netcomponents.MapTileData, len(s.tiles))
	for k, v := range s.tiles {
		out[k] = v
	}
	return out
}

// Fired returns every fired event seen, ordered by projectile id.
func (s *RemoteSync) Fired() []FiredEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FiredEvent, 0, len(s.fired))
	for k, v := range s.fired {
		out = append(out, FiredEvent{EntityID: k, ProjectileFiredData: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectileID < out[j].ProjectileID })
	return out
}

// Running reports whether subscriptions are open.
func (s *RemoteSync) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs) > 0
}
