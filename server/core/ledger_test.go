package core

import (
	"testing"
	"time"

	"github.com/automoto/dojo-tanks/shared/leveldata"
	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/automoto/dojo-tanks/shared/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0xa11ce"
	bob   = "0xb0b"
)

// testArena is a 4x3 grid:
//
//	. . . .
//	. . # D
//	. . . .
func testArena() *leveldata.Arena {
	a := &leveldata.Arena{
		Width:  4,
		Height: 3,
		Tiles:  make([]netconfig.TileType, 12),
		SpawnPoints: []leveldata.SpawnPoint{
			{X: 3, Y: 2, Index: 1},
			{X: 0, Y: 0, Index: 0},
		},
	}
	a.Tiles[1*4+2] = netconfig.TileWall
	a.Tiles[1*4+3] = netconfig.TileDestructible
	return a
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(testArena(), 1)
	l.now = func() time.Time { return time.Unix(1700000000, 0) }
	l.CommitBlock()
	return l
}

func as(account string, a messages.Action) messages.Action {
	return a.WithHeader(messages.ActionHeader{Account: account})
}

func TestLedgerSeedsTiles(t *testing.T) {
	l := NewLedger(testArena(), 1)

	tiles := Select(l.Records(), messages.Query{Model: netconfig.ModelMapTiles})
	assert.Len(t, tiles, 12)

	block, changed := l.CommitBlock()
	assert.Equal(t, uint64(1), block)
	assert.Len(t, changed, 13) // tiles plus the game
}

func TestLedgerSpawnUsesFreeSpawnPointsInOrder(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	require.NoError(t, l.Apply(as(bob, messages.Spawn{})))

	a, ok := l.Tank(alice)
	require.True(t, ok)
	assert.True(t, a.IsAlive)
	assert.Equal(t, netcomponents.Vec2{X: 0, Y: 0}, a.Position)

	b, _ := l.Tank(bob)
	assert.Equal(t, netcomponents.Vec2{X: 3, Y: 2}, b.Position)
}

func TestLedgerSpawnIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	require.NoError(t, l.Apply(as(alice, messages.ValidatePosition{GameID: 1, X: 1, Y: 0})))

	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))

	tank, _ := l.Tank(alice)
	assert.Equal(t, netcomponents.Vec2{X: 1, Y: 0}, tank.Position)
}

func TestLedgerRejectsMissingAccount(t *testing.T) {
	l := newTestLedger(t)
	assert.ErrorIs(t, l.Apply(messages.Spawn{}), ErrNoAccount)
}

func TestLedgerValidatePosition(t *testing.T) {
	tests := []struct {
		name    string
		spawn   bool
		action  messages.ValidatePosition
		wantErr error
	}{
		{"accepts empty cell", true, messages.ValidatePosition{GameID: 1, X: 1, Y: 2, Rotation: 450}, nil},
		{"rejects before spawn", false, messages.ValidatePosition{GameID: 1, X: 1, Y: 1}, ErrNotSpawned},
		{"rejects wall", true, messages.ValidatePosition{GameID: 1, X: 2, Y: 1}, ErrBlocked},
		{"rejects destructible", true, messages.ValidatePosition{GameID: 1, X: 3, Y: 1}, ErrBlocked},
		{"rejects out of bounds", true, messages.ValidatePosition{GameID: 1, X: 4, Y: 0}, ErrOutOfBounds},
		{"rejects other game", true, messages.ValidatePosition{GameID: 2, X: 1, Y: 1}, ErrWrongGame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			if tt.spawn {
				require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
			}

			err := l.Apply(as(alice, tt.action))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tank, _ := l.Tank(alice)
			assert.Equal(t, netcomponents.Vec2{X: tt.action.X, Y: tt.action.Y}, tank.Position)
			assert.Equal(t, tt.action.Rotation%360, tank.Rotation)
			assert.Equal(t, uint64(1700000000), tank.LastMoveTimestamp)
		})
	}
}

func TestLedgerRejectedActionChangesNothing(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	l.CommitBlock()

	assert.Error(t, l.Apply(as(alice, messages.ValidatePosition{GameID: 1, X: 2, Y: 1})))

	_, changed := l.CommitBlock()
	assert.Empty(t, changed)
}

func TestLedgerShootAssignsSequentialIDs(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	require.NoError(t, l.Apply(as(bob, messages.Spawn{})))

	require.NoError(t, l.Apply(as(alice, messages.Shoot{GameID: 1})))
	require.NoError(t, l.Apply(as(bob, messages.Shoot{GameID: 1})))
	require.NoError(t, l.Apply(as(alice, messages.Shoot{GameID: 1})))

	fired := Select(l.Records(), messages.Query{
		Model:   netconfig.ModelProjectileFired,
		Filters: []messages.Eq{{Field: "player", Value: alice}},
	})
	require.Len(t, fired, 2)

	var ids []uint32
	for _, e := range fired {
		m, err := protocol.DecodeModel(e.Models[0])
		require.NoError(t, err)
		ids = append(ids, m.(netcomponents.ProjectileFiredData).ProjectileID)
	}
	assert.ElementsMatch(t, []uint32{1, 3}, ids)

	tank, _ := l.Tank(alice)
	assert.Equal(t, uint32(2), tank.ShotsFired)
}

func TestLedgerMoveTank(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))

	require.NoError(t, l.Apply(as(alice, messages.MoveTank{GameID: 1, Direction: 1})))
	require.NoError(t, l.Apply(as(alice, messages.MoveTank{GameID: 1, Direction: 2})))
	assert.ErrorIs(t, l.Apply(as(alice, messages.MoveTank{GameID: 1, Direction: 1})), ErrBlocked)
	assert.ErrorIs(t, l.Apply(as(alice, messages.MoveTank{GameID: 1, Direction: 7})), ErrBadDirection)

	tank, _ := l.Tank(alice)
	assert.Equal(t, netcomponents.Vec2{X: 1, Y: 1}, tank.Position)
	assert.Equal(t, uint32(180), tank.Rotation)
}

func TestLedgerMoveTankOffTheEdge(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))

	assert.ErrorIs(t, l.Apply(as(alice, messages.MoveTank{GameID: 1, Direction: 3})), ErrOutOfBounds)
}

func TestLedgerRotateTank(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))

	require.NoError(t, l.Apply(as(alice, messages.RotateTank{GameID: 1, Rotation: 370})))

	tank, _ := l.Tank(alice)
	assert.Equal(t, uint32(10), tank.Rotation)
}

func TestLedgerGotHitDestroysTank(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	require.NoError(t, l.Apply(as(bob, messages.Spawn{})))

	assert.ErrorIs(t, l.Apply(as(alice, messages.GotHit{GameID: 1, ProjectileID: 9})), ErrUnknownProjectile)

	require.NoError(t, l.Apply(as(bob, messages.Shoot{GameID: 1})))
	require.NoError(t, l.Apply(as(alice, messages.GotHit{GameID: 1, ProjectileID: 1})))

	tank, _ := l.Tank(alice)
	assert.False(t, tank.IsAlive)
	assert.ErrorIs(t, l.Apply(as(alice, messages.Shoot{GameID: 1})), ErrTankDestroyed)

	// a destroyed tank respawns
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))
	tank, _ = l.Tank(alice)
	assert.True(t, tank.IsAlive)
}

func TestLedgerCommitBlockReturnsChangedEntities(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Apply(as(alice, messages.Spawn{})))

	block, changed := l.CommitBlock()
	assert.Equal(t, uint64(2), block)

	names := map[string]bool{}
	for _, r := range changed {
		names[protocol.ModelName(r.Model)] = true
	}
	assert.Equal(t, map[string]bool{
		netconfig.ModelTank:        true,
		netconfig.ModelGameSpawned: true,
		netconfig.ModelGame:        true,
	}, names)

	_, changed = l.CommitBlock()
	assert.Empty(t, changed)
}

func TestEntityIDIsStable(t *testing.T) {
	assert.Equal(t, EntityID("Tank/"+alice), EntityID("Tank/"+alice))
	assert.NotEqual(t, EntityID("Tank/"+alice), EntityID("Tank/"+bob))
	assert.Len(t, EntityID("x"), 18)
}

func TestArenaSpaceBlocked(t *testing.T) {
	s := NewArenaSpace(testArena())

	assert.True(t, s.Blocked(2, 1))
	assert.True(t, s.Blocked(3, 1))
	assert.False(t, s.Blocked(1, 1))
	assert.False(t, s.Blocked(2, 0))
	assert.False(t, s.InBounds(-1, 0))
	assert.False(t, s.InBounds(0, 3))
}
