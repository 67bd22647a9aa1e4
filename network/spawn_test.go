package network

import (
	"context"
	"testing"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnTankFetchesSpawnedTank(t *testing.T) {
	submitter := &fakeSubmitter{}
	sub := newFakeSubscriber()
	sub.fetched = []messages.EntityUpdate{
		{EntityID: "0x9", Models: []messages.ModelPayload{{Name: "Tank", Data: nil}}},
		entity(t, "0x1", netcomponents.TankData{Player: testAccount, IsAlive: true, Position: netcomponents.Vec2{X: 1, Y: 1}, Rotation: 90}),
	}

	tank, err := SpawnTank(context.Background(), submitter, sub, testAccount, 1)
	require.NoError(t, err)
	assert.Equal(t, netcomponents.Vec2{X: 1, Y: 1}, tank.Position)
	require.Len(t, submitter.actions, 1)
	assert.Equal(t, messages.EntrypointSpawn, submitter.actions[0].Entrypoint())
}

func TestSpawnTankRejected(t *testing.T) {
	submitter := &fakeSubmitter{err: ErrActionRejected}

	_, err := SpawnTank(context.Background(), submitter, newFakeSubscriber(), testAccount, 1)
	assert.ErrorIs(t, err, ErrActionRejected)
}

func TestSpawnTankMissingAfterSpawn(t *testing.T) {
	_, err := SpawnTank(context.Background(), &fakeSubmitter{}, newFakeSubscriber(), testAccount, 1)
	assert.Error(t, err)
}

func TestOwnTankQuery(t *testing.T) {
	q := OwnTankQuery(testAccount)
	assert.Equal(t, "Tank", q.Model)
	assert.Equal(t, []messages.Eq{{Field: "player", Value: testAccount}}, q.Filters)
}
