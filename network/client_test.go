package network

import (
	"context"
	"testing"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRequiresConnection(t *testing.T) {
	c := NewClient("0xabc")

	err := c.Submit(context.Background(), messages.Spawn{})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.Subscribe(context.Background(), messages.Query{Model: "Tank"}, func([]messages.EntityUpdate, error) {})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.Fetch(context.Background(), messages.Query{Model: "Tank"})
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.Equal(t, StateDisconnected, c.State())
	assert.Equal(t, "0xabc", c.Account())
}

func TestClientRoutesSubscriptionBatches(t *testing.T) {
	c := NewClient("0xabc")
	var got []messages.EntityUpdate
	var gotErr error
	c.subs[4] = func(entities []messages.EntityUpdate, err error) {
		got = entities
		gotErr = err
	}

	c.routeBatch(messages.EntityBatch{SubscriptionID: 4, Entities: []messages.EntityUpdate{{EntityID: "0x1"}}})
	require.Len(t, got, 1)
	assert.NoError(t, gotErr)

	c.routeBatch(messages.EntityBatch{SubscriptionID: 4, Error: "indexer lagging"})
	assert.EqualError(t, gotErr, "indexer lagging")

	// unknown subscriptions are ignored
	c.routeBatch(messages.EntityBatch{SubscriptionID: 9})
}

func TestClientRoutesFetchBatch(t *testing.T) {
	c := NewClient("0xabc")
	ch := make(chan fetchOutcome, 1)
	c.fetches[7] = ch

	c.routeBatch(messages.EntityBatch{RequestID: 7, Entities: []messages.EntityUpdate{{EntityID: "0x2"}}})
	out := <-ch
	assert.Equal(t, "0x2", out.batch.Entities[0].EntityID)
	assert.Empty(t, c.fetches)
}

func TestClientFailPendingWakesWaiters(t *testing.T) {
	c := NewClient("0xabc")
	sub := make(chan submitOutcome, 1)
	fetch := make(chan fetchOutcome, 1)
	c.pending[1] = sub
	c.fetches[2] = fetch

	c.failPending(ErrNotConnected)

	assert.ErrorIs(t, (<-sub).err, ErrNotConnected)
	assert.ErrorIs(t, (<-fetch).err, ErrNotConnected)
	assert.Empty(t, c.pending)
}

func TestDrainChan(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	assert.Equal(t, []int{1, 2}, DrainChan(ch))
	assert.Nil(t, DrainChan(ch))
}

func TestClientStateString(t *testing.T) {
	assert.Equal(t, "joined", StateJoined.String())
	assert.Equal(t, "unknown", ClientState(42).String())
}
