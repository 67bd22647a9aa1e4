package systems

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localAccount = "0xabc"

type recordingSubmitter struct {
	actions []messages.Action
	err     error
}

func (r *recordingSubmitter) Submit(_ context.Context, a messages.Action) error {
	r.actions = append(r.actions, a)
	return r.err
}

// flakySubmitter fails the calls whose 1-based index is in fail.
type flakySubmitter struct {
	calls int
	fail  map[int]bool
}

func (f *flakySubmitter) Submit(context.Context, messages.Action) error {
	f.calls++
	if f.fail[f.calls] {
		return errors.New("rejected")
	}
	return nil
}

func fired(id uint32, player string) network.FiredEvent {
	return network.FiredEvent{
		EntityID:            fmt.Sprintf("0x%x", id),
		ProjectileFiredData: netcomponents.ProjectileFiredData{Player: player, ProjectileID: id},
	}
}

func newTestFireControl(sub network.Submitter) (*FireControl, *ProjectileSimulator) {
	sim := newTestSimulator()
	f := NewFireControl(sub, sim, 1, localAccount, time.Second)
	f.dispatch = func(fn func()) { fn() }
	return f, sim
}

func TestFireControlSubmitsShoot(t *testing.T) {
	sub := &recordingSubmitter{}
	f, _ := newTestFireControl(sub)

	f.Fire(gamemath.Pose{})
	require.Len(t, sub.actions, 1)
	assert.Equal(t, messages.Shoot{GameID: 1}, sub.actions[0])
	assert.Equal(t, 1, f.Pending())
}

func TestFireControlSpawnsConfirmedShot(t *testing.T) {
	f, sim := newTestFireControl(&recordingSubmitter{})
	origin := gamemath.Pose{X: 4, Y: 6, Heading: 90}

	f.Fire(origin)
	spawned := f.Update([]network.FiredEvent{fired(12, localAccount)})

	assert.Equal(t, []uint32{12}, spawned)
	require.Equal(t, 1, sim.Len())
	p := sim.Live()[0]
	assert.Equal(t, 4.0, p.X)
	assert.Equal(t, 90.0, p.Heading)
	id, ok := f.LastBulletID()
	assert.True(t, ok)
	assert.Equal(t, uint32(12), id)
	assert.Zero(t, f.Pending())
}

// A tank that moves between firing and confirmation launches each shot from
// where it stood when it fired.
func TestFireControlLaunchesFromFiringPose(t *testing.T) {
	f, sim := newTestFireControl(&recordingSubmitter{})

	f.Fire(gamemath.Pose{X: 2, Y: 3, Heading: 90})
	f.Fire(gamemath.Pose{X: 8, Y: 5, Heading: 180})
	require.Equal(t, 2, f.Pending())

	spawned := f.Update([]network.FiredEvent{fired(21, localAccount), fired(20, localAccount)})
	assert.Equal(t, []uint32{20, 21}, spawned)

	live := sim.Live()
	require.Len(t, live, 2)
	assert.Equal(t, 2.0, live[0].X)
	assert.Equal(t, 3.0, live[0].Y)
	assert.Equal(t, 90.0, live[0].Heading)
	assert.Equal(t, 8.0, live[1].X)
	assert.Equal(t, 180.0, live[1].Heading)
}

func TestFireControlFailedShotDropsItsOrigin(t *testing.T) {
	sub := &flakySubmitter{fail: map[int]bool{1: true}}
	f, sim := newTestFireControl(sub)

	f.Fire(gamemath.Pose{X: 1, Y: 1})
	f.Fire(gamemath.Pose{X: 9, Y: 9})

	spawned := f.Update([]network.FiredEvent{fired(30, localAccount)})
	assert.Equal(t, []uint32{30}, spawned)
	assert.Equal(t, 9.0, sim.Live()[0].X)
	assert.Zero(t, f.Pending())
}

func TestFireControlIgnoresHistoricalEvents(t *testing.T) {
	f, sim := newTestFireControl(&recordingSubmitter{})

	spawned := f.Update([]network.FiredEvent{fired(3, localAccount), fired(4, localAccount)})
	assert.Empty(t, spawned)
	assert.Zero(t, sim.Len())

	id, _ := f.LastBulletID()
	assert.Equal(t, uint32(4), id)
}

func TestFireControlIgnoresOtherPlayers(t *testing.T) {
	f, sim := newTestFireControl(&recordingSubmitter{})

	f.Fire(gamemath.Pose{})
	f.Update([]network.FiredEvent{fired(5, "0xdef")})
	assert.Zero(t, sim.Len())
	assert.Equal(t, 1, f.Pending())
}

func TestFireControlFailedShotReleasesPending(t *testing.T) {
	f, sim := newTestFireControl(&recordingSubmitter{err: errors.New("relay down")})

	f.Fire(gamemath.Pose{})
	f.Update(nil)
	assert.Zero(t, f.Pending())

	f.Update([]network.FiredEvent{fired(6, localAccount)})
	assert.Zero(t, sim.Len())
}

func TestFireControlOfflineDoesNothing(t *testing.T) {
	f, _ := newTestFireControl(nil)
	f.Fire(gamemath.Pose{X: 1, Y: 1})
	assert.Zero(t, f.Pending())
}
