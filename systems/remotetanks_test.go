package systems

import (
	"testing"
	"time"

	"github.com/automoto/dojo-tanks/components"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

type staticTanks map[string]netcomponents.TankData

func (s staticTanks) Tanks() map[string]netcomponents.TankData { return s }

func remoteTanks(e *ecs.ECS) []components.RemoteTankData {
	var out []components.RemoteTankData
	remoteTankQuery.Each(e.World, func(entry *donburi.Entry) {
		out = append(out, *components.RemoteTank.Get(entry))
	})
	return out
}

func TestRemoteTanksSkipOwnTank(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	src := staticTanks{
		"0x1": {Player: localAccount, Position: netcomponents.Vec2{X: 1, Y: 1}},
		"0x2": {Player: "0xdef", IsAlive: true, Position: netcomponents.Vec2{X: 4, Y: 6}, Rotation: 90},
	}
	r := NewRemoteTanks(src, localAccount, 400*time.Millisecond)

	r.Update(e)

	tanks := remoteTanks(e)
	require.Len(t, tanks, 1)
	assert.Equal(t, "0xdef", tanks[0].Player)
	assert.Equal(t, 4.0, tanks[0].X)
	assert.Equal(t, 6.0, tanks[0].Y)
	assert.Equal(t, 90.0, tanks[0].Heading)
	assert.Equal(t, PlayerColor("0xdef"), tanks[0].Color)
}

func TestRemoteTanksGlideToNewCell(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	src := staticTanks{"0x2": {Player: "0xdef", Position: netcomponents.Vec2{X: 4, Y: 6}}}
	r := NewRemoteTanks(src, localAccount, 100*time.Millisecond)
	r.Update(e)

	src["0x2"] = netcomponents.TankData{Player: "0xdef", Position: netcomponents.Vec2{X: 5, Y: 6}}
	r.Update(e)
	mid := remoteTanks(e)[0]
	assert.Greater(t, mid.X, 4.0)
	assert.Less(t, mid.X, 5.0)

	for i := 0; i < 10; i++ {
		r.Update(e)
	}
	done := remoteTanks(e)[0]
	assert.Equal(t, 5.0, done.X)
	assert.Nil(t, done.TweenX)
}

func TestRemoteTanksRemovesVanished(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	src := staticTanks{"0x2": {Player: "0xdef"}}
	r := NewRemoteTanks(src, localAccount, time.Second)
	r.Update(e)
	require.Equal(t, 1, r.Len())

	delete(src, "0x2")
	r.Update(e)
	assert.Zero(t, r.Len())
	assert.Empty(t, remoteTanks(e))
}

func TestPlayerColorIsStable(t *testing.T) {
	a := PlayerColor("0xabc")
	assert.Equal(t, a, PlayerColor("0xabc"))
	assert.Equal(t, uint8(255), a.A)
}
