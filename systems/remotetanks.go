package systems

import (
	"hash/fnv"
	"image/color"
	"time"

	"github.com/automoto/dojo-tanks/archetypes"
	"github.com/automoto/dojo-tanks/components"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/tags"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var remoteTankQuery = donburi.NewQuery(filter.Contains(tags.RemoteTank, components.RemoteTank))

// TankSource supplies the latest ledger tanks keyed by entity id.
type TankSource interface {
	Tanks() map[string]netcomponents.TankData
}

// RemoteTanks mirrors other players' ledger tanks into display entities.
type RemoteTanks struct {
	source   TankSource
	account  string
	duration float32 // tween length in seconds
	dt       float32 // seconds per update
	entities map[string]donburi.Entity
}

func NewRemoteTanks(source TankSource, account string, tween time.Duration) *RemoteTanks {
	return &RemoteTanks{
		source:   source,
		account:  account,
		duration: float32(tween.Seconds()),
		dt:       1.0 / 60,
		entities: make(map[string]donburi.Entity),
	}
}

// Update is an ECS system.
func (r *RemoteTanks) Update(e *ecs.ECS) {
	tanks := r.source.Tanks()

	for id, t := range tanks {
		if t.Player == r.account {
			continue
		}
		entry := r.entry(e, id, t)
		rt := components.RemoteTank.Get(entry)
		rt.Alive = t.IsAlive
		rt.Heading = float64(t.Rotation)

		tx, ty := float64(t.Position.X), float64(t.Position.Y)
		if tx != rt.TargetX || ty != rt.TargetY {
			rt.TweenX = gween.New(float32(rt.X), float32(tx), r.duration, ease.OutQuad)
			rt.TweenY = gween.New(float32(rt.Y), float32(ty), r.duration, ease.OutQuad)
			rt.TargetX, rt.TargetY = tx, ty
		}
		advanceTween(rt, r.dt)
	}

	for id, entity := range r.entities {
		t, ok := tanks[id]
		if ok && t.Player != r.account {
			continue
		}
		if e.World.Valid(entity) {
			e.World.Remove(entity)
		}
		delete(r.entities, id)
	}
}

func (r *RemoteTanks) entry(e *ecs.ECS, id string, t netcomponents.TankData) *donburi.Entry {
	if entity, ok := r.entities[id]; ok && e.World.Valid(entity) {
		return e.World.Entry(entity)
	}
	entry := archetypes.RemoteTank.Spawn(e)
	x, y := float64(t.Position.X), float64(t.Position.Y)
	components.RemoteTank.SetValue(entry, components.RemoteTankData{
		EntityID: id,
		Player:   t.Player,
		Alive:    t.IsAlive,
		Color:    PlayerColor(t.Player),
		X:        x,
		Y:        y,
		Heading:  float64(t.Rotation),
		TargetX:  x,
		TargetY:  y,
	})
	r.entities[id] = entry.Entity()
	return entry
}

func advanceTween(rt *components.RemoteTankData, dt float32) {
	if rt.TweenX != nil {
		x, done := rt.TweenX.Update(dt)
		rt.X = float64(x)
		if done {
			rt.X = rt.TargetX
			rt.TweenX = nil
		}
	}
	if rt.TweenY != nil {
		y, done := rt.TweenY.Update(dt)
		rt.Y = float64(y)
		if done {
			rt.Y = rt.TargetY
			rt.TweenY = nil
		}
	}
}

// Len returns the number of displayed remote tanks.
func (r *RemoteTanks) Len() int {
	return len(r.entities)
}

// PlayerColor derives a stable colour from a player address.
func PlayerColor(player string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(player))
	hue := float64(h.Sum32() % 360)
	c := colorful.Hsv(hue, 0.65, 0.9)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
