package systems

import (
	"sort"

	"github.com/automoto/dojo-tanks/archetypes"
	"github.com/automoto/dojo-tanks/components"
	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var projectileQuery = donburi.NewQuery(filter.Contains(tags.Projectile, components.Projectile))

// ProjectileSimulator moves projectiles in straight lines, reflects each one
// off the world boundary once and retires it on the next contact.
type ProjectileSimulator struct {
	ecs     *ecs.ECS
	speed   float64
	maxX    float64
	maxY    float64
	retired map[uint32]struct{}

	frames *network.FrameScheduler
	frame  network.FrameHandle
}

func NewProjectileSimulator(e *ecs.ECS, speed, maxX, maxY float64) *ProjectileSimulator {
	return &ProjectileSimulator{
		ecs:     e,
		speed:   speed,
		maxX:    maxX,
		maxY:    maxY,
		retired: make(map[uint32]struct{}),
	}
}

// Spawn adds a live projectile. It reports false when id is already live or
// has retired.
func (s *ProjectileSimulator) Spawn(id uint32, x, y, heading float64) bool {
	if _, gone := s.retired[id]; gone {
		return false
	}
	if _, live := s.find(id); live {
		return false
	}
	x, y = gamemath.ClampToWorld(x, y, s.maxX, s.maxY)
	entry := archetypes.Projectile.Spawn(s.ecs)
	components.Projectile.SetValue(entry, components.ProjectileData{
		ID: id,
		ProjectileState: gamemath.ProjectileState{
			X:       x,
			Y:       y,
			Heading: gamemath.NormalizeHeading(heading),
		},
	})
	return true
}

func (s *ProjectileSimulator) find(id uint32) (*donburi.Entry, bool) {
	var found *donburi.Entry
	projectileQuery.Each(s.ecs.World, func(entry *donburi.Entry) {
		if found == nil && components.Projectile.Get(entry).ID == id {
			found = entry
		}
	})
	return found, found != nil
}

// Tick advances every live projectile once and removes the retired ones after
// the pass. It returns the retired ids.
func (s *ProjectileSimulator) Tick() []uint32 {
	var done []*donburi.Entry
	var ids []uint32
	projectileQuery.Each(s.ecs.World, func(entry *donburi.Entry) {
		p := components.Projectile.Get(entry)
		next, retire := gamemath.StepProjectile(p.ProjectileState, s.speed, s.maxX, s.maxY)
		p.ProjectileState = next
		if retire {
			done = append(done, entry)
			ids = append(ids, p.ID)
		}
	})
	for i, entry := range done {
		s.retired[ids[i]] = struct{}{}
		entry.Remove()
	}
	return ids
}

// Live returns a snapshot of the live projectiles ordered by id.
func (s *ProjectileSimulator) Live() []components.ProjectileData {
	var out []components.ProjectileData
	projectileQuery.Each(s.ecs.World, func(entry *donburi.Entry) {
		out = append(out, *components.Projectile.Get(entry))
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *ProjectileSimulator) Len() int {
	return projectileQuery.Count(s.ecs.World)
}

// Start runs Tick once per frame on frames until Stop.
func (s *ProjectileSimulator) Start(frames *network.FrameScheduler) {
	s.Stop()
	s.frames = frames
	s.frame = frames.Request(s.onFrame)
}

func (s *ProjectileSimulator) onFrame() {
	s.frame = 0
	s.Tick()
	if s.frames != nil {
		s.frame = s.frames.Request(s.onFrame)
	}
}

// Stop cancels the frame loop.
func (s *ProjectileSimulator) Stop() {
	if s.frames != nil && s.frame != 0 {
		s.frames.Cancel(s.frame)
	}
	s.frame = 0
	s.frames = nil
}

// Running reports whether the frame loop is active.
func (s *ProjectileSimulator) Running() bool {
	return s.frame != 0
}
