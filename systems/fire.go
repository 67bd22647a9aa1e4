package systems

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/messages"
)

// FireControl turns fire key presses into Shoot actions and spawns a
// projectile for each shot the ledger confirms. The ledger assigns projectile
// ids, so a shot only becomes visible once its ProjectileFired event arrives.
type FireControl struct {
	submitter network.Submitter
	sim       *ProjectileSimulator
	gameID    uint32
	account   string
	timeout   time.Duration

	// shots submitted but not yet paired with an event, oldest first
	pending      []pendingShot
	nextShot     uint64
	lastBulletID uint32
	hasBullet    bool

	failures chan uint64
	dispatch func(func())
}

func NewFireControl(submitter network.Submitter, sim *ProjectileSimulator, gameID uint32, account string, timeout time.Duration) *FireControl {
	return &FireControl{
		submitter: submitter,
		sim:       sim,
		gameID:    gameID,
		account:   account,
		timeout:   timeout,
		failures:  make(chan uint64, 16),
		dispatch:  func(fn func()) { go fn() },
	}
}

type pendingShot struct {
	seq    uint64
	origin gamemath.Pose
}

// Fire submits a Shoot action without waiting for it. The projectile launches
// from origin, the tank pose at the moment of firing.
func (f *FireControl) Fire(origin gamemath.Pose) {
	if f.submitter == nil {
		return
	}
	f.nextShot++
	seq := f.nextShot
	f.pending = append(f.pending, pendingShot{seq: seq, origin: origin})

	action := messages.Shoot{GameID: f.gameID}
	f.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		if err := f.submitter.Submit(ctx, action); err != nil {
			log.Printf("[fire] shoot: %v", err)
			select {
			case f.failures <- seq:
			default:
			}
		}
	})
}

// Update pairs newly seen fired events with outstanding shots in firing order
// and spawns each at the pose its shot was fired from. Events with no
// outstanding shot, such as those already on the ledger when the subscription
// opened, only update the last bullet id. It returns the ids spawned.
func (f *FireControl) Update(events []network.FiredEvent) []uint32 {
	for _, seq := range network.DrainChan(f.failures) {
		f.release(seq)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ProjectileID < events[j].ProjectileID })

	var spawned []uint32
	for _, ev := range events {
		if ev.Player != f.account {
			continue
		}
		if !f.hasBullet || ev.ProjectileID > f.lastBulletID {
			f.lastBulletID = ev.ProjectileID
			f.hasBullet = true
		}
		if len(f.pending) == 0 {
			continue
		}
		shot := f.pending[0]
		f.pending = f.pending[1:]
		if f.sim.Spawn(ev.ProjectileID, shot.origin.X, shot.origin.Y, shot.origin.Heading) {
			spawned = append(spawned, ev.ProjectileID)
		}
	}
	return spawned
}

func (f *FireControl) release(seq uint64) {
	for i, shot := range f.pending {
		if shot.seq == seq {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}

// LastBulletID returns the highest projectile id seen for the local player.
func (f *FireControl) LastBulletID() (uint32, bool) {
	return f.lastBulletID, f.hasBullet
}

// Pending returns the number of shots awaiting confirmation.
func (f *FireControl) Pending() int {
	return len(f.pending)
}
