package network

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
)

const resultBufferSize = 16

// PredictorConfig tunes a Predictor. Zero Policy means OptimisticPolicy; zero
// Now means time.Now.
type PredictorConfig struct {
	GameID             uint32
	MaxX, MaxY         float64
	MoveStep           float64
	RotationStep       float64
	ValidationInterval time.Duration
	SubmitTimeout      time.Duration
	Policy             ReconcilePolicy
	Now                func() time.Time
}

// Predictor owns the local tank pose. It applies held keys once per animation
// frame, clamps to the world and periodically asks the ledger to validate the
// position without ever waiting for the answer.
//
// All methods must be called from the goroutine that runs the FrameScheduler.
type Predictor struct {
	cfg       PredictorConfig
	submitter Submitter
	frames    *FrameScheduler

	pose    gamemath.Pose
	touched bool // true after the first local input moved or turned the tank

	remote    gamemath.Pose
	hasRemote bool

	lastAccepted gamemath.Pose
	hasAccepted  bool

	held  map[netconfig.Key]bool
	frame FrameHandle
	timer ValidationTimer

	results  chan ValidationResult
	dispatch func(func())
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
}

// NewPredictor creates a predictor starting at start. submitter may be nil for
// offline play, in which case nothing is submitted.
func NewPredictor(cfg PredictorConfig, submitter Submitter, frames *FrameScheduler, start gamemath.Pose) *Predictor {
	if cfg.Policy == nil {
		cfg.Policy = OptimisticPolicy{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Predictor{
		cfg:       cfg,
		submitter: submitter,
		frames:    frames,
		held:      make(map[netconfig.Key]bool),
		timer:     NewValidationTimer(cfg.ValidationInterval, cfg.Now()),
		results:   make(chan ValidationResult, resultBufferSize),
		dispatch:  func(fn func()) { go fn() },
		ctx:       ctx,
		cancel:    cancel,
	}
	p.pose = p.clamp(start)
	return p
}

// Pose returns the locally predicted pose.
func (p *Predictor) Pose() gamemath.Pose {
	return p.pose
}

// DisplayPose is what the renderer should draw: the ledger's pose until the
// first local input, the prediction afterwards.
func (p *Predictor) DisplayPose() gamemath.Pose {
	if !p.touched && p.hasRemote {
		return p.remote
	}
	return p.pose
}

// Touched reports whether local input has moved or turned the tank.
func (p *Predictor) Touched() bool {
	return p.touched
}

// Active reports whether the frame loop is running.
func (p *Predictor) Active() bool {
	return p.frame != 0
}

// OfferRemote hands the predictor the ledger's view of the local tank. It never
// overwrites a pose the player has already steered; before the first input the
// prediction starts from it, which is invisible since that is what is drawn.
func (p *Predictor) OfferRemote(tank netcomponents.TankData) {
	p.remote = p.clamp(gamemath.Pose{
		X:       float64(tank.Position.X),
		Y:       float64(tank.Position.Y),
		Heading: float64(tank.Rotation),
	})
	p.hasRemote = true
	if !p.hasAccepted {
		p.lastAccepted = p.remote
	}
	if !p.touched {
		p.pose = p.remote
	}
}

// KeyDown registers a held key and starts the frame loop on the first one.
func (p *Predictor) KeyDown(k netconfig.Key) {
	if p.closed || !netconfig.IsMovementKey(k) {
		return
	}
	p.held[k] = true
	if p.frame == 0 {
		p.frame = p.frames.Request(p.onFrame)
	}
}

// KeyUp releases a key and stops the frame loop once nothing is held.
func (p *Predictor) KeyUp(k netconfig.Key) {
	delete(p.held, k)
	if len(p.held) == 0 && p.frame != 0 {
		p.frames.Cancel(p.frame)
		p.frame = 0
	}
}

func (p *Predictor) onFrame() {
	p.frame = 0
	p.Tick()
	if len(p.held) > 0 && !p.closed {
		p.frame = p.frames.Request(p.onFrame)
	}
}

// Tick applies one step of held input and decides whether to submit.
func (p *Predictor) Tick() {
	p.Reconcile()

	var dx, dy, dh float64
	step := p.cfg.MoveStep
	if p.held[netconfig.KeyW] {
		dy -= step
	}
	if p.held[netconfig.KeyS] {
		dy += step
	}
	if p.held[netconfig.KeyA] {
		dx -= step
	}
	if p.held[netconfig.KeyD] {
		dx += step
	}
	if p.held[netconfig.KeyArrowRight] {
		dh += p.cfg.RotationStep
	}
	if p.held[netconfig.KeyArrowLeft] {
		dh -= p.cfg.RotationStep
	}

	next := p.clamp(gamemath.Pose{X: p.pose.X + dx, Y: p.pose.Y + dy, Heading: p.pose.Heading + dh})
	positionChanged := next.X != p.pose.X || next.Y != p.pose.Y
	rotationChanged := next.Heading != p.pose.Heading
	if positionChanged || rotationChanged {
		p.touched = true
	}
	p.pose = next

	now := p.cfg.Now()
	if positionChanged && p.timer.Due(now) {
		p.submit(next)
		p.timer.Mark(now)
	}
}

// Reconcile applies validation results that arrived since the last call.
func (p *Predictor) Reconcile() {
	for _, r := range DrainChan(p.results) {
		if r.Err == nil {
			p.lastAccepted = r.Submitted
			p.hasAccepted = true
		}
		r.LastAccepted = p.lastAccepted
		r.HaveAccepted = p.hasAccepted
		p.pose = p.clamp(p.cfg.Policy.Reconcile(p.pose, r))
	}
}

// Close stops the frame loop and abandons in-flight submissions.
func (p *Predictor) Close() {
	if p.frame != 0 {
		p.frames.Cancel(p.frame)
		p.frame = 0
	}
	clear(p.held)
	p.closed = true
	p.cancel()
}

func (p *Predictor) submit(pose gamemath.Pose) {
	if p.submitter == nil {
		return
	}
	cell := netcomponents.Vec2FromFloat(pose.X, pose.Y)
	action := messages.ValidatePosition{
		GameID:   p.cfg.GameID,
		X:        cell.X,
		Y:        cell.Y,
		Rotation: uint32(math.Round(pose.Heading)) % 360,
	}
	parent := p.ctx
	timeout := p.cfg.SubmitTimeout
	p.dispatch(func() {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		err := p.submitter.Submit(ctx, action)
		if err != nil {
			log.Printf("[predictor] validate position (%d,%d): %v", action.X, action.Y, err)
		}
		select {
		case p.results <- ValidationResult{Submitted: pose, Err: err}:
		default:
			log.Println("[predictor] result buffer full, dropping validation result")
		}
	})
}

func (p *Predictor) clamp(pose gamemath.Pose) gamemath.Pose {
	x, y := gamemath.ClampToWorld(pose.X, pose.Y, p.cfg.MaxX, p.cfg.MaxY)
	return gamemath.Pose{X: x, Y: y, Heading: gamemath.NormalizeHeading(pose.Heading)}
}
