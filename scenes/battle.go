package scenes

import (
	"context"
	"log"
	"sync"
	"time"

	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// BattleScene is the arena: the predicted local tank, the mirrored ledger
// state and the locally simulated projectiles.
type BattleScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	account      string
	gameID       uint32
	start        *netcomponents.TankData
	once         sync.Once

	frames      *network.FrameScheduler
	predictor   *network.Predictor
	remote      *network.RemoteSync
	projectiles *systems.ProjectileSimulator
	fire        *systems.FireControl
	tanks       *systems.RemoteTanks
	cancel      context.CancelFunc
	closed      bool
}

// NewBattleScene starts a battle for the client's account. start is the tank
// the ledger returned at spawn; nil starts from the first mirrored pose.
func NewBattleScene(sc SceneChanger, client *network.Client, gameID uint32, start *netcomponents.TankData) *BattleScene {
	return &BattleScene{
		sceneChanger: sc,
		netClient:    client,
		account:      client.Account(),
		gameID:       gameID,
		start:        start,
	}
}

func (s *BattleScene) Update() {
	s.once.Do(s.configure)
	if s.closed {
		return
	}

	switch s.netClient.State() {
	case network.StateDisconnected, network.StateError:
		log.Printf("[battle] relay connection lost: %v", s.netClient.LastError())
		s.teardown()
		s.netClient.Disconnect()
		s.sceneChanger.ChangeScene(NewLobbyScene(s.sceneChanger))
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.teardown()
		s.sceneChanger.ChangeScene(NewLobbySceneWithClient(s.sceneChanger, s.netClient))
		return
	}

	s.ecs.Update()
	s.frames.RunFrame()
}

func (s *BattleScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	if s.ecs == nil {
		return
	}
	s.ecs.Draw(screen)
}

func (s *BattleScene) configure() {
	s.ecs = ecs.NewECS(donburi.NewWorld())
	s.frames = &network.FrameScheduler{}

	var start gamemath.Pose
	if s.start != nil {
		start = poseOf(*s.start)
	}

	var policy network.ReconcilePolicy = network.OptimisticPolicy{}
	if cfg.Tuning.Rollback {
		policy = network.RollbackPolicy{}
	}
	s.predictor = network.NewPredictor(network.PredictorConfig{
		GameID:             s.gameID,
		MaxX:               cfg.World.MaxX(),
		MaxY:               cfg.World.MaxY(),
		MoveStep:           cfg.Tuning.MoveStep,
		RotationStep:       cfg.Tuning.RotationStep,
		ValidationInterval: cfg.Tuning.ValidationInterval,
		SubmitTimeout:      cfg.Tuning.SubmitTimeout,
		Policy:             policy,
	}, s.netClient, s.frames, start)
	if s.start != nil {
		s.predictor.OfferRemote(*s.start)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.remote = network.NewRemoteSync(s.netClient, s.gameID, s.account)
	if err := s.remote.Start(ctx); err != nil {
		log.Printf("[battle] failed to subscribe to ledger: %v", err)
	}

	s.projectiles = systems.NewProjectileSimulator(s.ecs, cfg.Tuning.BulletSpeed, cfg.World.MaxX(), cfg.World.MaxY())
	s.projectiles.Start(s.frames)
	s.fire = systems.NewFireControl(s.netClient, s.projectiles, s.gameID, s.account, cfg.Tuning.SubmitTimeout)
	s.tanks = systems.NewRemoteTanks(s.remote, s.account, time.Duration(cfg.Render.RemoteTweenMs)*time.Millisecond)

	// Systems
	s.ecs.AddSystem(systems.NewTankInputSystem(s.predictor, func() { s.fire.Fire(s.predictor.DisplayPose()) }))
	s.ecs.AddSystem(s.syncLedger)
	s.ecs.AddSystem(s.tanks.Update)

	// Renderers
	s.ecs.AddRenderer(cfg.Default, systems.NewBoardRenderer(s.remote))
	s.ecs.AddRenderer(cfg.Default, systems.DrawRemoteTanks)
	s.ecs.AddRenderer(cfg.Default, systems.DrawProjectiles)
	s.ecs.AddRenderer(cfg.Default, systems.NewLocalTankRenderer(s.predictor.DisplayPose, s.ledgerPose))
	s.ecs.AddRenderer(cfg.Overlay, systems.NewHUDRenderer(s.hudInfo))
	s.ecs.AddRenderer(cfg.Overlay, systems.NewTooltipRenderer(s.remote))
}

// syncLedger feeds the mirrored ledger state into prediction and fire control.
func (s *BattleScene) syncLedger(_ *ecs.ECS) {
	if tank, ok := s.remote.OwnTank(); ok {
		s.predictor.OfferRemote(tank)
	}
	s.predictor.Reconcile()
	s.fire.Update(s.remote.DrainFired())
}

func (s *BattleScene) ledgerPose() (gamemath.Pose, bool) {
	tank, ok := s.remote.OwnTank()
	if !ok {
		return gamemath.Pose{}, false
	}
	return poseOf(tank), true
}

func (s *BattleScene) hudInfo() systems.HUDInfo {
	ledger, hasLedger := s.ledgerPose()
	last, hasBullet := s.fire.LastBulletID()
	return systems.HUDInfo{
		Account:    s.account,
		Connection: s.netClient.State().String(),
		Predicted:  s.predictor.DisplayPose(),
		Ledger:     ledger,
		HasLedger:  hasLedger,
		LastBullet: last,
		HasBullet:  hasBullet,
		Live:       s.projectiles.Len(),
		Pending:    s.fire.Pending(),
	}
}

func (s *BattleScene) teardown() {
	if s.closed {
		return
	}
	s.closed = true
	s.predictor.Close()
	s.projectiles.Stop()
	s.remote.Stop()
	s.cancel()
}

func poseOf(t netcomponents.TankData) gamemath.Pose {
	return gamemath.Pose{X: float64(t.Position.X), Y: float64(t.Position.Y), Heading: float64(t.Rotation)}
}
