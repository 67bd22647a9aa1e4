package scenes

import (
	"context"
	"image/color"
	"log"
	"sync"

	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/systems"
	"github.com/automoto/dojo-tanks/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

// LobbyScene connects to the relay and spawns the player's tank.
type LobbyScene struct {
	sceneChanger SceneChanger
	lobbyUI      *ui.LobbyUI
	profile      *systems.SavedProfile
	netClient    *network.Client
	once         sync.Once

	mu        sync.Mutex
	spawning  bool
	spawnDone bool
	spawnErr  error
	spawned   netcomponents.TankData
}

func NewLobbyScene(sc SceneChanger) *LobbyScene {
	return &LobbyScene{sceneChanger: sc}
}

// NewLobbySceneWithClient returns to the lobby keeping an existing relay
// connection.
func NewLobbySceneWithClient(sc SceneChanger, client *network.Client) *LobbyScene {
	return &LobbyScene{sceneChanger: sc, netClient: client}
}

func (s *LobbyScene) Update() {
	s.once.Do(s.configure)

	s.lobbyUI.Update()

	// Apply spawn results on the main goroutine
	s.mu.Lock()
	if s.spawnDone {
		tank, err := s.spawned, s.spawnErr
		s.spawnDone = false
		s.spawning = false
		s.spawnErr = nil
		s.mu.Unlock()

		if err != nil {
			log.Printf("[lobby] spawn failed: %v", err)
			s.lobbyUI.SetStatus("Spawn failed: " + err.Error())
		} else if s.netClient != nil {
			client := s.netClient
			s.netClient = nil
			s.sceneChanger.ChangeScene(NewBattleScene(s.sceneChanger, client, s.gameID(client), &tank))
			return
		}
	} else {
		s.mu.Unlock()
	}

	if s.netClient == nil {
		s.lobbyUI.SetSpawnEnabled(false)
		return
	}

	switch s.netClient.State() {
	case network.StateJoined:
		s.mu.Lock()
		busy := s.spawning
		s.mu.Unlock()
		if !busy {
			s.lobbyUI.SetStatus("Joined " + s.netClient.ServerName() + ". Ready to spawn.")
		}
		s.lobbyUI.SetSpawnEnabled(!busy)

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.lobbyUI.SetStatus(errMsg)
		s.lobbyUI.SetConnecting(false)
		s.lobbyUI.SetSpawnEnabled(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.lobbyUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.lobbyUI.SetStatus("Connected, joining game...")

	case network.StateDisconnected:
		s.lobbyUI.SetStatus("Disconnected")
		s.lobbyUI.SetConnecting(false)
		s.lobbyUI.SetSpawnEnabled(false)
		s.netClient = nil
	}
}

func (s *LobbyScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	if s.lobbyUI == nil {
		return
	}
	s.lobbyUI.UI.Draw(screen)
}

func (s *LobbyScene) configure() {
	s.profile = systems.EnsureProfile(cfg.Network.Address)
	s.lobbyUI = ui.NewLobbyUI(
		s.profile.Account,
		s.profile.ServerAddress,
		func(address string) { s.onConnect(address) },
		func() { s.onSpawn() },
	)
	if s.netClient != nil {
		s.lobbyUI.SetConnecting(true)
	}
}

func (s *LobbyScene) gameID(client *network.Client) uint32 {
	if id := client.GameID(); id != 0 {
		return id
	}
	return cfg.Network.GameID
}

func (s *LobbyScene) onConnect(address string) {
	if s.netClient != nil {
		s.netClient.Disconnect()
	}

	s.lobbyUI.SetStatus("Connecting...")
	s.lobbyUI.SetConnecting(true)

	if s.profile.ServerAddress != address {
		s.profile.ServerAddress = address
		_ = systems.SaveProfile(s.profile)
	}

	s.netClient = network.NewClient(s.profile.Account)
	s.netClient.Connect(address, cfg.Network.Version)
}

func (s *LobbyScene) onSpawn() {
	if s.netClient == nil || s.netClient.State() != network.StateJoined {
		return
	}
	s.mu.Lock()
	if s.spawning {
		s.mu.Unlock()
		return
	}
	s.spawning = true
	s.mu.Unlock()

	s.lobbyUI.SetStatus("Spawning tank...")
	s.lobbyUI.SetSpawnEnabled(false)

	client := s.netClient
	account := s.profile.Account
	gameID := s.gameID(client)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Tuning.SubmitTimeout)
		defer cancel()
		tank, err := network.SpawnTank(ctx, client, client, account, gameID)

		s.mu.Lock()
		s.spawned = tank
		s.spawnErr = err
		s.spawnDone = true
		s.mu.Unlock()
	}()
}
