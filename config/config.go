package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// WorldConfig is the fixed ledger grid.
type WorldConfig struct {
	Width  int
	Height int
}

// MaxX is the largest reachable x coordinate.
func (w WorldConfig) MaxX() float64 { return float64(w.Width - 1) }

// MaxY is the largest reachable y coordinate.
func (w WorldConfig) MaxY() float64 { return float64(w.Height - 1) }

// TuningConfig holds the prediction and projectile constants. None of them is
// a correctness requirement; they are tuned for feel.
type TuningConfig struct {
	MoveStep           float64 // grid units per tick
	RotationStep       float64 // degrees per tick
	ValidationInterval time.Duration
	BulletSpeed        float64 // grid units per tick
	Rollback           bool    // snap back on rejected validation
	SubmitTimeout      time.Duration
}

// NetworkConfig describes the ledger relay connection.
type NetworkConfig struct {
	Address string `toml:"address"`
	Version string `toml:"version"`
	GameID  uint32 `toml:"game_id"`
}

// RenderConfig controls the board layout on screen.
type RenderConfig struct {
	TileSize      int
	BoardOffsetX  int
	BoardOffsetY  int
	TankSize      float32
	BulletRadius  float32
	RemoteTweenMs float32
}

type Config struct {
	Width  int
	Height int
}

// fileConfig is the subset of settings tanks.toml may override. Unset keys
// keep their defaults.
type fileConfig struct {
	Tuning struct {
		MoveStep             *float64 `toml:"move_step"`
		RotationStep         *float64 `toml:"rotation_step"`
		ValidationIntervalMs *int64   `toml:"validation_interval_ms"`
		BulletSpeed          *float64 `toml:"bullet_speed"`
		Rollback             *bool    `toml:"rollback"`
		SubmitTimeoutMs      *int64   `toml:"submit_timeout_ms"`
	} `toml:"tuning"`
	Network *NetworkConfig `toml:"network"`
}

var C *Config
var World WorldConfig
var Tuning TuningConfig
var Network NetworkConfig
var Render RenderConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	BrightGreen  = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	Background   = color.RGBA{R: 20, G: 20, B: 30, A: 255}

	WallColor         = color.RGBA{R: 45, G: 45, B: 55, A: 255}
	DestructibleColor = color.RGBA{R: 140, G: 90, B: 50, A: 255}
	EmptyColor        = color.RGBA{R: 200, G: 200, B: 205, A: 255}
	GridLineColor     = color.RGBA{R: 170, G: 170, B: 180, A: 255}
	BulletColor       = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	GhostColor        = color.RGBA{R: 255, G: 255, B: 255, A: 90}
)

func init() {
	C = &Config{
		Width:  960,
		Height: 720,
	}
	World = WorldConfig{Width: 18, Height: 12}
	Tuning = DefaultTuning()
	Network = NetworkConfig{
		Address: "localhost:7373",
		GameID:  1,
	}
	Render = RenderConfig{
		TileSize:      48,
		BoardOffsetX:  48,
		BoardOffsetY:  96,
		TankSize:      34,
		BulletRadius:  5,
		RemoteTweenMs: 400,
	}
}

// DefaultTuning returns the tuning the game ships with.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		MoveStep:           0.2,
		RotationStep:       6,
		ValidationInterval: 5000 * time.Millisecond,
		BulletSpeed:        0.3,
		SubmitTimeout:      30 * time.Second,
	}
}

// Load applies overrides from a TOML file. A missing file keeps the defaults.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return apply(data)
}

func apply(data []byte) error {
	fc := fileConfig{Network: &Network}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	ft := fc.Tuning
	if ft.MoveStep != nil {
		Tuning.MoveStep = *ft.MoveStep
	}
	if ft.RotationStep != nil {
		Tuning.RotationStep = *ft.RotationStep
	}
	if ft.ValidationIntervalMs != nil {
		Tuning.ValidationInterval = time.Duration(*ft.ValidationIntervalMs) * time.Millisecond
	}
	if ft.BulletSpeed != nil {
		Tuning.BulletSpeed = *ft.BulletSpeed
	}
	if ft.Rollback != nil {
		Tuning.Rollback = *ft.Rollback
	}
	if ft.SubmitTimeoutMs != nil {
		Tuning.SubmitTimeout = time.Duration(*ft.SubmitTimeoutMs) * time.Millisecond
	}
	if Tuning.MoveStep <= 0 || Tuning.RotationStep < 0 || Tuning.BulletSpeed <= 0 {
		return fmt.Errorf("invalid tuning: %+v", Tuning)
	}
	if Tuning.ValidationInterval <= 0 {
		return fmt.Errorf("invalid validation_interval: %v", Tuning.ValidationInterval)
	}
	return nil
}
