package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/fonts"
	"github.com/automoto/dojo-tanks/scenes"
	"github.com/automoto/dojo-tanks/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame() *Game {
	for name, size := range map[fonts.FontName]float64{
		fonts.Body:  16,
		fonts.Title: 28,
		fonts.Small: 12,
	} {
		if err := fonts.LoadFontWithSize(name, goregular.TTF, size); err != nil {
			log.Fatalf("Failed to load font %s: %v", name, err)
		}
	}

	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewLobbyScene(g)

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	configPath := flag.String("config", "tanks.toml", "path to the tuning file")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("Dojo Tanks")

	// Initialize persistence so the account survives restarts
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}

	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
