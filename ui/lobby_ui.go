package ui

import (
	"bytes"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const defaultRelayAddress = "localhost:7373"

// LobbyUI holds the ebitenui interface for the lobby: relay address, connect
// and the Spawn Tank button.
type LobbyUI struct {
	UI *ebitenui.UI

	// Callbacks
	OnConnect func(address string)
	OnSpawn   func()

	addressInput *widget.TextInput
	accountLabel *widget.Label
	statusLabel  *widget.Label
	connectBtn   *widget.Button
	spawnBtn     *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

// NewLobbyUI creates a new lobby UI with ebitenui
func NewLobbyUI(account, address string, onConnect func(address string), onSpawn func()) *LobbyUI {
	lui := &LobbyUI{
		OnConnect: onConnect,
		OnSpawn:   onSpawn,
	}
	lui.loadFonts()
	lui.buildUI(account, address)
	return lui
}

func (lui *LobbyUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	lui.titleFace = &text.GoTextFace{Source: fontSource, Size: 32}
	lui.normalFace = &text.GoTextFace{Source: fontSource, Size: 18}
	lui.smallFace = &text.GoTextFace{Source: fontSource, Size: 14}
}

func (lui *LobbyUI) buildUI(account, address string) {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(16)),
			widget.RowLayoutOpts.Spacing(12),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	titleLabel := widget.NewLabel(
		widget.LabelOpts.Text("DOJO TANKS", &lui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 255, 255, 255},
		}),
	)
	contentContainer.AddChild(titleLabel)

	lui.accountLabel = widget.NewLabel(
		widget.LabelOpts.Text("Account: "+account, &lui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{180, 180, 200, 255},
		}),
	)
	contentContainer.AddChild(lui.accountLabel)

	contentContainer.AddChild(lui.buildConnectPanel(address))

	lui.spawnBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(220, 40)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
		}),
		widget.ButtonOpts.Text("Spawn Tank", &lui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 255, 200, 255},
			Pressed:  color.RGBA{150, 200, 150, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if lui.OnSpawn != nil {
				lui.OnSpawn()
			}
		}),
	)
	lui.spawnBtn.GetWidget().Disabled = true
	contentContainer.AddChild(lui.spawnBtn)

	lui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &lui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(lui.statusLabel)

	rootContainer.AddChild(contentContainer)

	lui.UI = &ebitenui.UI{Container: rootContainer}
}

func (lui *LobbyUI) buildConnectPanel(address string) *widget.Container {
	padding := widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(8),
		)),
	)

	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Relay:", &lui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	))

	lui.addressInput = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(240, 28)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&lui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(defaultRelayAddress),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
	lui.addressInput.SetText(address)
	panel.AddChild(lui.addressInput)

	lui.connectBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(110, 28)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 40, 255}),
		}),
		widget.ButtonOpts.Text("Connect", &lui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 200, 255, 255},
			Pressed:  color.RGBA{150, 150, 200, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if lui.OnConnect != nil {
				lui.OnConnect(lui.Address())
			}
		}),
	)
	panel.AddChild(lui.connectBtn)

	return panel
}

// Address returns the relay address typed by the player, or the default.
func (lui *LobbyUI) Address() string {
	addr := strings.TrimSpace(lui.addressInput.GetText())
	if addr == "" {
		return defaultRelayAddress
	}
	return addr
}

func (lui *LobbyUI) SetStatus(msg string) {
	if lui.statusLabel != nil {
		lui.statusLabel.Label = msg
	}
}

func (lui *LobbyUI) SetConnecting(connecting bool) {
	if lui.connectBtn != nil {
		lui.connectBtn.GetWidget().Disabled = connecting
	}
}

// SetSpawnEnabled toggles the Spawn Tank button.
func (lui *LobbyUI) SetSpawnEnabled(enabled bool) {
	if lui.spawnBtn != nil {
		lui.spawnBtn.GetWidget().Disabled = !enabled
	}
}

func (lui *LobbyUI) Update() {
	lui.UI.Update()
}
