package gui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	input "github.com/quasilyte/ebitengine-input"

	"github.com/jetsetilly/testsdi/ui"
	"github.com/jetsetilly/testsdi/version"
)

type gui struct {
	started bool

	endGui chan bool
	u      *ui.UI

	state      ui.State
	pauseFrame int

	main    *ebiten.Image
	overlay *ebiten.Image
	width   int
	height  int

	inputHandler *input.Handler
	inputSystem  input.System
}

const (
	ActionPause           = input.Action(ui.Pause)
	ActionReset           = input.Action(ui.Reset)
	ActionToggleSwitching = input.Action(ui.ToggleSwitching)
	ActionInjectCorrupt   = input.Action(ui.InjectCorrupt)
	ActionInjectEarlyV    = input.Action(ui.InjectEarlyV)
	ActionInjectSwitch    = input.Action(ui.InjectSwitch)
)

func (g *gui) initialise() {
	keymap := input.Keymap{
		ActionPause:           {input.KeySpace},
		ActionReset:           {input.KeyR},
		ActionToggleSwitching: {input.KeyS},
		ActionInjectCorrupt:   {input.KeyC},
		ActionInjectEarlyV:    {input.KeyV},
		ActionInjectSwitch:    {input.KeyJ},
	}
	g.inputHandler = g.inputSystem.NewHandler(uint8(0), keymap)
	g.started = true
}

func (g *gui) input() {
	g.inputSystem.Update()

	var inp ui.Input

	for _, a := range []input.Action{
		ActionPause, ActionReset, ActionToggleSwitching,
		ActionInjectCorrupt, ActionInjectEarlyV, ActionInjectSwitch,
	} {
		if g.inputHandler.ActionIsJustPressed(a) {
			inp = ui.Input{Action: ui.Action(a)}
		}
	}

	if inp.Action != ui.Nothing {
		select {
		case g.u.UserInput <- inp:
		default:
		}
	}
}

func (g *gui) Update() error {
	if !g.started {
		g.initialise()
	}

	g.input()

	// change state if necessary
	select {
	case g.state = <-g.u.State:
	default:
	}

	select {
	case <-g.endGui:
		return ebiten.Termination
	case img := <-g.u.SetImage:
		g.blit(img)
	default:
	}
	return nil
}

func (g *gui) blit(img ui.Image) {
	dim := img.Main.Bounds()
	if g.main == nil || g.width != dim.Dx() || g.height != dim.Dy() {
		g.width = dim.Dx()
		g.height = dim.Dy()
		g.main = ebiten.NewImage(g.width, g.height)
		g.overlay = ebiten.NewImage(g.width, g.height)
	}
	g.main.WritePixels(img.Main.Pix)
	if img.Overlay != nil {
		g.overlay.WritePixels(img.Overlay.Pix)
	}
}

const pixelWidth = 1

func (g *gui) Draw(screen *ebiten.Image) {
	if g.main != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(pixelWidth, 1)
		screen.DrawImage(g.main, op)
		if g.overlay != nil {
			screen.DrawImage(g.overlay, op)
		}
	}

	// draw blinking marker if receiver is paused
	if g.state == ui.StatePaused {
		g.pauseFrame++
		v := uint8((math.Sin(float64(g.pauseFrame/10))*0.5 + 0.5) * 255)
		screen.Set(1, 1, color.RGBA{R: v, G: v, B: v, A: 255})
		screen.Set(2, 1, color.RGBA{R: v, G: v, B: v, A: 255})
		screen.Set(1, 2, color.RGBA{R: v, G: v, B: v, A: 255})
		screen.Set(2, 2, color.RGBA{R: v, G: v, B: v, A: 255})
	}
}

func (g *gui) Layout(width, height int) (int, int) {
	if g.main != nil {
		return g.width * pixelWidth, g.height
	}
	return width, height
}

func Launch(endGui chan bool, u *ui.UI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	g := &gui{
		endGui: endGui,
		u:      u,
	}

	g.inputSystem.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})

	return ebiten.RunGame(g)
}
