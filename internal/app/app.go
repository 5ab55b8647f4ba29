//go:build ebiten

package app

import (
	"time"

	"powder-ca/internal/render"
	"powder-ca/internal/ui"
	"powder-ca/pkg/sims/powder"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the control panel.
const HUDWidth = 220

// Sound receives each tick's events.
type Sound interface {
	Play(events []powder.Event)
	SetMuted(bool)
	Muted() bool
}

// Game adapts a powder world to the ebiten.Game interface.
type Game struct {
	world   *powder.World
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	sound   Sound
	log     powder.Logger

	frame  []uint8
	scale  int
	radius int

	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the world. sound may be nil.
func New(w *powder.World, cfg *Config, sound Sound, log powder.Logger) *Game {
	width, height := w.Dimensions()
	g := &Game{
		world:   w,
		painter: render.NewGridPainter(width, height),
		hud:     ui.NewHUD(w, HUDWidth),
		overlay: ui.NewOverlay(w, cfg.Scale),
		sound:   sound,
		log:     log,
		scale:   max(cfg.Scale, 1),
		radius:  2,
		seed:    cfg.Seed,
	}
	g.hud.Select(cfg.BrushElement(w))
	return g
}

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the world.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.overlay.Update()

	width, _ := g.world.Dimensions()
	consumed := g.hud.Update(width * g.scale)
	if !consumed {
		g.handleBrush()
	}

	if !g.paused || g.tickOnce {
		g.world.Step()
		g.tickOnce = false
		if g.sound != nil {
			g.sound.Play(g.world.Events())
		}
	}
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.tickOnce = true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.Reset(g.seed)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.Reset(time.Now().UnixNano())
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.report(g.world.Clear())
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.hud.Cycle(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.hud.Cycle(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if g.sound != nil {
			g.sound.SetMuted(!g.sound.Muted())
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		g.report(g.world.LoadScene("empty"))
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		g.report(g.world.LoadScene("demo"))
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		g.report(g.world.LoadScene("circuit"))
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.radius = min(g.radius+1, 16)
	} else if dy < 0 {
		g.radius = max(g.radius-1, 0)
	}
}

func (g *Game) handleBrush() {
	mx, my := ebiten.CursorPosition()
	x, y := mx/g.scale, my/g.scale
	width, height := g.world.Dimensions()
	if mx < 0 || my < 0 || x >= width || y >= height {
		return
	}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.report(g.world.PlaceBrush(x, y, g.radius, g.hud.Selected()))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.report(g.world.Energize(x, y))
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.report(g.world.Strike(x, y))
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.report(g.world.Explode(x, y, g.radius+3))
	}
}

func (g *Game) report(err error) {
	if err != nil {
		g.log.Debugf("app: %v", err)
	}
}

// Draw renders the current world state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.frame = g.world.Frame(g.frame)
	g.painter.Blit(screen, g.frame, g.world.Palette(), g.scale)
	g.overlay.Draw(screen)
	width, _ := g.world.Dimensions()
	g.hud.Draw(screen, width*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W*g.scale + HUDWidth, s.H * g.scale
}
