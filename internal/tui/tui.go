// Package tui runs a powder world inside a terminal: one character per cell,
// mouse painting and a status line.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"powder-ca/pkg/core"
	"powder-ca/pkg/sims/powder"

	"github.com/gdamore/tcell/v2"
)

// Sound receives each tick's events. *sfx.Player satisfies it.
type Sound interface {
	Play(events []powder.Event)
}

// Host drives a world on a tcell screen. Every mutation happens on the Run
// goroutine between ticks, so the world never reports ErrBusy to the host.
type Host struct {
	screen tcell.Screen
	world  *powder.World
	sound  Sound
	log    powder.Logger

	tps      int
	seed     int64
	paused   bool
	stepOnce bool

	elements []powder.ElementID
	selected int
	radius   int
	mouseX   int
	mouseY   int

	palette []color.RGBA
	glyphs  []rune
	frame   []uint8
	message string
}

// Option configures a Host.
type Option func(*Host)

// WithSound plays event sounds.
func WithSound(s Sound) Option { return func(h *Host) { h.sound = s } }

// WithLogger injects a logger.
func WithLogger(l powder.Logger) Option { return func(h *Host) { h.log = l } }

// WithTPS sets the tick rate.
func WithTPS(tps int) Option {
	return func(h *Host) {
		if tps > 0 {
			h.tps = tps
		}
	}
}

// WithSeed sets the seed used by the reset key.
func WithSeed(seed int64) Option { return func(h *Host) { h.seed = seed } }

// New creates a host for an initialised screen.
func New(screen tcell.Screen, world *powder.World, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		world:  world,
		log:    powder.NewNoOpLogger(),
		tps:    30,
		radius: 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, e := range world.Elements().All() {
		if e.ID != powder.Empty {
			h.elements = append(h.elements, e.ID)
		}
	}
	h.palette = world.Palette()
	return h
}

// Selected returns the element the brush paints.
func (h *Host) Selected() powder.ElementID {
	if len(h.elements) == 0 {
		return powder.Empty
	}
	return h.elements[h.selected]
}

// Paused reports whether ticking is suspended.
func (h *Host) Paused() bool { return h.paused }

// Radius returns the brush radius.
func (h *Host) Radius() int { return h.radius }

// frameInterval is the redraw period; world ticks are paced separately.
const frameInterval = 16 * time.Millisecond

// Run polls input and ticks the world until ctx ends or the user quits.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	clock := core.NewFixedStep(h.tps)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
			h.Draw()
		case <-ticker.C:
			for n := clock.Due(); n > 0; n-- {
				h.Tick()
			}
			h.Draw()
		}
	}
}

// Tick advances the world once unless paused and forwards its events.
func (h *Host) Tick() {
	if h.paused && !h.stepOnce {
		return
	}
	h.stepOnce = false
	h.world.Step()
	if h.sound != nil {
		h.sound.Play(h.world.Events())
	}
}

// HandleEvent applies one input event. It returns false when the user asked
// to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		h.paused = !h.paused
	case 'n':
		h.stepOnce = true
		h.Tick()
	case ']':
		h.cycle(1)
	case '[':
		h.cycle(-1)
	case '+', '=':
		h.radius = min(h.radius+1, 12)
	case '-':
		h.radius = max(h.radius-1, 0)
	case 'c':
		h.report(h.world.Clear())
	case 'r':
		h.world.Reset(h.seed)
	case 'e':
		h.report(h.world.Energize(h.mouseX, h.mouseY))
	case 'l':
		h.report(h.world.Strike(h.mouseX, h.mouseY))
	case 'x':
		h.report(h.world.Explode(h.mouseX, h.mouseY, h.radius+2))
	case '1':
		h.report(h.world.LoadScene("empty"))
	case '2':
		h.report(h.world.LoadScene("demo"))
	case '3':
		h.report(h.world.LoadScene("circuit"))
	}
	return true
}

func (h *Host) cycle(dir int) {
	if n := len(h.elements); n > 0 {
		h.selected = (h.selected + dir + n) % n
	}
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w, hh := h.world.Dimensions()
	if x < 0 || y < 0 || x >= w || y >= hh {
		return
	}
	h.mouseX, h.mouseY = x, y
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		h.report(h.world.PlaceBrush(x, y, h.radius, h.Selected()))
	case ev.Buttons()&tcell.Button2 != 0:
		h.report(h.world.Energize(x, y))
	}
}

func (h *Host) report(err error) {
	if err == nil {
		h.message = ""
		return
	}
	h.message = err.Error()
	h.log.Debugf("tui: %v", err)
}

// Draw renders the grid and the status line.
func (h *Host) Draw() {
	h.screen.Clear()
	w, hh := h.world.Dimensions()
	h.glyphs = h.world.Glyphs(h.glyphs)
	h.frame = h.world.Frame(h.frame)
	bg := tcell.NewRGBColor(12, 12, 16)
	for y := 0; y < hh; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			c := h.palette[h.frame[i]]
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			h.screen.SetContent(x, y, h.glyphs[i], nil, style)
		}
	}
	h.drawText(0, hh, h.StatusLine(), tcell.StyleDefault.Reverse(true))
	if h.message != "" {
		h.drawText(0, hh+1, h.message, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	h.screen.Show()
}

// StatusLine summarises the world and the brush.
func (h *Host) StatusLine() string {
	st := h.world.Stats()
	name := "-"
	if e, ok := h.world.Elements().Lookup(h.Selected()); ok {
		name = e.Name
	}
	state := "running"
	if h.paused {
		state = "paused"
	}
	ambient := "?"
	if p, ok := h.world.Parameters().Lookup("ambient"); ok {
		ambient = p.Value
	}
	return fmt.Sprintf(" tick %d  mass %d  [%s] r=%d  %s°C  %s ", st.Tick, st.Mass, name, h.radius, ambient, state)
}

func (h *Host) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
