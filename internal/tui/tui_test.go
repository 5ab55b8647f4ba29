package tui

import (
	"strings"
	"testing"

	"powder-ca/pkg/sims/powder"

	"github.com/gdamore/tcell/v2"
)

type recorder struct{ batches int }

func (r *recorder) Play(events []powder.Event) { r.batches++ }

func newHost(t *testing.T, opts ...Option) (*Host, *powder.World) {
	t.Helper()
	world, err := powder.Create(20, 10, 3)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(40, 14)
	t.Cleanup(screen.Fini)
	return New(screen, world, opts...), world
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestElementCycling(t *testing.T) {
	h, world := newHost(t)
	first := h.Selected()
	if first == powder.Empty {
		t.Fatal("brush should never select empty")
	}
	h.HandleEvent(key(']'))
	if h.Selected() == first {
		t.Fatal("] should select the next element")
	}
	h.HandleEvent(key('['))
	if h.Selected() != first {
		t.Fatalf("[ should go back to %d, got %d", first, h.Selected())
	}
	h.HandleEvent(key('['))
	if want := powder.ElementID(world.Elements().Len() - 1); h.Selected() != want {
		t.Fatalf("cycling back should wrap to %d, got %d", want, h.Selected())
	}
}

func TestMousePaintsSelectedElement(t *testing.T) {
	h, world := newHost(t)
	for h.Selected() != powder.Stone {
		h.HandleEvent(key(']'))
	}
	h.HandleEvent(key('-'))
	h.HandleEvent(tcell.NewEventMouse(4, 5, tcell.Button1, tcell.ModNone))
	if world.Count(powder.Stone) != 1 {
		t.Fatalf("expected one stone cell, got %d", world.Count(powder.Stone))
	}
	// Clicks on the status line fall outside the grid.
	h.HandleEvent(tcell.NewEventMouse(4, 10, tcell.Button1, tcell.ModNone))
	if world.Count(powder.Stone) != 1 {
		t.Fatal("click outside the grid should not paint")
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	sound := &recorder{}
	h, world := newHost(t, WithSound(sound))
	h.HandleEvent(key(' '))
	if !h.Paused() {
		t.Fatal("space should pause")
	}
	h.Tick()
	if world.Tick() != 0 {
		t.Fatal("paused host should not advance the world")
	}
	h.HandleEvent(key('n'))
	if world.Tick() != 1 || sound.batches != 1 {
		t.Fatalf("n should step once, tick %d, sound batches %d", world.Tick(), sound.batches)
	}
	h.HandleEvent(key(' '))
	h.Tick()
	if world.Tick() != 2 {
		t.Fatalf("resumed host should step, tick %d", world.Tick())
	}
}

func TestQuitKeys(t *testing.T) {
	h, _ := newHost(t)
	if h.HandleEvent(key('a')) == false {
		t.Fatal("ordinary keys should not quit")
	}
	if h.HandleEvent(key('q')) {
		t.Fatal("q should quit")
	}
	if h.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape should quit")
	}
}

func TestSceneAndClearKeys(t *testing.T) {
	h, world := newHost(t)
	h.HandleEvent(key('2'))
	if world.Mass() == 0 {
		t.Fatal("demo scene should place cells")
	}
	h.HandleEvent(key('c'))
	if world.Mass() != 0 {
		t.Fatalf("clear left %d cells", world.Mass())
	}
}

func TestStatusLine(t *testing.T) {
	h, world := newHost(t)
	world.Step()
	line := h.StatusLine()
	for _, want := range []string{"tick 1", "r=1", "running"} {
		if !strings.Contains(line, want) {
			t.Fatalf("status %q missing %q", line, want)
		}
	}
	h.HandleEvent(key(' '))
	if !strings.Contains(h.StatusLine(), "paused") {
		t.Fatal("status should report pause")
	}
	// Drawing onto the simulation screen must not panic.
	h.Draw()
}

func TestCyclingWithOnlyEmpty(t *testing.T) {
	table, err := powder.NewElementTable(powder.DefaultElements().All()[:1])
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	world, err := powder.Create(4, 4, 1, powder.WithElements(table))
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	h := New(screen, world)
	h.HandleEvent(key(']'))
	h.HandleEvent(key('['))
	if h.Selected() != powder.Empty {
		t.Fatalf("an empty palette should select nothing, got %d", h.Selected())
	}
}
