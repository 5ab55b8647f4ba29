package powder

import (
	"errors"
	"testing"

	"powder-ca/pkg/core"
)

func newTestWorld(t *testing.T, w, h int, opts ...Option) *World {
	t.Helper()
	world, err := Create(w, h, 42, opts...)
	if err != nil {
		t.Fatalf("create %dx%d: %v", w, h, err)
	}
	return world
}

func mustSet(t *testing.T, w *World, x, y int, id ElementID) {
	t.Helper()
	if err := w.SetCell(x, y, id); err != nil {
		t.Fatalf("set (%d,%d) = %d: %v", x, y, id, err)
	}
}

func elementAt(t *testing.T, w *World, x, y int) ElementID {
	t.Helper()
	v, err := w.GetCell(x, y)
	if err != nil {
		t.Fatalf("get (%d,%d): %v", x, y, err)
	}
	return v.Element
}

func TestSandFallsToFloorAndStays(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	mustSet(t, w, 5, 0, Sand)

	for i := 0; i < 9; i++ {
		w.Step()
	}
	if got := elementAt(t, w, 5, 9); got != Sand {
		t.Fatalf("after 9 steps expected sand at (5,9), got %d", got)
	}
	for y := 0; y < 9; y++ {
		if got := elementAt(t, w, 5, y); got != Empty {
			t.Fatalf("expected (5,%d) empty, got %d", y, got)
		}
	}

	w.Step()
	if got := elementAt(t, w, 5, 9); got != Sand {
		t.Fatalf("after 10 steps sand should rest at (5,9), got %d", got)
	}
	if w.Mass() != 1 {
		t.Fatalf("expected mass 1, got %d", w.Mass())
	}
}

func TestSandFallsOneCellPerTick(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	mustSet(t, w, 5, 0, Sand)
	for tick := 1; tick <= 9; tick++ {
		w.Step()
		if got := elementAt(t, w, 5, tick); got != Sand {
			t.Fatalf("tick %d: expected sand at (5,%d), got %d", tick, tick, got)
		}
	}
}

func TestMassConservedUnderMovement(t *testing.T) {
	w := newTestWorld(t, 24, 24)
	palette := []ElementID{Empty, Sand, Water, Oil, Mercury, Empty, Sand}
	for y := 0; y < 12; y++ {
		for x := 0; x < 24; x++ {
			mustSet(t, w, x, y, palette[(x*7+y*3)%len(palette)])
		}
	}
	for x := 4; x < 20; x++ {
		mustSet(t, w, x, 16, Stone)
	}

	before := w.Mass()
	for i := 0; i < 80; i++ {
		w.Step()
		if got := w.Mass(); got != before {
			t.Fatalf("tick %d: mass changed from %d to %d", i+1, before, got)
		}
	}
	if w.Stats().Tick != 80 {
		t.Fatalf("expected tick 80, got %d", w.Stats().Tick)
	}
}

func TestAtMostOneWriterPerCoordinate(t *testing.T) {
	w := newTestWorld(t, 48, 32)
	if err := w.LoadScene("demo"); err != nil {
		t.Fatalf("load demo: %v", err)
	}
	if err := w.PlaceBrush(10, 3, 3, Sand); err != nil {
		t.Fatalf("brush: %v", err)
	}
	if err := w.PlaceBrush(30, 3, 2, Gunpowder); err != nil {
		t.Fatalf("brush: %v", err)
	}
	if err := w.PlaceBrush(32, 6, 1, Fire); err != nil {
		t.Fatalf("brush: %v", err)
	}

	var passes int
	w.observer = func(p Pass, changes []Change) {
		passes++
		seen := make(map[int]bool, len(changes))
		for _, ch := range changes {
			if seen[ch.Index] {
				x, y := w.grid.coords(ch.Index)
				t.Fatalf("tick %d %s pass: (%d,%d) written twice", w.tick+1, p, x, y)
			}
			seen[ch.Index] = true
		}
	}
	for i := 0; i < 150; i++ {
		w.Step()
	}
	if passes == 0 {
		t.Fatal("observer never ran")
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func(workers int) (uint64, []uint8) {
		params := DefaultConfig().Params
		params.Workers = workers
		w, err := Create(40, 30, 99, WithParams(params))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := w.LoadScene("demo"); err != nil {
			t.Fatalf("load demo: %v", err)
		}
		_ = w.PlaceBrush(20, 4, 2, Lava)
		_ = w.Strike(8, 0)
		for i := 0; i < 120; i++ {
			w.Step()
		}
		return w.Hash(), w.Frame(nil)
	}

	h1, f1 := run(1)
	h2, f2 := run(1)
	if h1 != h2 {
		t.Fatalf("identical runs diverged: %x vs %x", h1, h2)
	}
	for i := range f1 {
		if f1[i] != f2[i] {
			t.Fatalf("frames differ at %d", i)
		}
	}
	if h3, _ := run(4); h3 != h1 {
		t.Fatalf("banded thermal pass changed the outcome: %x vs %x", h3, h1)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	hashFor := func(seed int64) uint64 {
		w, err := Create(32, 24, seed)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_ = w.LoadScene("demo")
		for i := 0; i < 60; i++ {
			w.Step()
		}
		return w.Hash()
	}
	if hashFor(1) == hashFor(2) {
		t.Fatal("expected different seeds to produce different grids")
	}
}

func TestBoundarySafety(t *testing.T) {
	w := newTestWorld(t, 8, 6)
	for _, p := range [][2]int{{8, 0}, {0, 6}, {-1, 0}, {0, -1}, {100, 100}} {
		if err := w.SetCell(p[0], p[1], Sand); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("SetCell(%d,%d) expected ErrOutOfBounds, got %v", p[0], p[1], err)
		}
		if _, err := w.GetCell(p[0], p[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("GetCell(%d,%d) expected ErrOutOfBounds, got %v", p[0], p[1], err)
		}
	}
	if w.Mass() != 0 {
		t.Fatalf("out of range writes leaked %d cells", w.Mass())
	}
}

func TestCreateRejectsInvalidDimensions(t *testing.T) {
	cases := [][2]int{{0, 5}, {5, 0}, {-3, 4}, {4097, 1}, {1, 4097}}
	for _, c := range cases {
		if _, err := Create(c[0], c[1], 1); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Create(%d,%d) expected ErrInvalidDimensions, got %v", c[0], c[1], err)
		}
	}

	params := DefaultConfig().Params
	params.MaxWidth, params.MaxHeight = 16, 16
	if _, err := Create(17, 4, 1, WithParams(params)); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected configured maximum to apply, got %v", err)
	}
	if _, err := Create(16, 16, 1, WithParams(params)); err != nil {
		t.Fatalf("16x16 should fit: %v", err)
	}
}

func TestSetCellRejectsUnknownElement(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	if err := w.SetCell(1, 1, ElementID(200)); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("expected ErrInvalidElement, got %v", err)
	}
}

func TestMutationDuringTickIsBusy(t *testing.T) {
	w := newTestWorld(t, 6, 6)
	mustSet(t, w, 2, 0, Sand)

	var setErr, brushErr, clearErr error
	var setOK, paramOK bool
	w.observer = func(p Pass, _ []Change) {
		if p != PassMovement {
			return
		}
		setErr = w.SetCell(0, 0, Water)
		brushErr = w.PlaceBrush(3, 3, 1, Sand)
		clearErr = w.Clear()
		paramOK = w.SetIntParameter("cooldown", 9)
		setOK = true
	}
	w.Step()

	if !setOK {
		t.Fatal("observer did not run")
	}
	for name, err := range map[string]error{"SetCell": setErr, "PlaceBrush": brushErr, "Clear": clearErr} {
		if !errors.Is(err, ErrBusy) {
			t.Fatalf("%s during a tick: expected ErrBusy, got %v", name, err)
		}
	}
	if paramOK {
		t.Fatal("parameter change during a tick should be refused")
	}

	w.observer = nil
	if err := w.SetCell(0, 0, Water); err != nil {
		t.Fatalf("after the tick SetCell should succeed: %v", err)
	}
}

func TestDestroyedWorldRejectsCalls(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	w.Destroy()
	if err := w.SetCell(0, 0, Sand); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := w.GetCell(0, 0); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	w.Step()
	w.Destroy()
	if width, height := w.Dimensions(); width != 0 || height != 0 {
		t.Fatalf("destroyed world should report 0x0, got %dx%d", width, height)
	}
}

func TestGuardContainsCellFaults(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	w.guard(PassReaction, 1, 1, func() {
		w.grid.write(w.grid.index(1, 1), Cell{Element: Sand})
		panic("boom")
	})
	if len(w.grid.Changes()) != 0 {
		t.Fatalf("staged writes of a faulting cell should be dropped, got %d", len(w.grid.Changes()))
	}
	if w.faults != 1 {
		t.Fatalf("expected one fault, got %d", w.faults)
	}
	if w.grid.claimed(w.grid.index(1, 1)) {
		t.Fatal("a faulting cell should release its claims")
	}
	w.commit(PassReaction)
	if got := elementAt(t, w, 1, 1); got != Empty {
		t.Fatalf("faulting cell should stay unchanged, got %d", got)
	}
}

func TestResizeKeepsOverlap(t *testing.T) {
	w := newTestWorld(t, 6, 6)
	mustSet(t, w, 1, 5, Stone)
	mustSet(t, w, 5, 5, Stone)
	if err := w.Resize(3, 8); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if width, height := w.Dimensions(); width != 3 || height != 8 {
		t.Fatalf("expected 3x8, got %dx%d", width, height)
	}
	if got := elementAt(t, w, 1, 5); got != Stone {
		t.Fatalf("expected stone kept at (1,5), got %d", got)
	}
	if w.Mass() != 1 {
		t.Fatalf("expected the cropped stone to be gone, mass %d", w.Mass())
	}
	if len(w.Cells()) != 24 {
		t.Fatalf("display frame not resized: %d", len(w.Cells()))
	}
	if err := w.Resize(0, 3); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestResetRewindsTick(t *testing.T) {
	w := newTestWorld(t, 5, 5)
	mustSet(t, w, 2, 2, Sand)
	w.Step()
	w.Step()
	w.Reset(7)
	if w.Tick() != 0 || w.Mass() != 0 {
		t.Fatalf("reset should clear tick and grid, got tick %d mass %d", w.Tick(), w.Mass())
	}
}

func TestRegisteredWithCore(t *testing.T) {
	f, ok := core.Sims()["powder"]
	if !ok {
		t.Fatal("powder sim not registered")
	}
	sim := f(map[string]string{"w": "12", "h": "9"})
	if sim.Name() != "powder" {
		t.Fatalf("unexpected name %q", sim.Name())
	}
	if s := sim.Size(); s.W != 12 || s.H != 9 {
		t.Fatalf("unexpected size %+v", s)
	}
	if len(sim.Cells()) != 12*9 {
		t.Fatalf("unexpected frame length %d", len(sim.Cells()))
	}
}
