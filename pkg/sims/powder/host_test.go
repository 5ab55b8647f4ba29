package powder

import (
	"errors"
	"testing"
)

func TestFromMapParsesKnownKeys(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":             "64",
		"h":             "48",
		"seed":          "-9",
		"ambient":       "35.5",
		"heat_scale":    "2",
		"air_diffusion": "true",
		"cooldown":      "5",
		"fire_spread":   "150",
		"acid_strength": "80",
		"actor_sight":   "10",
		"boundary":      "EMPTY",
		"workers":       "4",
	})
	p := cfg.Params
	if cfg.Width != 64 || cfg.Height != 48 || cfg.Seed != -9 {
		t.Fatalf("unexpected world config %+v", cfg)
	}
	if p.AmbientTemp != 35.5 || p.HeatScale != 2 || !p.AirDiffusion {
		t.Fatalf("unexpected thermal params %+v", p)
	}
	if p.Cooldown != 5 || p.FireSpread != 150 || p.AcidStrength != 80 || p.ActorSight != 10 {
		t.Fatalf("unexpected reaction params %+v", p)
	}
	if p.Boundary != "empty" || p.Workers != 4 {
		t.Fatalf("unexpected boundary or workers %+v", p)
	}
}

func TestFromMapIgnoresInvalidValues(t *testing.T) {
	def := DefaultConfig()
	cfg := FromMap(map[string]string{
		"w":             "-3",
		"h":             "tall",
		"ambient":       "-500",
		"cooldown":      "999",
		"acid_strength": "101",
		"boundary":      "lava",
		"workers":       "0",
	})
	if cfg.Width != def.Width || cfg.Height != def.Height {
		t.Fatalf("invalid sizes should keep defaults, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Params != def.Params {
		t.Fatalf("invalid params should keep defaults, got %+v", cfg.Params)
	}
	if FromMap(nil).Width != def.Width {
		t.Fatal("nil map should yield defaults")
	}
}

func TestEmptyBoundaryLetsSandFallOut(t *testing.T) {
	params := DefaultConfig().Params
	params.Boundary = "empty"
	w := newTestWorld(t, 3, 3, WithParams(params))
	mustSet(t, w, 1, 2, Sand)
	w.Step()
	// Out-of-grid neighbours read as empty, but cells never leave the grid.
	if w.Count(Sand) != 1 {
		t.Fatalf("sand must stay in the grid, count %d", w.Count(Sand))
	}
}

func TestPaletteIndexEncoding(t *testing.T) {
	if got := PaletteIndex(Cell{}); got != 0 {
		t.Fatalf("empty should map to 0, got %d", got)
	}
	if got := PaletteIndex(Cell{Element: Sand, Seed: 6}); got != uint8(Sand)<<2|2 {
		t.Fatalf("sand variant 2 should map to %d, got %d", uint8(Sand)<<2|2, got)
	}
	if got := PaletteIndex(Cell{Element: Wire, Charge: ChargeDischarging}); got != paletteSpark {
		t.Fatalf("live charge should map to the spark entry, got %d", got)
	}
	if got := PaletteIndex(Cell{Element: Wire, Charge: ChargeCooldown}); got == paletteSpark {
		t.Fatal("cooling conductors should show their own colour")
	}
	if got := PaletteIndex(Cell{Element: ElementID(70)}); got != paletteOverflow {
		t.Fatalf("ids past 62 should share the overflow entry, got %d", got)
	}
	id, ok := PaletteElement(PaletteIndex(Cell{Element: Water, Seed: 3}))
	if !ok || id != Water {
		t.Fatalf("decode water: %d %v", id, ok)
	}
	if _, ok := PaletteElement(paletteSpark); ok {
		t.Fatal("spark entry should not decode to an element")
	}
}

func TestPaletteDistinguishesElements(t *testing.T) {
	w := newTestWorld(t, 2, 2)
	pal := w.Palette()
	if len(pal) != 256 {
		t.Fatalf("expected 256 colours, got %d", len(pal))
	}
	if pal[int(Sand)<<2] == pal[int(Water)<<2] {
		t.Fatal("sand and water should not share a colour")
	}
	for _, id := range []ElementID{Sand, Water, Lava, Human} {
		if pal[int(id)<<2].A != 255 {
			t.Fatalf("element %d has a transparent colour", id)
		}
	}
	if &w.Palette()[0] != &pal[0] {
		t.Fatal("palette should be built once")
	}
}

func TestFrameMatchesCells(t *testing.T) {
	w := newTestWorld(t, 4, 3)
	mustSet(t, w, 1, 2, Stone)
	frame := w.Frame(nil)
	if len(frame) != 12 {
		t.Fatalf("frame length %d", len(frame))
	}
	if id, ok := PaletteElement(frame[2*4+1]); !ok || id != Stone {
		t.Fatalf("frame should show stone at (1,2), got %d", frame[2*4+1])
	}
	if w.Glyph(1, 2) != '#' || w.Glyph(9, 9) != ' ' {
		t.Fatal("unexpected glyphs")
	}
	if temps := w.Temperatures(nil); len(temps) != 12 || temps[0] != 20 {
		t.Fatalf("unexpected temperatures %v", temps)
	}
}

func TestBrushPaintsDisc(t *testing.T) {
	w := newTestWorld(t, 20, 20)
	if err := w.PlaceBrush(10, 10, 2, Stone); err != nil {
		t.Fatalf("brush: %v", err)
	}
	if n := w.Count(Stone); n != 13 {
		t.Fatalf("radius 2 disc should cover 13 cells, got %d", n)
	}
	if err := w.PlaceBrush(0, 0, 2, Stone); err != nil {
		t.Fatalf("edge brush: %v", err)
	}
	if n := w.Count(Stone); n != 13+6 {
		t.Fatalf("corner disc should clip to 6 cells, total %d", n)
	}
	if err := w.PlaceBrush(5, 5, 1, ElementID(99)); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("expected ErrInvalidElement, got %v", err)
	}
}

func TestExplodeSparesBlastProofCells(t *testing.T) {
	w := newTestWorld(t, 11, 11)
	mustSet(t, w, 5, 4, Wall)
	mustSet(t, w, 6, 5, Metal)
	mustSet(t, w, 4, 5, Wood)
	if err := w.Explode(5, 5, 3); err != nil {
		t.Fatalf("explode: %v", err)
	}
	if elementAt(t, w, 5, 4) != Wall || elementAt(t, w, 6, 5) != Metal {
		t.Fatal("blast proof cells should survive")
	}
	if elementAt(t, w, 4, 5) == Wood {
		t.Fatal("wood inside the radius should be consumed")
	}
	if err := w.Explode(50, 5, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	w.Step()
	var found bool
	for _, ev := range w.Events() {
		if ev.Kind == EventExplosion && ev.X == 5 && ev.Y == 5 {
			found = true
		}
	}
	if !found {
		t.Fatal("host explosion should be reported with the next tick")
	}
}

func TestLoadScene(t *testing.T) {
	w := newTestWorld(t, 40, 30)
	for _, name := range Scenes() {
		if err := w.LoadScene(name); err != nil {
			t.Fatalf("load %q: %v", name, err)
		}
	}
	if w.Mass() == 0 {
		t.Fatal("the last scene listed should leave something on the grid")
	}
	if err := w.LoadScene("demo"); err != nil {
		t.Fatalf("load demo: %v", err)
	}
	if w.Count(Human) != 2 || w.Count(Zombie) != 1 || w.Count(Water) == 0 {
		t.Fatalf("demo scene missing its cast: humans=%d zombies=%d", w.Count(Human), w.Count(Zombie))
	}
	if err := w.LoadScene("atlantis"); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
}

func TestParameters(t *testing.T) {
	w := newTestWorld(t, 8, 8)
	if !w.SetIntParameter("fire_spread", 180) {
		t.Fatal("fire_spread should be settable")
	}
	if w.SetIntParameter("acid_strength", 101) {
		t.Fatal("acid strength above 100 should be refused")
	}
	if w.SetIntParameter("nonsense", 1) {
		t.Fatal("unknown keys should be refused")
	}
	if !w.SetFloatParameter("ambient", -5) {
		t.Fatal("ambient should be settable")
	}
	snap := w.Parameters()
	p, ok := snap.Lookup("fire_spread")
	if !ok || p.Value != "180" {
		t.Fatalf("snapshot should report the new fire spread, got %+v", p)
	}
	if p, ok := snap.Lookup("ambient"); !ok || p.Value != "-5" {
		t.Fatalf("snapshot should report the new ambient, got %+v", p)
	}
	w.Step()
	if v, _ := w.GetCell(3, 3); v.Temp != -5 {
		t.Fatalf("empty cells should follow the new ambient, got %.2f", v.Temp)
	}
}
