package ui

import (
	"testing"

	"powder-ca/pkg/core"
	"powder-ca/pkg/sims/powder"
)

func newPanel(t *testing.T) (*Panel, *powder.World) {
	t.Helper()
	w, err := powder.Create(8, 8, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p := NewPanel(w, 220)
	p.Refresh(w.Parameters())
	return p, w
}

func findControl(t *testing.T, p *Panel, key string) *controlState {
	t.Helper()
	for i := range p.controls {
		if p.controls[i].control.Key == key {
			return &p.controls[i]
		}
	}
	t.Fatalf("no control %q", key)
	return nil
}

func TestPanelRefreshReadsSnapshot(t *testing.T) {
	p, w := newPanel(t)
	for _, s := range p.controls {
		if !s.hasValue {
			t.Fatalf("control %q has no value", s.control.Key)
		}
	}
	fire := findControl(t, p, "fire_spread")
	want, _ := w.Parameters().Lookup("fire_spread")
	if fire.value != want.Value {
		t.Fatalf("fire_spread shows %q, want %q", fire.value, want.Value)
	}
}

func TestPanelPlusButtonSteps(t *testing.T) {
	p, w := newPanel(t)
	fire := findControl(t, p, "fire_spread")
	before := fire.intValue
	r := fire.plusRect
	if !p.Click(r.Min.X+1, r.Min.Y+1) {
		t.Fatal("click on plus was not consumed")
	}
	got, _ := w.Parameters().Lookup("fire_spread")
	if fire.intValue != before+10 || got.Value != fire.value {
		t.Fatalf("fire_spread %d -> %d, world reports %s", before, fire.intValue, got.Value)
	}
}

func TestPanelRespectsBounds(t *testing.T) {
	p, w := newPanel(t)
	if !w.SetIntParameter("acid_strength", 100) {
		t.Fatal("set acid_strength")
	}
	p.Refresh(w.Parameters())
	acid := findControl(t, p, "acid_strength")
	if p.canAdjust(acid, 1) {
		t.Fatal("acid_strength at max should not step up")
	}
	if !p.canAdjust(acid, -1) {
		t.Fatal("acid_strength at max should step down")
	}

	ambient := findControl(t, p, "ambient")
	ambient.floatValue = -271
	if v, ok := ambient.target(-1); !ok || v != -273 {
		t.Fatalf("ambient should clamp to -273, got %v %v", v, ok)
	}
}

func TestPanelSwatchSelection(t *testing.T) {
	p, _ := newPanel(t)
	if p.Selected() == powder.Empty {
		t.Fatal("panel should never select empty")
	}
	last := p.swatches[len(p.swatches)-1]
	if !p.Click(last.rect.Min.X, last.rect.Min.Y) {
		t.Fatal("click on swatch was not consumed")
	}
	if p.Selected() != last.id {
		t.Fatalf("selected %d, want %d", p.Selected(), last.id)
	}
	p.Cycle(1)
	if p.Selected() != p.swatches[0].id {
		t.Fatal("cycling past the end should wrap")
	}
	p.Select(powder.Lava)
	if p.Selected() != powder.Lava {
		t.Fatal("Select should pick lava")
	}
	if p.Click(-5, -5) {
		t.Fatal("click outside every widget should not be consumed")
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		step  float64
		value float64
		want  string
	}{
		{5, 20, "20"},
		{0.1, 1.3, "1.3"},
		{0.05, 0.5, "0.50"},
		{0.0005, 0.1, "0.1000"},
	}
	for _, c := range cases {
		got := formatFloat(core.ParameterControl{Step: c.step}, c.value)
		if got != c.want {
			t.Fatalf("formatFloat(step %v, %v) = %q, want %q", c.step, c.value, got, c.want)
		}
	}
}
