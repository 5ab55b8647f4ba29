package powder

import (
	"errors"
	"testing"
)

func TestDefaultTableIsDense(t *testing.T) {
	table := DefaultElements()
	if table.Len() != ElementCount {
		t.Fatalf("expected %d elements, got %d", ElementCount, table.Len())
	}
	for i, e := range table.All() {
		if int(e.ID) != i {
			t.Fatalf("descriptor %q at %d carries id %d", e.Name, i, e.ID)
		}
	}
	if e := table.Get(Empty); e.Category != CategoryEmpty {
		t.Fatalf("id 0 should be empty, got %s", e.Category)
	}
}

func TestByNameNormalizes(t *testing.T) {
	table := DefaultElements()
	for _, name := range []string{"salt water", "SALT_WATER", " Salt-Water ", "saltwater"} {
		id, ok := table.ByName(name)
		if !ok || id != SaltWater {
			t.Fatalf("ByName(%q) = %d, %v", name, id, ok)
		}
	}
	if _, ok := table.ByName("phlogiston"); ok {
		t.Fatal("unknown names should not resolve")
	}
}

func TestGetUnknownIsInert(t *testing.T) {
	table := DefaultElements()
	e := table.Get(ElementID(250))
	if e.Moves() || e.Flammable() || e.Conductive() {
		t.Fatalf("unknown ids should behave as inert, got %+v", e)
	}
	if _, ok := table.Lookup(ElementID(250)); ok {
		t.Fatal("Lookup should report unknown ids")
	}
}

func TestDensityOrdering(t *testing.T) {
	table := DefaultElements()
	d := func(id ElementID) int { return table.Get(id).Density }
	if !(d(Mercury) > d(Sand) && d(Sand) > d(Water) && d(Water) > d(Oil)) {
		t.Fatal("expected mercury > sand > water > oil")
	}
	if !(d(Hydrogen) < d(Steam) && d(Steam) < d(Smoke) && d(Smoke) < d(Chlorine)) {
		t.Fatal("expected hydrogen < steam < smoke < chlorine")
	}
	if d(SaltWater) <= d(Water) {
		t.Fatal("salt water should sink below fresh water")
	}
}

func TestNewElementTableValidates(t *testing.T) {
	base := func() []Element { return DefaultElements().All() }

	dup := base()
	dup[Oil].Name = "water"
	sparse := base()
	sparse[3].ID = 7
	solidZero := base()
	solidZero[0].Category = CategorySolid
	badTarget := base()
	badTarget[Ice].Melt.Into = ElementID(len(badTarget) + 3)
	unnamed := base()
	unnamed[Sand].Name = "  "

	cases := map[string][]Element{
		"duplicate name":    dup,
		"sparse ids":        sparse,
		"non-empty zero":    solidZero,
		"bad transition":    badTarget,
		"missing name":      unnamed,
		"empty descriptors": nil,
	}
	for name, descs := range cases {
		if _, err := NewElementTable(descs); !errors.Is(err, ErrInvalidElement) {
			t.Errorf("%s: expected ErrInvalidElement, got %v", name, err)
		}
	}
}

func TestNewElementTableClampsTuning(t *testing.T) {
	descs := DefaultElements().All()
	descs[Sand].FallPeriod = 0
	descs[Stone].HeatConductivity = 4
	descs[Wood].HeatConductivity = -1
	table, err := NewElementTable(descs)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if table.Get(Sand).FallPeriod != 1 {
		t.Fatalf("fall period should default to 1, got %d", table.Get(Sand).FallPeriod)
	}
	if table.Get(Stone).HeatConductivity != 1 || table.Get(Wood).HeatConductivity != 0 {
		t.Fatal("conductivity should clamp to [0, 1]")
	}
	// The caller's slice is not aliased.
	descs[Sand].Name = "Changed"
	if table.Get(Sand).Name != "Sand" {
		t.Fatal("table should copy its descriptors")
	}
}

func TestCustomTableWithoutTail(t *testing.T) {
	descs := DefaultElements().All()[:int(Stone)+1]
	for i := range descs {
		descs[i].Melt, descs[i].Freeze, descs[i].Boil = Transition{}, Transition{}, Transition{}
	}
	table, err := NewElementTable(descs)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	w := newTestWorld(t, 6, 6, WithElements(table))
	mustSet(t, w, 2, 0, Sand)
	if err := w.SetCell(1, 1, Human); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("ids beyond the table should be rejected, got %v", err)
	}
	if err := w.Strike(3, 0); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("a table without lightning cannot strike, got %v", err)
	}
	for i := 0; i < 10; i++ {
		w.Step()
	}
	if w.Count(Sand) != 1 {
		t.Fatal("a trimmed table should still simulate")
	}
}

func TestTrimmedTableNeverSpawnsUnknownIDs(t *testing.T) {
	descs := DefaultElements().All()[:int(Stone)+1]
	for i := range descs {
		descs[i].Melt, descs[i].Freeze, descs[i].Boil = Transition{}, Transition{}, Transition{}
	}
	table, err := NewElementTable(descs)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	params := DefaultConfig().Params
	params.AcidStrength = 100
	w := newTestWorld(t, 3, 3, WithElements(table), WithParams(params))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			mustSet(t, w, x, y, Stone)
		}
	}
	mustSet(t, w, 1, 1, Acid)
	for i := 0; i < 3; i++ {
		w.Step()
	}
	if err := w.Explode(1, 1, 2); err != nil {
		t.Fatalf("explode: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if id := elementAt(t, w, x, y); !table.Valid(id) {
				t.Fatalf("cell (%d,%d) holds id %d outside the table", x, y, id)
			}
		}
	}
}
