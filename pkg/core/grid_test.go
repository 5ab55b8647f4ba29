package core

import "testing"

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Cells()[g.Index(3, 2)] = 9
	if g.At(3, 2) != 9 {
		t.Fatalf("expected 9 at (3,2), got %d", g.At(3, 2))
	}
	for _, p := range [][2]int{{-1, 0}, {4, 0}, {0, 3}, {0, -1}} {
		if g.In(p[0], p[1]) {
			t.Fatalf("(%d,%d) should be outside", p[0], p[1])
		}
		if g.At(p[0], p[1]) != 0 {
			t.Fatalf("out of range read should be zero")
		}
	}
}

func TestByteGridResizeClears(t *testing.T) {
	g := NewByteGrid(2, 2)
	g.Cells()[0] = 1
	g.Resize(2, 2)
	if g.Cells()[0] != 0 {
		t.Fatal("same-size resize should clear")
	}
	g.Resize(5, 1)
	if g.W != 5 || g.H != 1 || len(g.Cells()) != 5 {
		t.Fatalf("unexpected dims %dx%d len %d", g.W, g.H, len(g.Cells()))
	}
}

func TestParameterSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{IntParam("w", "Width", 8)}},
		{Name: "b", Params: []Parameter{FloatParam("k", "K", 0.5), BoolParam("on", "On", true)}},
	}}
	p, ok := snap.Lookup("k")
	if !ok || p.Value != "0.5" || p.Type != ParamTypeFloat {
		t.Fatalf("unexpected lookup result %+v ok=%v", p, ok)
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Fatal("missing key should not resolve")
	}
}
