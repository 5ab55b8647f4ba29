package core

import (
	"testing"
	"time"
)

func TestFixedStepDueCapsBacklog(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return now }
	fs.SetMaxPerFrame(3)

	if got := fs.Due(); got != 1 {
		t.Fatalf("first frame should run the primed tick, got %d", got)
	}

	now = now.Add(250 * time.Millisecond)
	if got := fs.Due(); got != 2 {
		t.Fatalf("expected 2 ticks after 250ms at 10 TPS, got %d", got)
	}

	now = now.Add(5 * time.Second)
	if got := fs.Due(); got != 3 {
		t.Fatalf("expected backlog capped at 3, got %d", got)
	}
	if got := fs.Due(); got != 0 {
		t.Fatalf("dropped backlog must not replay, got %d", got)
	}
}

func TestFixedStepShouldStep(t *testing.T) {
	now := time.Unix(100, 0)
	fs := NewFixedStep(0)
	fs.now = func() time.Time { return now }
	if fs.Interval() != time.Second/60 {
		t.Fatalf("non-positive TPS should default to 60, got %v", fs.Interval())
	}
	if !fs.ShouldStep() {
		t.Fatal("primed accumulator should step immediately")
	}
	if fs.ShouldStep() {
		t.Fatal("no time elapsed, should not step")
	}
	now = now.Add(time.Second / 30)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after two intervals")
	}
}
