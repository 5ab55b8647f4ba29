package main

import "testing"

func TestParseVary(t *testing.T) {
	sets, err := parseVary("fire_spread=50, 100,200")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sets) != 3 || sets[1]["fire_spread"] != "100" {
		t.Fatalf("unexpected sets %v", sets)
	}
	if sets, err := parseVary(""); err != nil || sets != nil {
		t.Fatalf("empty flag should yield no sets, got %v %v", sets, err)
	}
	if _, err := parseVary("fire_spread"); err == nil {
		t.Fatal("missing values should fail")
	}
}

func TestKVListRejectsBareKeys(t *testing.T) {
	var l kvList
	if err := l.Set("ambient=40"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := l.Set("ambient"); err == nil {
		t.Fatal("bare key should be rejected")
	}
	if l.String() != "ambient=40" {
		t.Fatalf("String() = %q", l.String())
	}
}
