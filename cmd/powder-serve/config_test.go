package main

import (
	"flag"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, invalid, err := loadServerConfig(fs, nil, envMap(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid settings %v", invalid)
	}
	if cfg.Addr != ":8080" || cfg.W != 160 || cfg.H != 120 || cfg.TPS != 30 || cfg.Boundary != "wall" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestConfigFlagBeatsEnv(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	env := envMap(map[string]string{"POWDER_ADDR": ":9000", "POWDER_W": "64", "POWDER_SEED": "7"})
	cfg, _, err := loadServerConfig(fs, []string{"-addr", ":7000"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("flag should win, got %q", cfg.Addr)
	}
	if cfg.W != 64 || cfg.Seed != 7 {
		t.Fatalf("env values not applied: %+v", cfg)
	}
}

func TestConfigInvalidFallsBack(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	env := envMap(map[string]string{"POWDER_TPS": "fast", "POWDER_BOUNDARY": "lava"})
	cfg, invalid, err := loadServerConfig(fs, []string{"-h", "-3"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TPS != 30 || cfg.H != 120 || cfg.Boundary != "wall" {
		t.Fatalf("invalid values should fall back: %+v", cfg)
	}
	if len(invalid) != 3 {
		t.Fatalf("expected 3 invalid settings, got %v", invalid)
	}
	if m := cfg.simConfig(); m["h"] != "120" || m["boundary"] != "wall" {
		t.Fatalf("unexpected sim config %v", m)
	}
}
