package powder

import (
	"strconv"
	"strings"
)

// Params holds tunable policies for the powder sim. All of them are read
// between passes, so changing them between ticks is safe.
type Params struct {
	// AmbientTemp pins empty and static cells (°C).
	AmbientTemp float64
	// HeatScale multiplies every element's HeatOutput.
	HeatScale float64
	// AirDiffusion lets empty cells diffuse heat instead of staying ambient.
	AirDiffusion bool

	// Cooldown is how many ticks a discharged conductor stays inert.
	Cooldown int

	// FireSpread scales flammability chances, in percent.
	FireSpread int
	// AcidStrength is the percent chance per tick that acid eats a neighbour.
	AcidStrength int
	// ActorSight is the scan radius of humans and zombies, at most MaxActorSight.
	ActorSight int

	// Boundary names the element read outside the grid ("wall" or "empty").
	Boundary string

	// Workers splits the thermal pass into row bands; 1 runs it serially.
	Workers int

	MaxWidth  int
	MaxHeight int
}

// MaxActorSight caps ActorSight; every actor scans (2r+1)² cells per tick.
const MaxActorSight = 32

// Config controls the powder world.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params

	// Elements defaults to DefaultElements when nil.
	Elements *ElementTable
	// Logger defaults to a no-op logger when nil.
	Logger Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  160,
		Height: 120,
		Seed:   1337,
		Params: Params{
			AmbientTemp:  20,
			HeatScale:    1,
			Cooldown:     3,
			FireSpread:   100,
			AcidStrength: 50,
			ActorSight:   6,
			Boundary:     "wall",
			Workers:      1,
			MaxWidth:     4096,
			MaxHeight:    4096,
		},
	}
}

// Option adjusts a Config before a world is built.
type Option func(*Config)

// WithLogger injects a logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithElements injects a custom element table.
func WithElements(t *ElementTable) Option {
	return func(c *Config) { c.Elements = t }
}

// WithParams replaces the tunables.
func WithParams(p Params) Option {
	return func(c *Config) { c.Params = p }
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["ambient"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= float64(minTemp) && parsed <= float64(maxTemp) {
			c.Params.AmbientTemp = parsed
		}
	}
	if v, ok := cfg["heat_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.HeatScale = parsed
		}
	}
	if v, ok := cfg["air_diffusion"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.AirDiffusion = parsed
		}
	}
	if v, ok := cfg["cooldown"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 255 {
			c.Params.Cooldown = parsed
		}
	}
	if v, ok := cfg["fire_spread"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.FireSpread = parsed
		}
	}
	if v, ok := cfg["acid_strength"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 100 {
			c.Params.AcidStrength = parsed
		}
	}
	if v, ok := cfg["actor_sight"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= MaxActorSight {
			c.Params.ActorSight = parsed
		}
	}
	if v, ok := cfg["boundary"]; ok {
		switch strings.ToLower(v) {
		case "wall", "empty":
			c.Params.Boundary = strings.ToLower(v)
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Workers = parsed
		}
	}
	if v, ok := cfg["max_w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.MaxWidth = parsed
		}
	}
	if v, ok := cfg["max_h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.MaxHeight = parsed
		}
	}
	return c
}
