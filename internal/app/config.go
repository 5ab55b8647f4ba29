package app

import (
	"flag"
	"strconv"

	"powder-ca/pkg/sims/powder"
)

// Config represents the command-line parameters shared by the powder hosts.
type Config struct {
	W     int
	H     int
	Scale int
	TPS   int
	Seed  int64

	Scene        string
	Brush        string
	Boundary     string
	Workers      int
	AirDiffusion bool

	LogLevel string
	Mute     bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		W:        160,
		H:        120,
		Scale:    4,
		TPS:      60,
		Seed:     1337,
		Scene:    "demo",
		Brush:    "sand",
		Boundary: "wall",
		Workers:  1,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.W, "w", c.W, "grid width in cells")
	fs.IntVar(&c.H, "h", c.H, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for world creation and reset")
	fs.StringVar(&c.Scene, "scene", c.Scene, "starting scene (empty, demo, circuit)")
	fs.StringVar(&c.Brush, "brush", c.Brush, "element selected at start")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "element outside the grid (wall or empty)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "thermal pass worker count")
	fs.BoolVar(&c.AirDiffusion, "air-diffusion", c.AirDiffusion, "let empty cells carry heat")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable sound")
}

// SimConfig renders the world settings as the key/value map read by
// powder.FromMap and the sim registry.
func (c *Config) SimConfig() map[string]string {
	return map[string]string{
		"w":             strconv.Itoa(c.W),
		"h":             strconv.Itoa(c.H),
		"seed":          strconv.FormatInt(c.Seed, 10),
		"boundary":      c.Boundary,
		"workers":       strconv.Itoa(c.Workers),
		"air_diffusion": strconv.FormatBool(c.AirDiffusion),
	}
}

// NewWorld builds the world and loads the starting scene.
func (c *Config) NewWorld(log powder.Logger) (*powder.World, error) {
	cfg := powder.FromMap(c.SimConfig())
	cfg.Logger = log
	w, err := powder.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	if c.Scene != "" {
		if err := w.LoadScene(c.Scene); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// BrushElement resolves the configured brush, falling back to sand.
func (c *Config) BrushElement(w *powder.World) powder.ElementID {
	if id, ok := w.Elements().ByName(c.Brush); ok && id != powder.Empty {
		return id
	}
	return powder.Sand
}
