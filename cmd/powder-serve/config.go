package main

import (
	"flag"
	"strconv"
	"strings"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Addr     string
	W        int
	H        int
	Seed     int64
	TPS      int
	Scene    string
	Workers  int
	Boundary string
	LogLevel string
}

// configResolver defines how to resolve a single configuration value.
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string) bool
}

var resolvers = []configResolver{
	{
		flagName:    "addr",
		envVarName:  "POWDER_ADDR",
		defaultVal:  ":8080",
		description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
		setter:      func(c *ServerConfig, v string) bool { c.Addr = v; return true },
	},
	{
		flagName:    "w",
		envVarName:  "POWDER_W",
		defaultVal:  "160",
		description: "grid width in cells",
		setter:      intSetter(func(c *ServerConfig, v int) { c.W = v }),
	},
	{
		flagName:    "h",
		envVarName:  "POWDER_H",
		defaultVal:  "120",
		description: "grid height in cells",
		setter:      intSetter(func(c *ServerConfig, v int) { c.H = v }),
	},
	{
		flagName:    "seed",
		envVarName:  "POWDER_SEED",
		defaultVal:  "1337",
		description: "world seed",
		setter: func(c *ServerConfig, v string) bool {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return false
			}
			c.Seed = parsed
			return true
		},
	},
	{
		flagName:    "tps",
		envVarName:  "POWDER_TPS",
		defaultVal:  "30",
		description: "ticks (and frames) per second",
		setter:      intSetter(func(c *ServerConfig, v int) { c.TPS = v }),
	},
	{
		flagName:    "scene",
		envVarName:  "POWDER_SCENE",
		defaultVal:  "demo",
		description: "starting scene (empty, demo, circuit)",
		setter:      func(c *ServerConfig, v string) bool { c.Scene = v; return true },
	},
	{
		flagName:    "workers",
		envVarName:  "POWDER_WORKERS",
		defaultVal:  "1",
		description: "thermal pass worker count",
		setter:      intSetter(func(c *ServerConfig, v int) { c.Workers = v }),
	},
	{
		flagName:    "boundary",
		envVarName:  "POWDER_BOUNDARY",
		defaultVal:  "wall",
		description: "element outside the grid (wall or empty)",
		setter: func(c *ServerConfig, v string) bool {
			v = strings.ToLower(v)
			if v != "wall" && v != "empty" {
				return false
			}
			c.Boundary = v
			return true
		},
	},
	{
		flagName:    "log-level",
		envVarName:  "POWDER_LOG_LEVEL",
		defaultVal:  "info",
		description: "Log level: debug, info, warn, error",
		setter:      func(c *ServerConfig, v string) bool { c.LogLevel = v; return true },
	},
}

func intSetter(set func(*ServerConfig, int)) func(*ServerConfig, string) bool {
	return func(c *ServerConfig, v string) bool {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return false
		}
		set(c, parsed)
		return true
	}
}

// loadServerConfig resolves every option from flags, then the environment,
// then the default. Values that fail to parse fall back to the default and
// are reported in the returned list.
func loadServerConfig(fs *flag.FlagSet, args []string, getenv func(string) string) (ServerConfig, []string, error) {
	cfg := ServerConfig{}

	flagVars := make(map[string]*string, len(resolvers))
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = fs.String(resolver.flagName, "", resolver.description)
	}
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	var invalid []string
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		if !resolver.setter(&cfg, value) {
			invalid = append(invalid, resolver.flagName+"="+value)
			resolver.setter(&cfg, resolver.defaultVal)
		}
	}
	return cfg, invalid, nil
}

// simConfig renders the world settings for powder.FromMap.
func (c ServerConfig) simConfig() map[string]string {
	return map[string]string{
		"w":        strconv.Itoa(c.W),
		"h":        strconv.Itoa(c.H),
		"seed":     strconv.FormatInt(c.Seed, 10),
		"workers":  strconv.Itoa(c.Workers),
		"boundary": c.Boundary,
	}
}
