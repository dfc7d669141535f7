package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for a reduction run
type Config struct {
	Model string `koanf:"model"` // Path to the JSON model file

	CoreSubsystems []string `koanf:"core-subsystems"` // Subsystems always retained
	Subsystems     []string `koanf:"subsystems"`      // Subsystems searched pairwise (defaults to core)

	CarbonUptake float64 `koanf:"carbon-uptake"` // Passed through to downstream consumers

	CofactorPairs    []string `koanf:"cofactor-pairs"`
	SmallMetabolites []string `koanf:"small-metabolites"`
	Inorganics       []string `koanf:"inorganics"`
	Extracellular    []string `koanf:"extracellular"`

	Depth              int `koanf:"depth"`               // Inter-subsystem search depth d
	ExtracellularDepth int `koanf:"extracellular-depth"` // Extracellular search depth n
	MaxPaths           int `koanf:"max-paths"`           // Path enumeration budget (0 = unlimited)

	Web     bool   `koanf:"web"`
	Port    int    `koanf:"port"`
	Watch   bool   `koanf:"watch"`
	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"` // Optional path to write the reduced model to
}

// Load loads configuration from defaults, config file, environment variables,
// and flags. Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"model":               "",
		"core-subsystems":     []string{},
		"subsystems":          []string{},
		"carbon-uptake":       0.0,
		"cofactor-pairs":      []string{},
		"small-metabolites":   []string{},
		"inorganics":          []string{},
		"extracellular":       []string{},
		"depth":               1,
		"extracellular-depth": 0,
		"max-paths":           0,
		"web":                 false,
		"port":                8080,
		"watch":               false,
		"verbose":             false,
		"output":              "",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - redgem.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("redgem.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: REDGEM_ (e.g., REDGEM_DEPTH=4)
	if err := k.Load(env.Provider("REDGEM_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "REDGEM_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the algorithm cannot run with
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("depth must be non-negative, got %d", c.Depth)
	}
	if c.ExtracellularDepth < 0 {
		return fmt.Errorf("extracellular-depth must be non-negative, got %d", c.ExtracellularDepth)
	}
	if c.MaxPaths < 0 {
		return fmt.Errorf("max-paths must be non-negative, got %d", c.MaxPaths)
	}
	if len(c.CoreSubsystems) == 0 && len(c.Subsystems) == 0 {
		return fmt.Errorf("at least one core subsystem is required")
	}
	return nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
