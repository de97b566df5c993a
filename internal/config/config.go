package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lifegrid/internal/life"
)

// Config represents the complete lifegrid configuration
type Config struct {
	Grid        GridConfig    `mapstructure:"grid" yaml:"grid"`
	Workers     int           `mapstructure:"workers" yaml:"workers"`
	Generations int           `mapstructure:"generations" yaml:"generations"`
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	Render      RenderConfig  `mapstructure:"render" yaml:"render"`
	Seed        []SeedConfig  `mapstructure:"seed" yaml:"seed,omitempty"`
	Logging     LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Profile     ProfileConfig `mapstructure:"profile" yaml:"profile"`
}

// GridConfig controls the board
type GridConfig struct {
	// Size is the grid dimension N; the board is N×N
	Size int `mapstructure:"size" yaml:"size"`
}

// RenderConfig controls how each generation is displayed
type RenderConfig struct {
	// Mode selects the renderer: "text", "tui", "window" or "none"
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Delay is the pause after each frame
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
	// Scale is the on-screen pixel size of one cell (window mode only)
	Scale int `mapstructure:"scale" yaml:"scale"`
	// Color enables styled output in text and tui modes
	Color bool `mapstructure:"color" yaml:"color"`
}

// SeedConfig places one built-in pattern with its top-left corner at (Row, Col)
type SeedConfig struct {
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Row     int    `mapstructure:"row" yaml:"row"`
	Col     int    `mapstructure:"col" yaml:"col"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "text" or "json"
	Format string `mapstructure:"format" yaml:"format"`
	// File appends logs to a file instead of stderr
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// ProfileConfig controls optional profiling
type ProfileConfig struct {
	// CPU is the path of a pprof CPU profile written for the run
	CPU string `mapstructure:"cpu" yaml:"cpu,omitempty"`
}

// Simulation defaults. The pacing delay and board dimensions match the
// classic 20×20, four-worker, 32-generation demo.
const (
	DefaultGridSize    = 20
	DefaultWorkers     = 4
	DefaultGenerations = 32
	DefaultDelay       = 500 * time.Millisecond
	DefaultScale       = 16
	MaxGridSize        = 4096
)

// Default returns a Config with all default values
func Default() *Config {
	return &Config{
		Grid:        GridConfig{Size: DefaultGridSize},
		Workers:     DefaultWorkers,
		Generations: DefaultGenerations,
		Backend:     BackendCPU,
		Render: RenderConfig{
			Mode:  RenderText,
			Delay: DefaultDelay,
			Scale: DefaultScale,
			Color: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("grid.size", defaults.Grid.Size)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("generations", defaults.Generations)
	v.SetDefault("backend", defaults.Backend)

	v.SetDefault("render.mode", defaults.Render.Mode)
	v.SetDefault("render.delay", defaults.Render.Delay)
	v.SetDefault("render.scale", defaults.Render.Scale)
	v.SetDefault("render.color", defaults.Render.Color)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", "")

	v.SetDefault("profile.cpu", "")
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Placements resolves the configured seed into pattern placements. An empty
// seed list yields the default seed.
func (c *Config) Placements() ([]life.Placement, error) {
	if len(c.Seed) == 0 {
		return life.DefaultSeed(), nil
	}
	out := make([]life.Placement, 0, len(c.Seed))
	for i, s := range c.Seed {
		p, ok := life.PatternByName(s.Pattern)
		if !ok {
			return nil, fmt.Errorf("seed[%d]: unknown pattern %q (known: %s)",
				i, s.Pattern, strings.Join(life.PatternNames(), ", "))
		}
		out = append(out, life.Placement{Pattern: p, Row: s.Row, Col: s.Col})
	}
	return out, nil
}

// BalancedBands reports whether the grid rows divide evenly across workers
func (c *Config) BalancedBands() bool {
	return c.Workers > 0 && c.Grid.Size%c.Workers == 0
}
