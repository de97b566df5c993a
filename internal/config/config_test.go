package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"lifegrid/internal/life"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Size != 20 {
		t.Errorf("Grid.Size = %d, want 20", cfg.Grid.Size)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Generations != 32 {
		t.Errorf("Generations = %d, want 32", cfg.Generations)
	}
	if cfg.Render.Delay != 500*time.Millisecond {
		t.Errorf("Render.Delay = %v, want 500ms", cfg.Render.Delay)
	}
	if cfg.Render.Mode != RenderText || cfg.Backend != BackendCPU {
		t.Errorf("Render.Mode = %q, Backend = %q", cfg.Render.Mode, cfg.Backend)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid: %v", ValidationErrors(errs))
	}
	if !cfg.BalancedBands() {
		t.Error("20 rows across 4 workers should be balanced")
	}
}

func TestLoadFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Size != DefaultGridSize || cfg.Render.Delay != DefaultDelay || !cfg.Render.Color {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifegrid.yaml")
	content := `
grid:
  size: 30
workers: 7
generations: 100
render:
  mode: none
  delay: 20ms
seed:
  - pattern: glider
    row: 0
    col: 0
  - pattern: Block
    row: 20
    col: 20
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Size != 30 || cfg.Workers != 7 || cfg.Generations != 100 {
		t.Errorf("grid/workers/generations = %d/%d/%d", cfg.Grid.Size, cfg.Workers, cfg.Generations)
	}
	if cfg.Render.Mode != RenderNone || cfg.Render.Delay != 20*time.Millisecond {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Scale != DefaultScale {
		t.Errorf("unset render.scale should keep default, got %d", cfg.Render.Scale)
	}
	if cfg.BalancedBands() {
		t.Error("30 rows across 7 workers is not balanced")
	}

	placements, err := cfg.Placements()
	if err != nil {
		t.Fatal(err)
	}
	if len(placements) != 2 || placements[0].Pattern.Name != "glider" || placements[1].Pattern.Name != "block" {
		t.Fatalf("Placements() = %+v", placements)
	}
	if placements[1].Row != 20 || placements[1].Col != 20 {
		t.Errorf("block placed at (%d,%d)", placements[1].Row, placements[1].Col)
	}
}

func TestPlacementsDefaultSeed(t *testing.T) {
	placements, err := Default().Placements()
	if err != nil {
		t.Fatal(err)
	}
	if len(placements) != len(life.DefaultSeed()) {
		t.Errorf("empty seed should resolve to the default seed, got %+v", placements)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero size", func(c *Config) { c.Grid.Size = 0 }, "grid.size"},
		{"huge size", func(c *Config) { c.Grid.Size = MaxGridSize + 1 }, "grid.size"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"workers exceed rows", func(c *Config) { c.Grid.Size = 3; c.Workers = 4 }, "workers"},
		{"negative generations", func(c *Config) { c.Generations = -1 }, "generations"},
		{"bad backend", func(c *Config) { c.Backend = "cuda" }, "backend"},
		{"bad render mode", func(c *Config) { c.Render.Mode = "sdl" }, "render.mode"},
		{"negative delay", func(c *Config) { c.Render.Delay = -time.Second }, "render.delay"},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, "render.scale"},
		{"unknown pattern", func(c *Config) { c.Seed = []SeedConfig{{Pattern: "pulsar"}} }, "seed[0].pattern"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("workers", 0)
	v.Set("render.mode", "sdl")

	_, err := Load(v)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load() error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d validation errors, want 2", len(verrs))
	}
	if !strings.Contains(err.Error(), "2 validation errors") {
		t.Errorf("Error() = %q", err.Error())
	}
}
