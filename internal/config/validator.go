package config

import (
	"fmt"
	"slices"
	"strings"

	"lifegrid/internal/life"
)

// Backends
const (
	BackendCPU    = "cpu"
	BackendOpenCL = "opencl"
)

// Render modes
const (
	RenderText   = "text"
	RenderTUI    = "tui"
	RenderWindow = "window"
	RenderNone   = "none"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "grid.size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidBackends returns the list of valid compute backends
func ValidBackends() []string {
	return []string{BackendCPU, BackendOpenCL}
}

// ValidRenderModes returns the list of valid render modes
func ValidRenderModes() []string {
	return []string{RenderText, RenderTUI, RenderWindow, RenderNone}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Grid.Size < 1 || c.Grid.Size > MaxGridSize {
		errs = append(errs, ValidationError{
			Field:   "grid.size",
			Value:   c.Grid.Size,
			Message: fmt.Sprintf("must be between 1 and %d", MaxGridSize),
		})
	}
	if c.Workers < 1 {
		errs = append(errs, ValidationError{
			Field:   "workers",
			Value:   c.Workers,
			Message: "must be at least 1",
		})
	} else if c.Grid.Size >= 1 && c.Workers > c.Grid.Size {
		errs = append(errs, ValidationError{
			Field:   "workers",
			Value:   c.Workers,
			Message: fmt.Sprintf("must not exceed grid.size (%d); every worker needs at least one row", c.Grid.Size),
		})
	}
	if c.Generations < 0 {
		errs = append(errs, ValidationError{
			Field:   "generations",
			Value:   c.Generations,
			Message: "must not be negative",
		})
	}
	if !slices.Contains(ValidBackends(), strings.ToLower(c.Backend)) {
		errs = append(errs, ValidationError{
			Field:   "backend",
			Value:   c.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if !slices.Contains(ValidRenderModes(), strings.ToLower(c.Render.Mode)) {
		errs = append(errs, ValidationError{
			Field:   "render.mode",
			Value:   c.Render.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidRenderModes(), ", ")),
		})
	}
	if c.Render.Delay < 0 {
		errs = append(errs, ValidationError{
			Field:   "render.delay",
			Value:   c.Render.Delay,
			Message: "must not be negative",
		})
	}
	if c.Render.Scale < 1 {
		errs = append(errs, ValidationError{
			Field:   "render.scale",
			Value:   c.Render.Scale,
			Message: "must be at least 1",
		})
	}

	for i, s := range c.Seed {
		if _, ok := life.PatternByName(s.Pattern); !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("seed[%d].pattern", i),
				Value:   s.Pattern,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(life.PatternNames(), ", ")),
			})
		}
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errs
}
