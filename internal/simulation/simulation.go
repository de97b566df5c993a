// Package simulation drives a Game of Life run: it owns the current and
// staging grids, seeds the board, and advances it one generation per round,
// handing every generation to a renderer before it is advanced.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifegrid/internal/life"
	"lifegrid/internal/logging"
)

// Frame is the grid as it stands at the start of a generation. Grid is only
// valid for the duration of the Render call; renderers that keep it must
// clone it.
type Frame struct {
	Generation int
	Total      int
	Grid       *life.Grid
}

// Renderer displays frames. Pacing between frames is the renderer's concern.
type Renderer interface {
	Render(Frame) error
}

// Host is implemented by renderers that must own the calling goroutine, such
// as window and terminal event loops. Host runs the event loop and calls run
// on another goroutine; it returns once both have finished.
type Host interface {
	Host(ctx context.Context, run func(context.Context) error) error
}

// Stepper advances the current grid by exactly one generation per Step.
type Stepper interface {
	Step() error
	Close() error
}

// Options configures a Simulation.
type Options struct {
	Size    int
	Workers int
	// Seed is overlaid on an all-dead grid. Nil means life.DefaultSeed().
	Seed []life.Placement
	// PoolOptions are passed to the CPU worker pool.
	PoolOptions []life.PoolOption
	// NewStepper replaces the CPU worker pool with another backend.
	NewStepper func(cur, staging *life.Grid) (Stepper, error)
}

// Simulation owns the grids and the stepper for a single run.
type Simulation struct {
	opts       Options
	cur        *life.Grid
	staging    *life.Grid
	stepper    Stepper
	renderer   Renderer
	log        *logging.Logger
	generation int
}

type discardRenderer struct{}

func (discardRenderer) Render(Frame) error { return nil }

// New allocates and seeds the grids and starts the stepper. A nil renderer
// discards frames; a nil logger discards logs.
func New(opts Options, renderer Renderer, log *logging.Logger) (*Simulation, error) {
	if renderer == nil {
		renderer = discardRenderer{}
	}
	if log == nil {
		log = logging.NopLogger()
	}
	if opts.Size < 1 {
		return nil, fmt.Errorf("grid size must be positive, got %d", opts.Size)
	}
	seed := opts.Seed
	if seed == nil {
		seed = life.DefaultSeed()
	}

	s := &Simulation{
		opts:     opts,
		cur:      life.NewGrid(opts.Size),
		staging:  life.NewGrid(opts.Size),
		renderer: renderer,
		log:      log,
	}
	if err := life.Seed(s.cur, seed); err != nil {
		return nil, err
	}

	var err error
	if opts.NewStepper != nil {
		s.stepper, err = opts.NewStepper(s.cur, s.staging)
	} else {
		poolOpts := append([]life.PoolOption{life.WithLogger(log.With("component", "pool"))}, opts.PoolOptions...)
		s.stepper, err = life.NewPool(s.cur, s.staging, opts.Workers, poolOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("starting stepper: %w", err)
	}
	return s, nil
}

// Current returns the live grid. It must not be read while Run is advancing it
// except from within a Render call.
func (s *Simulation) Current() *life.Grid { return s.cur }

// Generation returns the number of completed generations.
func (s *Simulation) Generation() int { return s.generation }

// Run renders and advances the grid maxGenerations times, then stops the
// stepper. Cancellation is only observed between rounds. Run must be called
// at most once.
func (s *Simulation) Run(ctx context.Context, maxGenerations int) (err error) {
	defer func() {
		if cerr := s.stepper.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("stopping stepper: %w", cerr))
		}
	}()

	s.logStart(maxGenerations)
	start := time.Now()
	for gen := 0; gen < maxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			s.log.Warn("simulation interrupted", "generation", gen, "error", err)
			return fmt.Errorf("stopped before generation %d: %w", gen, err)
		}
		if err := s.renderer.Render(Frame{Generation: gen, Total: maxGenerations, Grid: s.cur}); err != nil {
			return fmt.Errorf("rendering generation %d: %w", gen, err)
		}
		if err := s.stepper.Step(); err != nil {
			s.log.Error("generation failed", "generation", gen, "error", err)
			return fmt.Errorf("advancing generation %d: %w", gen, err)
		}
		s.generation = gen + 1
		s.log.Debug("generation committed", "generation", s.generation, "population", s.cur.Population())
	}
	s.log.Info("simulation finished",
		"generations", s.generation,
		"population", s.cur.Population(),
		"elapsed", time.Since(start))
	return nil
}

func (s *Simulation) logStart(maxGenerations int) {
	args := []any{
		"size", s.opts.Size,
		"generations", maxGenerations,
		"population", s.cur.Population(),
	}
	if p, ok := s.stepper.(interface{ Bands() []life.RowBand }); ok {
		bands := p.Bands()
		args = append(args, "workers", len(bands), "bands", fmt.Sprint(bands))
		if s.opts.Size%len(bands) != 0 {
			s.log.Warn("rows do not divide evenly across workers; leading bands take one extra row",
				"size", s.opts.Size, "workers", len(bands))
		}
	}
	s.log.Info("simulation starting", args...)
}
