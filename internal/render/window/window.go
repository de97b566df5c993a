// Package window shows frames in a desktop window.
package window

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"lifegrid/internal/life"
	"lifegrid/internal/render"
	"lifegrid/internal/simulation"
)

var errWindowClosed = errors.New("window closed")

// Renderer displays each frame in an ebiten window, one square of scale×scale
// pixels per cell.
type Renderer struct {
	size  int
	scale int
	delay time.Duration
	title string

	frames    chan simulation.Frame
	closed    chan struct{}
	closeOnce sync.Once
	finished  chan struct{}
}

// New returns a window renderer for an N×N grid.
func New(size, scale int, delay time.Duration) *Renderer {
	return &Renderer{
		size:     size,
		scale:    scale,
		delay:    delay,
		title:    fmt.Sprintf("Game of Life %d×%d", size, size),
		frames:   make(chan simulation.Frame),
		closed:   make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Render hands a copy of the frame to the window and then waits for the
// pacing delay. It fails once the window has been closed.
func (r *Renderer) Render(f simulation.Frame) error {
	f.Grid = f.Grid.Clone()
	select {
	case r.frames <- f:
	case <-r.closed:
		return errWindowClosed
	}
	if r.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(r.delay):
	case <-r.closed:
	}
	return nil
}

// Host runs the ebiten loop on the calling goroutine, which must be the main
// goroutine, and the simulation on another. Closing the window stops the run
// and is not reported as an error.
func (r *Renderer) Host(ctx context.Context, run func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runErr error
	go func() {
		runErr = run(runCtx)
		close(r.finished)
	}()

	ebiten.SetWindowSize(r.size*r.scale, r.size*r.scale)
	ebiten.SetWindowTitle(r.title)
	err := ebiten.RunGame(newGame(r))

	r.closeOnce.Do(func() { close(r.closed) })
	cancel()
	<-r.finished

	if err != nil {
		return err
	}
	if errors.Is(runErr, errWindowClosed) || (errors.Is(runErr, context.Canceled) && ctx.Err() == nil) {
		return nil
	}
	return runErr
}

// game adapts the renderer to ebiten's Update/Draw/Layout loop.
type game struct {
	r          *Renderer
	grid       *life.Grid
	generation int
	total      int
	pixels     []byte
	board      *ebiten.Image
}

func newGame(r *Renderer) *game {
	return &game{r: r, board: ebiten.NewImage(r.size, r.size)}
}

// Update picks up the latest frame and ends the loop once the run is over.
func (g *game) Update() error {
	select {
	case f := <-g.r.frames:
		g.grid = f.Grid
		g.generation = f.Generation
		g.total = f.Total
	case <-g.r.finished:
		return ebiten.Termination
	default:
	}
	return nil
}

// Draw renders the current grid scaled up to the window, with a status overlay.
func (g *game) Draw(screen *ebiten.Image) {
	if g.grid == nil {
		ebitenutil.DebugPrint(screen, "waiting for the first generation")
		return
	}
	g.pixels = render.Pixels(g.grid, g.pixels)
	g.board.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.r.scale), float64(g.r.scale))
	screen.DrawImage(g.board, op)

	msg := fmt.Sprintf("Generation: %d/%d\nPopulation: %d\nFPS: %.1f",
		g.generation+1, g.total, g.grid.Population(), ebiten.ActualFPS())
	ebitenutil.DebugPrint(screen, msg)
}

// Layout reports the logical screen size used by Ebiten.
func (g *game) Layout(_, _ int) (int, int) {
	return g.r.size * g.r.scale, g.r.size * g.r.scale
}
