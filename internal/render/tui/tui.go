// Package tui renders frames in a full-screen terminal program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"lifegrid/internal/life"
	"lifegrid/internal/simulation"
)

type frameMsg struct {
	grid       *life.Grid
	generation int
	total      int
}

type doneMsg struct{ err error }

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	aliveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	grid       *life.Grid
	generation int
	total      int
	done       bool
	err        error
	alive      string
}

func newModel(color bool) model {
	alive := "# "
	if color {
		alive = aliveStyle.Render("#") + " "
	}
	return model{alive: alive}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.grid = msg.grid
		m.generation = msg.generation
		m.total = msg.total
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.grid == nil {
		return "waiting for the first generation...\n"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("generation %d/%d", m.generation+1, m.total)))
	fmt.Fprintf(&sb, "  population %d\n\n", m.grid.Population())
	for r := 0; r < m.grid.Size(); r++ {
		for _, c := range m.grid.Row(r) {
			if c == life.Alive {
				sb.WriteString(m.alive)
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	switch {
	case m.err != nil:
		sb.WriteString(fmt.Sprintf("stopped: %v\n", m.err))
	case m.done:
		sb.WriteString("finished\n")
	default:
		sb.WriteString(helpStyle.Render("q: quit") + "\n")
	}
	return sb.String()
}

// Renderer shows frames in a bubbletea program. It must be driven through
// Host; Render blocks until the program accepts the frame.
type Renderer struct {
	delay   time.Duration
	color   bool
	opts    []tea.ProgramOption
	program *tea.Program
	sleep   func(time.Duration)
}

// New returns a Renderer that pauses delay after every frame.
func New(delay time.Duration, color bool, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{delay: delay, color: color, opts: opts, sleep: time.Sleep}
}

// Render implements simulation.Renderer.
func (r *Renderer) Render(f simulation.Frame) error {
	if r.program == nil {
		return errors.New("tui: Render called outside Host")
	}
	r.program.Send(frameMsg{grid: f.Grid.Clone(), generation: f.Generation, total: f.Total})
	if r.delay > 0 {
		r.sleep(r.delay)
	}
	return nil
}

// Host implements simulation.Host. Quitting the program cancels the run
// between generations and is not reported as an error.
func (r *Renderer) Host(ctx context.Context, run func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := append([]tea.ProgramOption{tea.WithContext(runCtx)}, r.opts...)
	r.program = tea.NewProgram(newModel(r.color), opts...)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		_, err := r.program.Run()
		cancel()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := run(gctx)
		r.program.Send(doneMsg{err: err})
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return nil
	}
	return err
}
