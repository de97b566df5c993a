// Package render turns simulation frames into something a person can look
// at. Text writes a character dump per generation; the tui and window
// subpackages provide interactive front ends.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"lifegrid/internal/life"
	"lifegrid/internal/simulation"
)

const clearScreen = "\x1b[H\x1b[2J"

// Text writes each frame as rows of "# " (alive) and "  " (dead) cells.
type Text struct {
	out    io.Writer
	delay  time.Duration
	clear  bool
	header bool
	color  bool
	sleep  func(time.Duration)

	alive string
	dead  string
}

// TextOption customizes a Text renderer.
type TextOption func(*Text)

// WithDelay pauses after every frame.
func WithDelay(d time.Duration) TextOption {
	return func(t *Text) { t.delay = d }
}

// WithClear clears the terminal before every frame.
func WithClear(on bool) TextOption {
	return func(t *Text) { t.clear = on }
}

// WithHeader prints a generation/population line above each frame.
func WithHeader(on bool) TextOption {
	return func(t *Text) { t.header = on }
}

// WithColor styles live cells when the output supports it.
func WithColor(on bool) TextOption {
	return func(t *Text) { t.color = on }
}

// NewText returns a renderer writing to w.
func NewText(w io.Writer, opts ...TextOption) *Text {
	t := &Text{out: w, sleep: time.Sleep, alive: "# ", dead: "  "}
	for _, opt := range opts {
		opt(t)
	}
	if t.color {
		r := lipgloss.NewRenderer(w)
		t.alive = r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render("#") + " "
	}
	return t
}

// Render implements simulation.Renderer.
func (t *Text) Render(f simulation.Frame) error {
	var sb strings.Builder
	size := f.Grid.Size()
	sb.Grow(size*(size*len(t.alive)+1) + 64)
	if t.clear {
		sb.WriteString(clearScreen)
	}
	if t.header {
		fmt.Fprintf(&sb, "generation %d/%d  population %d\n", f.Generation+1, f.Total, f.Grid.Population())
	}
	for r := 0; r < size; r++ {
		for _, c := range f.Grid.Row(r) {
			if c == life.Alive {
				sb.WriteString(t.alive)
			} else {
				sb.WriteString(t.dead)
			}
		}
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(t.out, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if t.delay > 0 {
		t.sleep(t.delay)
	}
	return nil
}

// Discard drops every frame.
type Discard struct{}

// Render implements simulation.Renderer.
func (Discard) Render(simulation.Frame) error { return nil }

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
