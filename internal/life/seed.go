package life

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is a named set of live cells relative to its top-left anchor.
type Pattern struct {
	Name  string
	Cells []Point
}

// Built-in patterns.
var (
	// Block is a 2×2 still life.
	Block = Pattern{Name: "block", Cells: []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}}
	// Blinker is a period-2 oscillator in its vertical phase.
	Blinker = Pattern{Name: "blinker", Cells: []Point{{0, 0}, {1, 0}, {2, 0}}}
	// Glider travels one cell down and one cell right every four generations.
	Glider = Pattern{Name: "glider", Cells: []Point{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}}
)

var patterns = map[string]Pattern{
	Block.Name:   Block,
	Blinker.Name: Blinker,
	Glider.Name:  Glider,
}

// PatternByName looks up a built-in pattern, ignoring case.
func PatternByName(name string) (Pattern, bool) {
	p, ok := patterns[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PatternNames lists the built-in pattern names in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Placement anchors a pattern's top-left corner at (Row, Col).
type Placement struct {
	Pattern Pattern
	Row     int
	Col     int
}

// DefaultSeed places one of each built-in pattern: a block near the top-left
// corner, a blinker in the middle and a glider further down.
func DefaultSeed() []Placement {
	return []Placement{
		{Pattern: Block, Row: 1, Col: 1},
		{Pattern: Blinker, Row: 5, Col: 6},
		{Pattern: Glider, Row: 10, Col: 9},
	}
}

// Seed clears g and overlays the placements. Every cell must land on the
// grid; otherwise g is left cleared and ErrSeedOutOfBounds is returned.
func Seed(g *Grid, placements []Placement) error {
	g.Reset()
	for _, pl := range placements {
		for _, c := range pl.Pattern.Cells {
			r, col := pl.Row+c.Row, pl.Col+c.Col
			if !g.InBounds(r, col) {
				g.Reset()
				return fmt.Errorf("%w: %s at (%d,%d) needs cell (%d,%d) on a %d×%d grid",
					ErrSeedOutOfBounds, pl.Pattern.Name, pl.Row, pl.Col, r, col, g.size, g.size)
			}
			g.Set(r, col, Alive)
		}
	}
	return nil
}
