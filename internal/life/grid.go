package life

import "strings"

// Cell is the state of a single grid location.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// Point is a (row, col) coordinate on the grid.
type Point struct {
	Row int
	Col int
}

// Grid stores an N×N board in a single row-major buffer.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid allocates a grid of the given dimension with every cell dead.
func NewGrid(size int) *Grid {
	if size < 1 {
		panic("life: grid size must be positive")
	}
	return &Grid{size: size, cells: make([]Cell, size*size)}
}

// Size returns the grid dimension N.
func (g *Grid) Size() int { return g.size }

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

// Set writes the cell at (row, col).
func (g *Grid) Set(row, col int, c Cell) {
	g.cells[g.index(row, col)] = c
}

// Row returns the backing slice for a single row. Writes through it mutate the grid.
func (g *Grid) Row(row int) []Cell {
	base := g.index(row, 0)
	return g.cells[base : base+g.size : base+g.size]
}

// Cells exposes the full row-major buffer.
func (g *Grid) Cells() []Cell { return g.cells }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// CopyRows copies the rows of band from src into g.
func (g *Grid) CopyRows(src *Grid, band RowBand) {
	if band.Empty() {
		return
	}
	lo := band.Start * g.size
	hi := (band.End + 1) * g.size
	copy(g.cells[lo:hi], src.cells[lo:hi])
}

// Reset marks every cell dead.
func (g *Grid) Reset() {
	clear(g.cells)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{size: g.size, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for i, c := range g.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}

// Population counts live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.cells {
		if c == Alive {
			n++
		}
	}
	return n
}

// Alive lists the coordinates of live cells in row-major order.
func (g *Grid) Alive() []Point {
	var pts []Point
	for i, c := range g.cells {
		if c == Alive {
			pts = append(pts, Point{Row: i / g.size, Col: i % g.size})
		}
	}
	return pts
}

// String renders the grid with '#' for live cells and '.' for dead ones.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.size * (g.size + 1))
	for r := 0; r < g.size; r++ {
		for _, c := range g.Row(r) {
			if c == Alive {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic("life: cell index out of range")
	}
	return row*g.size + col
}
