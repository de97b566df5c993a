package life

// CountNeighbors returns the number of live cells in the 3×3 block around
// (row, col), excluding the cell itself. The block is clipped at the grid
// edges, so corner cells see at most three neighbors.
func CountNeighbors(g *Grid, row, col int) int {
	last := g.size - 1
	r0 := clampCoord(row-1, 0, last)
	r1 := clampCoord(row+1, 0, last)
	c0 := clampCoord(col-1, 0, last)
	c1 := clampCoord(col+1, 0, last)

	n := 0
	for r := r0; r <= r1; r++ {
		base := r * g.size
		for c := c0; c <= c1; c++ {
			if r == row && c == col {
				continue
			}
			if g.cells[base+c] == Alive {
				n++
			}
		}
	}
	return n
}

// NextState applies the standard B3/S23 rule to the cell at (row, col).
func NextState(g *Grid, row, col int) Cell {
	k := CountNeighbors(g, row, col)
	if g.At(row, col) == Alive {
		if k == 2 || k == 3 {
			return Alive
		}
		return Dead
	}
	if k == 3 {
		return Alive
	}
	return Dead
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
