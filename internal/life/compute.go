package life

// ComputeBand writes the next generation of every cell in band into staging.
// cur is only read; rows of staging outside band are left untouched.
func ComputeBand(cur, staging *Grid, band RowBand) {
	for row := band.Start; row <= band.End; row++ {
		next := staging.Row(row)
		for col := range next {
			next[col] = NextState(cur, row, col)
		}
	}
}

// CommitBand publishes the staged rows of band into cur.
func CommitBand(cur, staging *Grid, band RowBand) {
	cur.CopyRows(staging, band)
}

// StepSequential advances g by one generation on the calling goroutine. It
// is the single-threaded reference the worker pool must agree with.
func StepSequential(g *Grid) {
	staging := NewGrid(g.size)
	all := RowBand{Start: 0, End: g.size - 1}
	ComputeBand(g, staging, all)
	CommitBand(g, staging, all)
}
