package life

import "fmt"

// RowBand is an inclusive range of rows owned by one worker.
type RowBand struct {
	Start int
	End   int
}

// Rows returns the number of rows in the band.
func (b RowBand) Rows() int { return b.End - b.Start + 1 }

// Empty reports whether the band covers no rows.
func (b RowBand) Empty() bool { return b.End < b.Start }

// Contains reports whether row belongs to the band.
func (b RowBand) Contains(row int) bool { return row >= b.Start && row <= b.End }

func (b RowBand) String() string { return fmt.Sprintf("[%d,%d]", b.Start, b.End) }

// Partition splits rows [0, rows-1] into exactly workers contiguous bands.
// When rows is not a multiple of workers the first rows%workers bands each
// take one extra row, so every row is owned exactly once.
func Partition(rows, workers int) ([]RowBand, error) {
	if workers < 1 || rows < 1 || workers > rows {
		return nil, fmt.Errorf("%w: %d rows across %d workers", ErrInvalidPartition, rows, workers)
	}
	base := rows / workers
	extra := rows % workers
	bands := make([]RowBand, workers)
	start := 0
	for i := range bands {
		n := base
		if i < extra {
			n++
		}
		bands[i] = RowBand{Start: start, End: start + n - 1}
		start += n
	}
	return bands, nil
}
