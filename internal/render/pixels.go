package render

import (
	"image/color"

	"lifegrid/internal/life"
)

// Cell colors used by the pixel renderers.
var (
	AliveColor = color.RGBA{R: 120, G: 230, B: 140, A: 255}
	DeadColor  = color.RGBA{R: 16, G: 18, B: 28, A: 255}
)

// Pixels fills dst with one RGBA pixel per cell in row-major order and
// returns it, reallocating when dst is too small.
func Pixels(g *life.Grid, dst []byte) []byte {
	n := len(g.Cells()) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, c := range g.Cells() {
		clr := DeadColor
		if c == life.Alive {
			clr = AliveColor
		}
		base := i * 4
		dst[base] = clr.R
		dst[base+1] = clr.G
		dst[base+2] = clr.B
		dst[base+3] = clr.A
	}
	return dst
}
