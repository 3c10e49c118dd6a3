package nullpoint

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Deduplicate drops every position that lies within spacing of any earlier
// position along all three axes, whether or not that earlier position was
// kept itself. The first occurrence wins and order is preserved.
func Deduplicate(points []r3.Vec, spacing r3.Vec) []r3.Vec {
	keep := make([]bool, len(points))
	for i := range keep {
		keep[i] = true
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			d := r3.Sub(points[i], points[j])
			if math.Abs(d.X) < spacing.X && math.Abs(d.Y) < spacing.Y && math.Abs(d.Z) < spacing.Z {
				keep[j] = false
			}
		}
	}
	out := make([]r3.Vec, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
