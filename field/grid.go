package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// uniformTol is the relative deviation allowed between consecutive spacings.
const uniformTol = 1e-6

// Grid is a regular, axis-aligned sampling grid.
// It is read-only once constructed.
type Grid struct {
	X, Y, Z    []float64
	Dx, Dy, Dz float64
}

// NewGrid validates the coordinate axes and derives the spacings.
// The slices are retained, not copied.
func NewGrid(x, y, z []float64) (*Grid, error) {
	axes := [3][]float64{x, y, z}
	var d [3]float64
	for a, coords := range axes {
		s, err := axisSpacing(coords)
		if err != nil {
			return nil, fmt.Errorf("axis %c: %w", "xyz"[a], err)
		}
		d[a] = s
	}
	return &Grid{X: x, Y: y, Z: z, Dx: d[0], Dy: d[1], Dz: d[2]}, nil
}

// NewUniformGrid builds a grid with n[a] evenly spaced samples from lower to upper
// (inclusive) along each axis.
func NewUniformGrid(n [3]int, lower, upper r3.Vec) (*Grid, error) {
	lo := [3]float64{lower.X, lower.Y, lower.Z}
	hi := [3]float64{upper.X, upper.Y, upper.Z}
	var axes [3][]float64
	for a := range axes {
		if n[a] < 2 {
			return nil, fmt.Errorf("axis %c has %d samples: %w", "xyz"[a], n[a], ErrBadShape)
		}
		if !(hi[a] > lo[a]) {
			return nil, fmt.Errorf("axis %c range [%g, %g]: %w", "xyz"[a], lo[a], hi[a], ErrNotMonotonic)
		}
		axes[a] = floats.Span(make([]float64, n[a]), lo[a], hi[a])
	}
	return NewGrid(axes[0], axes[1], axes[2])
}

func axisSpacing(coords []float64) (float64, error) {
	if len(coords) < 2 {
		return 0, ErrBadShape
	}
	d := coords[1] - coords[0]
	if !(d > 0) {
		return 0, ErrNotMonotonic
	}
	for i := 2; i < len(coords); i++ {
		di := coords[i] - coords[i-1]
		if !(di > 0) {
			return 0, ErrNotMonotonic
		}
		if math.Abs(di-d) > uniformTol*d {
			return 0, ErrNonUniformGrid
		}
	}
	return d, nil
}

// Shape returns the number of samples along x, y and z.
func (g *Grid) Shape() [3]int {
	return [3]int{len(g.X), len(g.Y), len(g.Z)}
}

// Cells returns the number of cells along x, y and z.
func (g *Grid) Cells() [3]int {
	return [3]int{len(g.X) - 1, len(g.Y) - 1, len(g.Z) - 1}
}

// Spacing returns (Dx, Dy, Dz) as a vector.
func (g *Grid) Spacing() r3.Vec {
	return r3.Vec{X: g.Dx, Y: g.Dy, Z: g.Dz}
}

// MinSpacing returns the smallest of the three spacings.
func (g *Grid) MinSpacing() float64 {
	return math.Min(g.Dx, math.Min(g.Dy, g.Dz))
}

// Origin returns the coordinates of sample (0, 0, 0).
func (g *Grid) Origin() r3.Vec {
	return r3.Vec{X: g.X[0], Y: g.Y[0], Z: g.Z[0]}
}

// Bounds returns the closed bounding box of the grid.
func (g *Grid) Bounds() r3.Box {
	return r3.Box{
		Min: g.Origin(),
		Max: r3.Vec{X: g.X[len(g.X)-1], Y: g.Y[len(g.Y)-1], Z: g.Z[len(g.Z)-1]},
	}
}

// Contains reports whether p lies strictly inside the bounding box.
// Points on the boundary are outside.
func (g *Grid) Contains(p r3.Vec) bool {
	b := g.Bounds()
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// CellOrigin returns the physical position of the lower corner of cell (i, j, k).
func (g *Grid) CellOrigin(i, j, k int) r3.Vec {
	return r3.Vec{X: g.X[i], Y: g.Y[j], Z: g.Z[k]}
}

// locate returns the cell index containing x along one axis, clamped to the
// valid cell range, and the local coordinate within that cell. The local
// coordinate is not clamped so that queries outside extrapolate linearly.
func locate(x, x0, d float64, n int) (int, float64) {
	t := (x - x0) / d
	i := int(math.Floor(t))
	if i < 0 {
		i = 0
	} else if i > n-2 {
		i = n - 2
	}
	return i, t - float64(i)
}
