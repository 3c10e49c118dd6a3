package field

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Interpolator evaluates a continuous vector field and reports the domain in
// which evaluations are meaningful.
type Interpolator interface {
	// Interpolate returns the field at p.
	Interpolate(p r3.Vec) r3.Vec
	// Contains reports whether p lies strictly inside the sampled domain.
	Contains(p r3.Vec) bool
}

// VectorField is a three-component field sampled on a Grid.
type VectorField struct {
	grid       *Grid
	nx, ny, nz int
	data       []float64
}

var _ Interpolator = (*VectorField)(nil)

// NewVectorField wraps data laid out as (component, z, y, x).
// The slice is retained, not copied.
func NewVectorField(g *Grid, data []float64) (*VectorField, error) {
	s := g.Shape()
	if want := 3 * s[0] * s[1] * s[2]; len(data) != want {
		return nil, fmt.Errorf("data length %d, want %d: %w", len(data), want, ErrBadShape)
	}
	return &VectorField{grid: g, nx: s[0], ny: s[1], nz: s[2], data: data}, nil
}

// Sample evaluates fn at every grid node.
func Sample(g *Grid, fn func(r3.Vec) r3.Vec) *VectorField {
	s := g.Shape()
	vf := &VectorField{grid: g, nx: s[0], ny: s[1], nz: s[2], data: make([]float64, 3*s[0]*s[1]*s[2])}
	for k, z := range g.Z {
		for j, y := range g.Y {
			for i, x := range g.X {
				v := fn(r3.Vec{X: x, Y: y, Z: z})
				vf.set(k, j, i, v)
			}
		}
	}
	return vf
}

// Grid returns the sampling grid.
func (vf *VectorField) Grid() *Grid { return vf.grid }

// Data returns the underlying (component, z, y, x) array.
func (vf *VectorField) Data() []float64 { return vf.data }

func (vf *VectorField) offset(c, k, j, i int) int {
	return ((c*vf.nz+k)*vf.ny+j)*vf.nx + i
}

func (vf *VectorField) set(k, j, i int, v r3.Vec) {
	vf.data[vf.offset(0, k, j, i)] = v.X
	vf.data[vf.offset(1, k, j, i)] = v.Y
	vf.data[vf.offset(2, k, j, i)] = v.Z
}

// At returns component c at node (i, j, k), addressed as (c, z, y, x).
func (vf *VectorField) At(c, k, j, i int) float64 {
	return vf.data[vf.offset(c, k, j, i)]
}

// Vec returns the field vector at node (i, j, k), addressed as (z, y, x).
func (vf *VectorField) Vec(k, j, i int) r3.Vec {
	return r3.Vec{X: vf.At(0, k, j, i), Y: vf.At(1, k, j, i), Z: vf.At(2, k, j, i)}
}

// Corners returns the field at the 8 corners of cell (i, j, k),
// indexed as [dz][dy][dx].
func (vf *VectorField) Corners(i, j, k int) [2][2][2]r3.Vec {
	var c [2][2][2]r3.Vec
	for dz := 0; dz < 2; dz++ {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				c[dz][dy][dx] = vf.Vec(k+dz, j+dy, i+dx)
			}
		}
	}
	return c
}

// Contains reports whether p lies strictly inside the grid.
func (vf *VectorField) Contains(p r3.Vec) bool { return vf.grid.Contains(p) }

// Interpolate returns the trilinearly interpolated field at p.
func (vf *VectorField) Interpolate(p r3.Vec) r3.Vec {
	g := vf.grid
	i, u := locate(p.X, g.X[0], g.Dx, vf.nx)
	j, v := locate(p.Y, g.Y[0], g.Dy, vf.ny)
	k, w := locate(p.Z, g.Z[0], g.Dz, vf.nz)

	c := vf.Corners(i, j, k)
	lerp := func(a, b r3.Vec, t float64) r3.Vec {
		return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
	}
	c00 := lerp(c[0][0][0], c[0][0][1], u)
	c10 := lerp(c[0][1][0], c[0][1][1], u)
	c01 := lerp(c[1][0][0], c[1][0][1], u)
	c11 := lerp(c[1][1][0], c[1][1][1], u)
	return lerp(lerp(c00, c10, v), lerp(c01, c11, v), w)
}
