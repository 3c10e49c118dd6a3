package trilinear

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Model holds the 8 trilinear coefficients of a cell, one vector per term.
type Model struct {
	C [8]r3.Vec
}

// FromCorners builds the model from corner values indexed as [dz][dy][dx].
func FromCorners(f [2][2][2]r3.Vec) Model {
	f000, f100, f010, f110 := f[0][0][0], f[0][0][1], f[0][1][0], f[0][1][1]
	f001, f101, f011, f111 := f[1][0][0], f[1][0][1], f[1][1][0], f[1][1][1]

	add, sub := r3.Add, r3.Sub
	var m Model
	m.C[0] = f000
	m.C[1] = sub(f100, f000)
	m.C[2] = sub(f010, f000)
	m.C[3] = add(sub(sub(f110, f100), f010), f000)
	m.C[4] = sub(f001, f000)
	m.C[5] = add(sub(sub(f101, f100), f001), f000)
	m.C[6] = add(sub(sub(f011, f010), f001), f000)
	m.C[7] = sub(add(add(add(sub(sub(sub(f111, f011), f101), f110), f100), f010), f001), f000)
	return m
}

// Eval returns the model at local coordinates p = (u, v, w).
func (m *Model) Eval(p r3.Vec) r3.Vec {
	u, v, w := p.X, p.Y, p.Z
	c := &m.C
	out := c[0]
	out = r3.Add(out, r3.Scale(u, c[1]))
	out = r3.Add(out, r3.Scale(v, c[2]))
	out = r3.Add(out, r3.Scale(u*v, c[3]))
	out = r3.Add(out, r3.Scale(w, c[4]))
	out = r3.Add(out, r3.Scale(u*w, c[5]))
	out = r3.Add(out, r3.Scale(v*w, c[6]))
	out = r3.Add(out, r3.Scale(u*v*w, c[7]))
	return out
}

// Jacobian returns J[i][j] = ∂F_i/∂x_j of the model at p, in local units.
func (m *Model) Jacobian(p r3.Vec) *mat.Dense {
	u, v, w := p.X, p.Y, p.Z
	c := &m.C
	cols := [3]r3.Vec{
		r3.Add(r3.Add(c[1], r3.Scale(v, c[3])), r3.Add(r3.Scale(w, c[5]), r3.Scale(v*w, c[7]))),
		r3.Add(r3.Add(c[2], r3.Scale(u, c[3])), r3.Add(r3.Scale(w, c[6]), r3.Scale(u*w, c[7]))),
		r3.Add(r3.Add(c[4], r3.Scale(u, c[5])), r3.Add(r3.Scale(v, c[6]), r3.Scale(u*v, c[7]))),
	}
	j := mat.NewDense(3, 3, nil)
	for col, d := range cols {
		j.Set(0, col, d.X)
		j.Set(1, col, d.Y)
		j.Set(2, col, d.Z)
	}
	return j
}

// InCell reports whether p lies in the closed unit cube.
func InCell(p r3.Vec) bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1 && p.Z >= 0 && p.Z <= 1
}

func component(v r3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
