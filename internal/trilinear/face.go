package trilinear

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face identifies one side of the unit cube by its fixed axis and value.
type Face struct {
	Axis  int // 0=u, 1=v, 2=w
	Value float64
}

// Faces lists the six cube faces in seeding order.
var Faces = [6]Face{
	{Axis: 2, Value: 0}, {Axis: 2, Value: 1},
	{Axis: 1, Value: 0}, {Axis: 1, Value: 1},
	{Axis: 0, Value: 0}, {Axis: 0, Value: 1},
}

// bilinear is one component restricted to a face: a + b·s + c·t + d·st.
type bilinear struct{ a, b, c, d float64 }

func (p bilinear) scale() float64 {
	return math.Abs(p.a) + math.Abs(p.b) + math.Abs(p.c) + math.Abs(p.d)
}

// vanishes reports whether p is zero at (s, t) up to rounding. It rejects the
// spurious roots the elimination introduces where both components stop
// depending on t.
func (p bilinear) vanishes(s, t float64) bool {
	return math.Abs(p.a+p.b*s+p.c*t+p.d*s*t) <= 1e-8*p.scale()
}

// restrict returns the two face-restricted components used for seeding
// together with the mapping from face coordinates (s, t) back to (u, v, w).
func (m *Model) restrict(f Face) ([2]bilinear, func(s, t float64) r3.Vec) {
	c := &m.C
	x := f.Value
	var (
		terms [4]r3.Vec
		comps [2]int
		lift  func(s, t float64) r3.Vec
	)
	switch f.Axis {
	case 2: // w fixed, (s, t) = (u, v), components x and y
		terms = [4]r3.Vec{
			r3.Add(c[0], r3.Scale(x, c[4])), r3.Add(c[1], r3.Scale(x, c[5])),
			r3.Add(c[2], r3.Scale(x, c[6])), r3.Add(c[3], r3.Scale(x, c[7])),
		}
		comps = [2]int{0, 1}
		lift = func(s, t float64) r3.Vec { return r3.Vec{X: s, Y: t, Z: x} }
	case 1: // v fixed, (s, t) = (u, w), components x and z
		terms = [4]r3.Vec{
			r3.Add(c[0], r3.Scale(x, c[2])), r3.Add(c[1], r3.Scale(x, c[3])),
			r3.Add(c[4], r3.Scale(x, c[6])), r3.Add(c[5], r3.Scale(x, c[7])),
		}
		comps = [2]int{0, 2}
		lift = func(s, t float64) r3.Vec { return r3.Vec{X: s, Y: x, Z: t} }
	default: // u fixed, (s, t) = (v, w), components y and z
		terms = [4]r3.Vec{
			r3.Add(c[0], r3.Scale(x, c[1])), r3.Add(c[2], r3.Scale(x, c[3])),
			r3.Add(c[4], r3.Scale(x, c[5])), r3.Add(c[6], r3.Scale(x, c[7])),
		}
		comps = [2]int{1, 2}
		lift = func(s, t float64) r3.Vec { return r3.Vec{X: x, Y: s, Z: t} }
	}

	var out [2]bilinear
	for n, ci := range comps {
		out[n] = bilinear{
			a: component(terms[0], ci), b: component(terms[1], ci),
			c: component(terms[2], ci), d: component(terms[3], ci),
		}
	}
	return out, lift
}

// FaceSeed returns a starting point on face f where both face components
// vanish, if one exists inside the face.
//
// Eliminating t from p_i = p_j = 0 leaves a quadratic in s. t is then
// recovered from whichever component depends on t more strongly at that s;
// if neither does, t is free and the face centre is used. When both roots are
// feasible the second one wins.
func (m *Model) FaceSeed(f Face) (r3.Vec, bool) {
	p, lift := m.restrict(f)
	pi, pj := p[0], p[1]

	roots := SolveQuadratic(
		pj.b*pi.d-pj.d*pi.b,
		pj.a*pi.d+pj.b*pi.c-pj.c*pi.b-pj.d*pi.a,
		pj.a*pi.c-pj.c*pi.a,
	)

	var (
		seed  r3.Vec
		found bool
	)
	for _, r := range roots {
		s, ok := realRoot(r)
		if !ok || !inUnit(s) {
			continue
		}
		t, ok := backSubstitute(pi, pj, s)
		if !ok || !inUnit(t) || !pi.vanishes(s, t) || !pj.vanishes(s, t) {
			continue
		}
		seed, found = lift(s, t), true
	}
	return seed, found
}

func backSubstitute(pi, pj bilinear, s float64) (float64, bool) {
	deni, denj := pi.c+pi.d*s, pj.c+pj.d*s
	const eps = 1e-12
	if math.Abs(deni) <= eps*pi.scale() && math.Abs(denj) <= eps*pj.scale() {
		return 0.5, true
	}
	var t float64
	if math.Abs(deni) >= math.Abs(denj) {
		t = -(pi.a + pi.b*s) / deni
	} else {
		t = -(pj.a + pj.b*s) / denj
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// FaceSeeds returns the seeds of all faces that have one, in Faces order.
func (m *Model) FaceSeeds() []r3.Vec {
	seeds := make([]r3.Vec, 0, len(Faces))
	for _, f := range Faces {
		if s, ok := m.FaceSeed(f); ok {
			seeds = append(seeds, s)
		}
	}
	return seeds
}
