package trilinear

import (
	"math"
	"math/cmplx"
)

// imagTol bounds the imaginary part, relative to the real part, below which a
// root is treated as real floating-point noise.
const imagTol = 1e-9

// SolveQuadratic returns the roots of a·s² + b·s + c.
//
// A vanishing leading coefficient reduces the equation to a linear one whose
// single root is returned twice; if b vanishes too there are no roots.
func SolveQuadratic(a, b, c float64) []complex128 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		r := complex(-c/b, 0)
		return []complex128{r, r}
	}
	d := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	if b < 0 {
		d = -d
	}
	q := -0.5 * (complex(b, 0) + d)
	if q == 0 {
		return []complex128{0, 0}
	}
	return []complex128{q / complex(a, 0), complex(c, 0) / q}
}

// realRoot returns the real part of r and whether its imaginary part is
// negligible.
func realRoot(r complex128) (float64, bool) {
	re, im := real(r), imag(r)
	if math.IsNaN(re) || math.IsInf(re, 0) {
		return 0, false
	}
	return re, math.Abs(im) <= imagTol*math.Max(1, math.Abs(re))
}

func inUnit(x float64) bool { return x >= 0 && x <= 1 }
