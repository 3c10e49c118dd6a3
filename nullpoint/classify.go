package nullpoint

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/hupe1980/fieldtopo/field"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ClassifyOptions configures Classify.
type ClassifyOptions struct {
	// StepFraction scales the minimum grid spacing into the centered
	// difference step of the Jacobian estimate.
	StepFraction float64
	// DetTolerance is the relative determinant below which a null counts as
	// degenerate.
	DetTolerance float64
	// AllowSpiral keeps nulls whose fan eigenvalues are a complex pair.
	AllowSpiral bool
}

// DefaultClassifyOptions holds the defaults used by Classify.
var DefaultClassifyOptions = ClassifyOptions{
	StepFraction: 0.1,
	DetTolerance: 1e-10,
	AllowSpiral:  true,
}

const (
	// imagTol is the relative imaginary part below which an eigenvalue counts
	// as real.
	imagTol = 1e-12
	// crossTol is the cross product norm below which the fan vectors count as
	// parallel.
	crossTol = 1e-9
)

// Classify classifies every position. Positions that cannot be classified are
// returned as rejections in input order; the accepted nulls keep input order
// as well.
func Classify(interp field.Interpolator, positions []r3.Vec, minSpacing float64, optFns ...func(o *ClassifyOptions)) ([]NullPoint, []Rejection) {
	opts := DefaultClassifyOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	h := opts.StepFraction * minSpacing

	var (
		nulls    []NullPoint
		rejected []Rejection
	)
	for _, p := range positions {
		np, err := ClassifyPoint(interp, p, h, opts)
		if err != nil {
			rejected = append(rejected, Rejection{Position: p, Err: err})
			continue
		}
		nulls = append(nulls, np)
	}
	return nulls, rejected
}

// Jacobian estimates J[i][j] = dF_i/dx_j at p by centered differences with
// step h.
func Jacobian(interp field.Interpolator, p r3.Vec, h float64) *mat.Dense {
	j := mat.NewDense(3, 3, nil)
	steps := [3]r3.Vec{{X: h}, {Y: h}, {Z: h}}
	for col, dx := range steps {
		d := r3.Scale(1/(2*h), r3.Sub(interp.Interpolate(r3.Add(p, dx)), interp.Interpolate(r3.Sub(p, dx))))
		j.Set(0, col, d.X)
		j.Set(1, col, d.Y)
		j.Set(2, col, d.Z)
	}
	return j
}

// ClassifyPoint classifies the null at p using a Jacobian step of h.
func ClassifyPoint(interp field.Interpolator, p r3.Vec, h float64, opts ClassifyOptions) (NullPoint, error) {
	jac := Jacobian(interp, p, h)

	scale := maxAbs(jac)
	det := mat.Det(jac)
	if scale == 0 || math.IsNaN(det) || math.Abs(det) <= opts.DetTolerance*scale*scale*scale {
		return NullPoint{}, fmt.Errorf("%w: det=%g", ErrDegenerateNull, det)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(jac, mat.EigenRight); !ok {
		return NullPoint{}, fmt.Errorf("%w: eigendecomposition did not converge", ErrDegenerateNull)
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	np := NullPoint{Position: p, TraceSign: 1}
	for n := 0; n < 3; n++ {
		np.Eigenvalues[n] = values[n]
		for c := 0; c < 3; c++ {
			np.Eigenvectors[n][c] = vectors.At(c, n)
		}
	}

	// Negative determinant: two eigenvalues with positive real part span the
	// fan and field lines leave the null along it.
	fan := func(l complex128) bool { return real(l) > 0 }
	if det > 0 {
		np.TraceSign = -1
		fan = func(l complex128) bool { return real(l) < 0 }
	}
	var idx []int
	for n, l := range np.Eigenvalues {
		if fan(l) {
			idx = append(idx, n)
		}
	}
	if len(idx) != 2 {
		return NullPoint{}, fmt.Errorf("%w: %d candidate eigenvalues", ErrNotSaddle, len(idx))
	}

	if l := np.Eigenvalues[idx[0]]; math.Abs(imag(l)) > imagTol*cmplx.Abs(l) {
		if !opts.AllowSpiral {
			return NullPoint{}, ErrSpiralNull
		}
		np.Kind = KindSpiral
		v := np.Eigenvectors[idx[0]]
		np.FanVectors[0] = r3.Vec{X: real(v[0]), Y: real(v[1]), Z: real(v[2])}
		np.FanVectors[1] = r3.Vec{X: imag(v[0]), Y: imag(v[1]), Z: imag(v[2])}
	} else {
		for n, e := range idx {
			v := np.Eigenvectors[e]
			np.FanVectors[n] = r3.Vec{X: real(v[0]), Y: real(v[1]), Z: real(v[2])}
		}
	}

	for n, v := range np.FanVectors {
		norm := r3.Norm(v)
		if norm == 0 {
			return NullPoint{}, ErrDegenerateFan
		}
		np.FanVectors[n] = r3.Scale(1/norm, v)
	}
	normal := r3.Cross(np.FanVectors[0], np.FanVectors[1])
	norm := r3.Norm(normal)
	if norm < crossTol {
		return NullPoint{}, ErrDegenerateFan
	}
	np.Normal = r3.Scale(1/norm, normal)
	return np, nil
}

func maxAbs(m *mat.Dense) float64 {
	var out float64
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = math.Max(out, math.Abs(m.At(i, j)))
		}
	}
	return out
}
