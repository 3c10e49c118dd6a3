package trilinear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxNewtonSteps caps the refinement iteration.
	MaxNewtonSteps = 10
	// NewtonTol is the per-component step size at which refinement stops.
	NewtonTol = 1e-5
)

// Refine runs Newton-Raphson from seed towards a zero of all three model
// components.
//
// On success the error is nil. Otherwise the best estimate is still returned
// together with ErrSingularJacobian or ErrRefinementStalled; callers decide
// whether the estimate is usable.
func (m *Model) Refine(seed r3.Vec) (r3.Vec, error) {
	x := seed
	rhs := mat.NewVecDense(3, nil)
	var step mat.VecDense
	for it := 0; it < MaxNewtonSteps; it++ {
		f := m.Eval(x)
		rhs.SetVec(0, f.X)
		rhs.SetVec(1, f.Y)
		rhs.SetVec(2, f.Z)

		j := m.Jacobian(x)
		if d := mat.Det(j); d == 0 || math.IsNaN(d) {
			return x, fmt.Errorf("step %d at %v: %w", it, x, ErrSingularJacobian)
		}
		if err := step.SolveVec(j, rhs); err != nil {
			return x, fmt.Errorf("step %d at %v: %w", it, x, ErrSingularJacobian)
		}

		dx := r3.Vec{X: step.AtVec(0), Y: step.AtVec(1), Z: step.AtVec(2)}
		x = r3.Sub(x, dx)

		adx := [3]float64{math.Abs(dx.X), math.Abs(dx.Y), math.Abs(dx.Z)}
		if adx[0] < NewtonTol && adx[1] < NewtonTol && adx[2] < NewtonTol {
			return x, nil
		}
		if adx[0] > 1 || adx[1] > 1 || adx[2] > 1 {
			return x, fmt.Errorf("step %d left the cell: %w", it, ErrRefinementStalled)
		}
	}
	return x, fmt.Errorf("no convergence after %d steps: %w", MaxNewtonSteps, ErrRefinementStalled)
}
