package trilinear

import "errors"

var (
	// ErrRefinementStalled is returned by Refine when the Newton iteration
	// exhausts its step budget or takes a step larger than the cell.
	// The accompanying estimate is still the best one available.
	ErrRefinementStalled = errors.New("trilinear: refinement stalled")

	// ErrSingularJacobian is returned by Refine when the model Jacobian cannot
	// be inverted at the current estimate.
	ErrSingularJacobian = errors.New("trilinear: singular jacobian")
)
