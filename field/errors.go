package field

import "errors"

var (
	// ErrBadShape is returned when an axis has fewer than two samples or the
	// data length does not match 3*nx*ny*nz.
	ErrBadShape = errors.New("field: invalid shape")

	// ErrNotMonotonic is returned when grid coordinates are not strictly increasing.
	ErrNotMonotonic = errors.New("field: coordinates not strictly increasing")

	// ErrNonUniformGrid is returned when the spacing along an axis varies.
	// Only regular grids are supported.
	ErrNonUniformGrid = errors.New("field: non-uniform grid spacing")
)
