package nullpoint

import "errors"

var (
	// ErrDegenerateNull is reported for a null whose Jacobian determinant is
	// zero within tolerance.
	ErrDegenerateNull = errors.New("nullpoint: degenerate null (singular jacobian)")

	// ErrNotSaddle is reported when the eigenvalues do not contain exactly two
	// of the sign selected by the determinant, so there is no fan plane.
	ErrNotSaddle = errors.New("nullpoint: null has no fan plane")

	// ErrSpiralNull is reported for nulls with a complex-conjugate fan pair
	// when spiral nulls are disabled.
	ErrSpiralNull = errors.New("nullpoint: spiral null not supported")

	// ErrDegenerateFan is reported when the two fan vectors are parallel.
	ErrDegenerateFan = errors.New("nullpoint: fan vectors are parallel")

	// ErrGridTooLarge is returned by Scan for grids whose cells do not fit
	// into 32-bit cell ids.
	ErrGridTooLarge = errors.New("nullpoint: grid has more cells than cell ids")
)
