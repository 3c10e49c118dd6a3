package nullpoint

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind distinguishes nulls by the eigenvalues spanning their fan plane.
type Kind uint8

const (
	// KindImproper nulls have two real fan eigenvalues.
	KindImproper Kind = iota
	// KindSpiral nulls have a complex-conjugate fan pair; field lines in the
	// fan plane spiral around the null.
	KindSpiral
)

func (k Kind) String() string {
	switch k {
	case KindImproper:
		return "improper"
	case KindSpiral:
		return "spiral"
	default:
		return "unknown"
	}
}

// NullPoint is a classified null.
//
// Eigenvalues and Eigenvectors come from the same Jacobian; Eigenvectors[n] is
// the eigenvector of Eigenvalues[n]. FanVectors are unit vectors spanning the
// fan plane and Normal is their unit cross product.
type NullPoint struct {
	Position     r3.Vec
	Eigenvalues  [3]complex128
	Eigenvectors [3][3]complex128
	// TraceSign is +1 when the fan is traced along the field and -1 against it.
	TraceSign  int
	FanVectors [2]r3.Vec
	Normal     r3.Vec
	Kind       Kind
}

// Rejection records a candidate null that was dropped during classification.
type Rejection struct {
	Position r3.Vec
	Err      error
}
