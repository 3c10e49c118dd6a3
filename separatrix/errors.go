package separatrix

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned when tracing options are out of range.
var ErrInvalidOptions = errors.New("separatrix: invalid options")

// InvalidEdgeError reports an edge that does not join two distinct vertices of
// the mesh.
type InvalidEdgeError struct {
	Index int
	Edge  Edge
	N     int
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("separatrix: edge %d (%d, %d) invalid for %d vertices", e.Index, e.Edge.A, e.Edge.B, e.N)
}
