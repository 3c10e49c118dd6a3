package vtk

import "errors"

// ErrFormat is returned for input that is not a file of the expected kind.
var ErrFormat = errors.New("vtk: malformed file")
