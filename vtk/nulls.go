package vtk

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/fieldtopo/nullpoint"
	"gonum.org/v1/gonum/spatial/r3"
)

const nullArrays = 11

// WriteNulls writes nulls as a point cloud with per-point attributes.
func WriteNulls(w io.Writer, nulls []nullpoint.NullPoint) error {
	e := newEncoder(w, "fieldtopo null points", "UNSTRUCTURED_GRID")

	positions := make([]r3.Vec, len(nulls))
	for i, np := range nulls {
		positions[i] = np.Position
	}
	e.points(positions)

	n := len(nulls)
	e.printf("POINT_DATA %d\n", n)
	e.printf("FIELD FieldData %d\n", nullArrays)
	for d := 0; d < 3; d++ {
		e.printf("eigen_value_%d 2 %d double\n", d, n)
		for _, np := range nulls {
			l := np.Eigenvalues[d]
			e.floats(real(l), imag(l))
		}
		e.printf("eigen_vector_%d 6 %d double\n", d, n)
		for _, np := range nulls {
			v := np.Eigenvectors[d]
			e.floats(real(v[0]), imag(v[0]), real(v[1]), imag(v[1]), real(v[2]), imag(v[2]))
		}
	}
	for d := 0; d < 2; d++ {
		e.printf("fan_vector_%d 3 %d double\n", d, n)
		for _, np := range nulls {
			v := np.FanVectors[d]
			e.floats(v.X, v.Y, v.Z)
		}
	}
	e.printf("sign_trace 1 %d int\n", n)
	for _, np := range nulls {
		e.ints(np.TraceSign)
	}
	e.printf("normal 3 %d double\n", n)
	for _, np := range nulls {
		e.floats(np.Normal.X, np.Normal.Y, np.Normal.Z)
	}
	e.printf("kind 1 %d int\n", n)
	for _, np := range nulls {
		e.ints(int(np.Kind))
	}
	return e.close()
}

// ReadNulls reads a file written by WriteNulls. Unknown field arrays are
// skipped; missing attributes stay zero.
func ReadNulls(r io.Reader) ([]nullpoint.NullPoint, error) {
	d, err := newDecoder(r, "UNSTRUCTURED_GRID")
	if err != nil {
		return nil, err
	}
	positions, err := d.points()
	if err != nil {
		return nil, err
	}
	nulls := make([]nullpoint.NullPoint, len(positions))
	for i, p := range positions {
		nulls[i].Position = p
	}

	tok, ok, err := d.next()
	if err != nil || !ok {
		return nulls, err
	}
	if !strings.EqualFold(tok, "POINT_DATA") {
		return nil, fmt.Errorf("%w: expected POINT_DATA, got %q", ErrFormat, tok)
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	if n != len(nulls) {
		return nil, fmt.Errorf("%w: POINT_DATA %d for %d points", ErrFormat, n, len(nulls))
	}
	if err := d.expect("FIELD"); err != nil {
		return nil, err
	}
	if _, err := d.token(); err != nil {
		return nil, err
	}
	arrays, err := d.count()
	if err != nil {
		return nil, err
	}
	for a := 0; a < arrays; a++ {
		if err := readNullArray(d, nulls); err != nil {
			return nil, err
		}
	}
	return nulls, nil
}

func readNullArray(d *decoder, nulls []nullpoint.NullPoint) error {
	name, err := d.token()
	if err != nil {
		return err
	}
	comps, err := d.count()
	if err != nil {
		return err
	}
	tuples, err := d.count()
	if err != nil {
		return err
	}
	if err := d.dataType(); err != nil {
		return err
	}
	if tuples != len(nulls) {
		return fmt.Errorf("%w: array %s has %d tuples for %d points", ErrFormat, name, tuples, len(nulls))
	}

	set, want := nullSetter(name)
	if set != nil && comps != want {
		return fmt.Errorf("%w: array %s has %d components, want %d", ErrFormat, name, comps, want)
	}
	if comps > 64 {
		return fmt.Errorf("%w: array %s has %d components", ErrFormat, name, comps)
	}
	buf := make([]float64, comps)
	for i := range nulls {
		if err := d.floats(buf); err != nil {
			return err
		}
		if set != nil {
			set(&nulls[i], buf)
		}
	}
	return nil
}

// nullSetter returns the function storing array name into a null and the
// number of components it expects, or nil for unknown arrays.
func nullSetter(name string) (func(*nullpoint.NullPoint, []float64), int) {
	switch name {
	case "sign_trace":
		return func(np *nullpoint.NullPoint, v []float64) { np.TraceSign = int(v[0]) }, 1
	case "kind":
		return func(np *nullpoint.NullPoint, v []float64) { np.Kind = nullpoint.Kind(v[0]) }, 1
	case "normal":
		return func(np *nullpoint.NullPoint, v []float64) { np.Normal = r3.Vec{X: v[0], Y: v[1], Z: v[2]} }, 3
	}

	prefix, idx, ok := indexedName(name)
	if !ok {
		return nil, 0
	}
	switch {
	case prefix == "eigen_value_" && idx < 3:
		return func(np *nullpoint.NullPoint, v []float64) { np.Eigenvalues[idx] = complex(v[0], v[1]) }, 2
	case prefix == "eigen_vector_" && idx < 3:
		return func(np *nullpoint.NullPoint, v []float64) {
			for c := 0; c < 3; c++ {
				np.Eigenvectors[idx][c] = complex(v[2*c], v[2*c+1])
			}
		}, 6
	case prefix == "fan_vector_" && idx < 2:
		return func(np *nullpoint.NullPoint, v []float64) { np.FanVectors[idx] = r3.Vec{X: v[0], Y: v[1], Z: v[2]} }, 3
	}
	return nil, 0
}

// indexedName splits "eigen_value_2" into "eigen_value_" and 2.
func indexedName(name string) (string, int, bool) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(name[i+1:])
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return name[:i+1], idx, true
}
