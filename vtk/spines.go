package vtk

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/fieldtopo/spine"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteSpines writes one polyline per curve. The curve direction is stored as
// the cell scalar "direction".
func WriteSpines(w io.Writer, curves []spine.Curve) error {
	e := newEncoder(w, "fieldtopo spines", "POLYDATA")

	var (
		points []r3.Vec
		size   int
	)
	for _, c := range curves {
		points = append(points, c.Points...)
		size += 1 + len(c.Points)
	}
	e.points(points)

	e.printf("LINES %d %d\n", len(curves), size)
	offset := 0
	for _, c := range curves {
		ids := make([]int, 0, 1+len(c.Points))
		ids = append(ids, len(c.Points))
		for i := range c.Points {
			ids = append(ids, offset+i)
		}
		e.ints(ids...)
		offset += len(c.Points)
	}

	e.printf("CELL_DATA %d\n", len(curves))
	e.line("SCALARS direction int 1")
	e.line("LOOKUP_TABLE default")
	for _, c := range curves {
		e.ints(c.Direction)
	}
	return e.close()
}

// ReadSpines reads a file written by WriteSpines. The null of each curve is
// its first point.
func ReadSpines(r io.Reader) ([]spine.Curve, error) {
	d, err := newDecoder(r, "POLYDATA")
	if err != nil {
		return nil, err
	}
	points, err := d.points()
	if err != nil {
		return nil, err
	}

	if err := d.expect("LINES"); err != nil {
		return nil, err
	}
	lines, err := d.count()
	if err != nil {
		return nil, err
	}
	if _, err := d.count(); err != nil {
		return nil, err
	}

	curves := make([]spine.Curve, 0, initialCap(lines))
	for range lines {
		k, err := d.count()
		if err != nil {
			return nil, err
		}
		c := spine.Curve{Points: make([]r3.Vec, 0, initialCap(k))}
		for range k {
			id, err := d.int()
			if err != nil {
				return nil, err
			}
			if id < 0 || id >= len(points) {
				return nil, fmt.Errorf("%w: point id %d out of range", ErrFormat, id)
			}
			c.Points = append(c.Points, points[id])
		}
		if k > 0 {
			c.Null = c.Points[0]
		}
		curves = append(curves, c)
	}

	tok, ok, err := d.next()
	if err != nil || !ok {
		return curves, err
	}
	if !strings.EqualFold(tok, "CELL_DATA") {
		return nil, fmt.Errorf("%w: expected CELL_DATA, got %q", ErrFormat, tok)
	}
	if _, err := d.count(); err != nil {
		return nil, err
	}
	dirs, err := d.scalars("direction", lines)
	if err != nil {
		return nil, err
	}
	for i, dir := range dirs {
		curves[i].Direction = dir
	}
	return curves, nil
}
