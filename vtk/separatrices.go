package vtk

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/fieldtopo/separatrix"
)

// WriteSeparatrices writes m as VTK_LINE cells. Ring membership is stored as
// the point scalar "ring" (-1 for vertices outside any ring).
func WriteSeparatrices(w io.Writer, m *separatrix.Mesh) error {
	e := newEncoder(w, "fieldtopo separatrices", "UNSTRUCTURED_GRID")
	e.points(m.Vertices)

	e.printf("CELLS %d %d\n", len(m.Edges), 3*len(m.Edges))
	for _, edge := range m.Edges {
		e.ints(2, edge.A, edge.B)
	}
	e.printf("CELL_TYPES %d\n", len(m.Edges))
	for range m.Edges {
		e.ints(cellLine)
	}

	ring := make([]int, len(m.Vertices))
	for i := range ring {
		ring[i] = -1
	}
	for n, r := range m.Rings {
		for i := r.Start; i < r.End; i++ {
			ring[i] = n
		}
	}
	e.printf("POINT_DATA %d\n", len(m.Vertices))
	e.line("SCALARS ring int 1")
	e.line("LOOKUP_TABLE default")
	for _, id := range ring {
		e.ints(id)
	}
	return e.close()
}

// ReadSeparatrices reads a file written by WriteSeparatrices. Empty rings are
// not representable and are not restored.
func ReadSeparatrices(r io.Reader) (*separatrix.Mesh, error) {
	d, err := newDecoder(r, "UNSTRUCTURED_GRID")
	if err != nil {
		return nil, err
	}
	m := &separatrix.Mesh{}
	if m.Vertices, err = d.points(); err != nil {
		return nil, err
	}

	if err := d.expect("CELLS"); err != nil {
		return nil, err
	}
	cells, err := d.count()
	if err != nil {
		return nil, err
	}
	size, err := d.count()
	if err != nil {
		return nil, err
	}
	if size != 3*cells {
		return nil, fmt.Errorf("%w: only two-point cells are supported", ErrFormat)
	}
	m.Edges = make([]separatrix.Edge, 0, initialCap(cells))
	for range cells {
		if err := d.expect("2"); err != nil {
			return nil, err
		}
		var e separatrix.Edge
		if e.A, err = d.int(); err != nil {
			return nil, err
		}
		if e.B, err = d.int(); err != nil {
			return nil, err
		}
		m.Edges = append(m.Edges, e)
	}

	if err := d.expect("CELL_TYPES"); err != nil {
		return nil, err
	}
	types, err := d.count()
	if err != nil {
		return nil, err
	}
	if types != cells {
		return nil, fmt.Errorf("%w: %d cell types for %d cells", ErrFormat, types, cells)
	}
	for i := 0; i < types; i++ {
		t, err := d.int()
		if err != nil {
			return nil, err
		}
		if t != cellLine {
			return nil, fmt.Errorf("%w: cell %d has type %d, want VTK_LINE", ErrFormat, i, t)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	tok, ok, err := d.next()
	if err != nil || !ok {
		return m, err
	}
	if !strings.EqualFold(tok, "POINT_DATA") {
		return nil, fmt.Errorf("%w: expected POINT_DATA, got %q", ErrFormat, tok)
	}
	if _, err := d.count(); err != nil {
		return nil, err
	}
	ring, err := d.scalars("ring", len(m.Vertices))
	if err != nil {
		return nil, err
	}
	m.Rings = ringRanges(ring)
	return m, nil
}

// ringRanges turns per-vertex ring ids back into contiguous ranges.
func ringRanges(ring []int) []separatrix.Range {
	var out []separatrix.Range
	for i := 0; i < len(ring); {
		j := i + 1
		for j < len(ring) && ring[j] == ring[i] {
			j++
		}
		if ring[i] >= 0 {
			out = append(out, separatrix.Range{Start: i, End: j})
		}
		i = j
	}
	return out
}
