package separatrix

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Edge joins two vertices by index.
type Edge struct {
	A, B int
}

// Range is the half-open vertex index range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of vertices in the range.
func (r Range) Len() int { return r.End - r.Start }

// Mesh is an edge graph. Vertices are addressed by their index; Rings lists the
// vertex range of every traced ring in creation order.
type Mesh struct {
	Vertices []r3.Vec
	Edges    []Edge
	Rings    []Range
}

// Append concatenates o onto m, shifting the indices of o past the vertices
// already in m.
func (m *Mesh) Append(o *Mesh) {
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, e := range o.Edges {
		m.Edges = append(m.Edges, Edge{A: e.A + offset, B: e.B + offset})
	}
	for _, r := range o.Rings {
		m.Rings = append(m.Rings, Range{Start: r.Start + offset, End: r.End + offset})
	}
}

// Validate checks that every edge joins two distinct, existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, e := range m.Edges {
		if e.A == e.B || e.A < 0 || e.B < 0 || e.A >= n || e.B >= n {
			return &InvalidEdgeError{Index: i, Edge: e, N: n}
		}
	}
	return nil
}

// Builder grows a Mesh and hands out the indices of the vertices it adds.
type Builder struct {
	mesh Mesh
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Next returns the index the next vertex will receive.
func (b *Builder) Next() int { return len(b.mesh.Vertices) }

// AddVertex adds p and returns its index.
func (b *Builder) AddVertex(p r3.Vec) int {
	b.mesh.Vertices = append(b.mesh.Vertices, p)
	return len(b.mesh.Vertices) - 1
}

// AddEdge joins vertices a and c.
func (b *Builder) AddEdge(a, c int) {
	b.mesh.Edges = append(b.mesh.Edges, Edge{A: a, B: c})
}

// AddRing adds points as consecutive vertices and records their range.
// links[i] joins point i to point (i+1) mod len(points); links may be nil
// when no ring edges are wanted. The closing link is ignored for rings of
// fewer than three points.
func (b *Builder) AddRing(points []r3.Vec, links []bool) Range {
	r := Range{Start: b.Next()}
	for _, p := range points {
		b.AddVertex(p)
	}
	r.End = b.Next()

	for i, link := range links {
		if !link {
			continue
		}
		j := (i + 1) % len(points)
		if j == 0 && len(points) < 3 {
			continue
		}
		b.AddEdge(r.Start+i, r.Start+j)
	}
	b.mesh.Rings = append(b.mesh.Rings, r)
	return r
}

// Mesh returns the mesh built so far. The builder must not be used afterwards.
func (b *Builder) Mesh() *Mesh {
	return &b.mesh
}
