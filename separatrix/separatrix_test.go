package separatrix

import (
	"context"
	"testing"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func saddleField(t *testing.T) *field.VectorField {
	t.Helper()
	g, err := field.NewUniformGrid([3]int{8, 8, 8}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return field.Sample(g, func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: -2 * p.Z} })
}

func saddleNull(pos r3.Vec) nullpoint.NullPoint {
	return nullpoint.NullPoint{
		Position:   pos,
		TraceSign:  1,
		FanVectors: [2]r3.Vec{{X: 1}, {Y: 1}},
		Normal:     r3.Vec{Z: 1},
	}
}

func edgeSet(m *Mesh) map[Edge]bool {
	set := make(map[Edge]bool, len(m.Edges))
	for _, e := range m.Edges {
		set[e] = true
		set[Edge{A: e.B, B: e.A}] = true
	}
	return set
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, 0, b.AddVertex(r3.Vec{}))
	assert.Equal(t, 1, b.Next())

	r := b.AddRing([]r3.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}, []bool{true, false, true, true})
	assert.Equal(t, Range{Start: 1, End: 5}, r)
	assert.Equal(t, 4, r.Len())

	pair := b.AddRing([]r3.Vec{{Z: 1}, {Z: 2}}, []bool{true, true})
	assert.Equal(t, Range{Start: 5, End: 7}, pair)

	m := b.Mesh()
	assert.Equal(t, []Edge{{A: 1, B: 2}, {A: 3, B: 4}, {A: 4, B: 1}, {A: 5, B: 6}}, m.Edges)
	assert.Equal(t, []Range{r, pair}, m.Rings)
	require.NoError(t, m.Validate())
}

func TestMeshAppend(t *testing.T) {
	a := &Mesh{
		Vertices: []r3.Vec{{}, {X: 1}},
		Edges:    []Edge{{A: 0, B: 1}},
		Rings:    []Range{{Start: 1, End: 2}},
	}
	b := &Mesh{
		Vertices: []r3.Vec{{Y: 1}, {Y: 2}, {Y: 3}},
		Edges:    []Edge{{A: 0, B: 2}, {A: 1, B: 2}},
		Rings:    []Range{{Start: 0, End: 3}},
	}
	a.Append(b)

	assert.Len(t, a.Vertices, 5)
	assert.Equal(t, []Edge{{A: 0, B: 1}, {A: 2, B: 4}, {A: 3, B: 4}}, a.Edges)
	assert.Equal(t, []Range{{Start: 1, End: 2}, {Start: 2, End: 5}}, a.Rings)
	require.NoError(t, a.Validate())
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
	}{
		{"SelfLoop", Edge{A: 1, B: 1}},
		{"OutOfRange", Edge{A: 0, B: 2}},
		{"Negative", Edge{A: -1, B: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: []r3.Vec{{}, {X: 1}}, Edges: []Edge{{A: 0, B: 1}, tt.edge}}
			err := m.Validate()

			var ee *InvalidEdgeError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, 1, ee.Index)
			assert.Equal(t, tt.edge, ee.Edge)
		})
	}
}

func TestTrace(t *testing.T) {
	vf := saddleField(t)

	t.Run("ClosedRings", func(t *testing.T) {
		m, err := Trace(context.Background(), vf, saddleNull(r3.Vec{}), func(o *Options) {
			o.IterMax = 5
		})
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		require.Len(t, m.Rings, 6)
		assert.Equal(t, r3.Vec{}, m.Vertices[0])
		assert.Equal(t, 8, m.Rings[0].Len())

		edges := edgeSet(m)
		for i := 0; i < m.Rings[0].Len(); i++ {
			assert.True(t, edges[Edge{A: 0, B: m.Rings[0].Start + i}], "spoke %d", i)
		}
		for n, r := range m.Rings {
			require.GreaterOrEqual(t, r.Len(), 8)
			for i := r.Start; i < r.End; i++ {
				next := i + 1
				if next == r.End {
					next = r.Start
				}
				assert.True(t, edges[Edge{A: i, B: next}], "ring %d edge %d-%d", n, i, next)
				assert.InDelta(t, 0, m.Vertices[i].Z, 1e-12)
			}
			if n == 0 {
				continue
			}
			prev := m.Rings[n-1]
			for i := prev.Start; i < prev.End; i++ {
				var stitched bool
				for j := r.Start; j < r.End; j++ {
					stitched = stitched || edges[Edge{A: i, B: j}]
				}
				assert.True(t, stitched, "ring %d vertex %d not stitched", n-1, i)
			}
		}
	})

	t.Run("RingsGrowOutward", func(t *testing.T) {
		m, err := Trace(context.Background(), vf, saddleNull(r3.Vec{}), func(o *Options) {
			o.IterMax = 3
		})
		require.NoError(t, err)
		for n, r := range m.Rings {
			for i := r.Start; i < r.End; i++ {
				assert.LessOrEqual(t, r3.Norm(m.Vertices[i]), 0.1*float64(n+1)+1e-9)
			}
		}
		first := m.Rings[1]
		for i := first.Start; i < first.End; i++ {
			assert.Greater(t, r3.Norm(m.Vertices[i]), 0.1)
		}
	})

	t.Run("LeavesDomain", func(t *testing.T) {
		m, err := Trace(context.Background(), vf, saddleNull(r3.Vec{}))
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Less(t, len(m.Rings), DefaultOptions.IterMax+1)
		for _, p := range m.Vertices {
			assert.True(t, vf.Contains(p))
		}
	})

	t.Run("NoIterations", func(t *testing.T) {
		m, err := Trace(context.Background(), vf, saddleNull(r3.Vec{}), func(o *Options) {
			o.IterMax = 0
			o.RingDensity = 4
		})
		require.NoError(t, err)
		assert.Len(t, m.Vertices, 5)
		assert.Len(t, m.Edges, 8)
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		_, err := Trace(context.Background(), vf, saddleNull(r3.Vec{}), func(o *Options) { o.Delta = 0 })
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Trace(ctx, vf, saddleNull(r3.Vec{}))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTraceAll(t *testing.T) {
	vf := saddleField(t)
	nulls := []nullpoint.NullPoint{saddleNull(r3.Vec{}), saddleNull(r3.Vec{Z: 0.5})}
	opt := func(o *Options) { o.IterMax = 2 }

	m, err := TraceAll(context.Background(), vf, nulls, 2, opt)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	first, err := Trace(context.Background(), vf, nulls[0], opt)
	require.NoError(t, err)
	second, err := Trace(context.Background(), vf, nulls[1], opt)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, len(first.Vertices)+len(second.Vertices))
	assert.Len(t, m.Edges, len(first.Edges)+len(second.Edges))
	assert.Equal(t, nulls[0].Position, m.Vertices[0])
	assert.Equal(t, nulls[1].Position, m.Vertices[len(first.Vertices)])
}
