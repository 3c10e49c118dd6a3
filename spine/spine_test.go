package spine

import (
	"context"
	"testing"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func saddleField(t *testing.T, sign float64) *field.VectorField {
	t.Helper()
	g, err := field.NewUniformGrid([3]int{8, 8, 8}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return field.Sample(g, func(p r3.Vec) r3.Vec { return r3.Scale(sign, r3.Vec{X: p.X, Y: p.Y, Z: -2 * p.Z}) })
}

func TestTrace(t *testing.T) {
	tests := []struct {
		name      string
		sign      float64
		traceSign int
	}{
		{"Saddle", 1, 1},
		{"ReversedSaddle", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vf := saddleField(t, tt.sign)
			np := nullpoint.NullPoint{TraceSign: tt.traceSign, Normal: r3.Vec{Z: 1}}

			curves, err := Trace(context.Background(), vf, np)
			require.NoError(t, err)

			for n, c := range curves {
				dir := float64(c.Direction)
				assert.Equal(t, 1-2*n, c.Direction)
				require.Greater(t, len(c.Points), 2)
				assert.Equal(t, r3.Vec{}, c.Points[0])

				for i := 1; i < len(c.Points); i++ {
					p := c.Points[i]
					assert.True(t, vf.Contains(p))
					assert.Greater(t, dir*p.Z, dir*c.Points[i-1].Z)
					assert.InDelta(t, 0, p.X, 1e-9)
					assert.InDelta(t, 0, p.Y, 1e-9)
				}
				last := c.Points[len(c.Points)-1]
				assert.InDelta(t, 1, dir*last.Z, 0.1+1e-9)
			}
		})
	}
}

func TestTraceTermination(t *testing.T) {
	vf := saddleField(t, 1)
	np := nullpoint.NullPoint{TraceSign: 1, Normal: r3.Vec{Z: 1}}

	t.Run("IterMax", func(t *testing.T) {
		curves, err := Trace(context.Background(), vf, np, func(o *Options) { o.IterMax = 3 })
		require.NoError(t, err)
		for _, c := range curves {
			assert.Len(t, c.Points, 4)
		}
	})

	t.Run("StartOutside", func(t *testing.T) {
		curves, err := Trace(context.Background(), vf, nullpoint.NullPoint{Position: r3.Vec{Z: 0.95}, TraceSign: 1, Normal: r3.Vec{Z: 1}})
		require.NoError(t, err)
		assert.Len(t, curves[0].Points, 1)
		assert.Greater(t, len(curves[1].Points), 1)
	})

	t.Run("ZeroField", func(t *testing.T) {
		zero := field.Sample(vf.Grid(), func(r3.Vec) r3.Vec { return r3.Vec{} })
		curves, err := Trace(context.Background(), zero, np)
		require.NoError(t, err)
		for _, c := range curves {
			assert.Len(t, c.Points, 2)
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Trace(ctx, vf, np, func(o *Options) { o.IterMax = 1 << 30 })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		_, err := Trace(context.Background(), vf, np, func(o *Options) { o.Delta = -1 })
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})
}

func TestTraceAll(t *testing.T) {
	vf := saddleField(t, 1)
	nulls := []nullpoint.NullPoint{
		{TraceSign: 1, Normal: r3.Vec{Z: 1}},
		{Position: r3.Vec{X: 0.5}, TraceSign: 1, Normal: r3.Vec{Z: 1}},
	}

	curves, err := TraceAll(context.Background(), vf, nulls, 0)
	require.NoError(t, err)
	require.Len(t, curves, 4)
	for i, c := range curves {
		assert.Equal(t, nulls[i/2].Position, c.Null)
		assert.Equal(t, c.Null, c.Points[0])
	}
	assert.Equal(t, 1, curves[2].Direction)
	assert.Equal(t, -1, curves[3].Direction)
}
