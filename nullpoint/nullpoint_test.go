package nullpoint

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// analytic is an unbounded closed-form field.
type analytic func(r3.Vec) r3.Vec

func (f analytic) Interpolate(p r3.Vec) r3.Vec { return f(p) }
func (f analytic) Contains(r3.Vec) bool        { return true }

func saddle(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: -2 * p.Z} }

// sampledSaddle puts the null of saddle in the interior of cell (3, 3, 3).
func sampledSaddle(t *testing.T, fn func(r3.Vec) r3.Vec) *field.VectorField {
	t.Helper()
	g, err := field.NewUniformGrid([3]int{8, 8, 8}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return field.Sample(g, fn)
}

func TestCellID(t *testing.T) {
	cells := [3]int{4, 5, 6}
	seen := make(map[uint32]bool)
	for k := 0; k < cells[2]; k++ {
		for j := 0; j < cells[1]; j++ {
			for i := 0; i < cells[0]; i++ {
				id := CellID(cells, i, j, k)
				require.False(t, seen[id])
				seen[id] = true

				gi, gj, gk := CellIndex(cells, id)
				require.Equal(t, [3]int{i, j, k}, [3]int{gi, gj, gk})
			}
		}
	}
	assert.Len(t, seen, 4*5*6)
}

func TestScan(t *testing.T) {
	t.Run("SingleCandidate", func(t *testing.T) {
		vf := sampledSaddle(t, saddle)
		cells, err := Scan(context.Background(), vf, 2)
		require.NoError(t, err)
		assert.Equal(t, []uint32{CellID(vf.Grid().Cells(), 3, 3, 3)}, cells.ToArray())
	})

	t.Run("NoSignChange", func(t *testing.T) {
		vf := sampledSaddle(t, func(p r3.Vec) r3.Vec { return r3.Vec{X: 1, Y: p.Y, Z: p.Z} })
		cells, err := Scan(context.Background(), vf, 0)
		require.NoError(t, err)
		assert.True(t, cells.IsEmpty())
	})

	t.Run("NullOnNode", func(t *testing.T) {
		g, err := field.NewUniformGrid([3]int{9, 9, 9}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
		require.NoError(t, err)
		cells, err := Scan(context.Background(), field.Sample(g, saddle), 2)
		require.NoError(t, err)
		assert.True(t, cells.IsEmpty())
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Scan(ctx, sampledSaddle(t, saddle), 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckCellCount(t *testing.T) {
	tests := []struct {
		name  string
		cells [3]int
		err   error
	}{
		{"Small", [3]int{4, 5, 6}, nil},
		{"Empty", [3]int{0, 1 << 20, 1 << 20}, nil},
		{"Exact", [3]int{1 << 16, 1 << 8, 1 << 8}, nil},
		{"OneOver", [3]int{1<<16 + 1, 1 << 8, 1 << 8}, ErrGridTooLarge},
		{"Huge", [3]int{1 << 20, 1 << 20, 1 << 20}, ErrGridTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkCellCount(tt.cells)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLocate(t *testing.T) {
	vf := sampledSaddle(t, saddle)

	t.Run("Cell", func(t *testing.T) {
		p, rep, ok := LocateCell(vf, [3]int{3, 3, 3})
		require.True(t, ok)
		assert.InDelta(t, 0, r3.Norm(p), 1e-9)
		assert.Equal(t, 6, rep.Seeds)
		assert.Equal(t, 6, rep.Accepted)
		assert.Zero(t, rep.Stalled+rep.Singular)
	})

	t.Run("EmptyCell", func(t *testing.T) {
		_, rep, ok := LocateCell(vf, [3]int{0, 0, 0})
		assert.False(t, ok)
		assert.Zero(t, rep.Accepted)
	})

	t.Run("Pipeline", func(t *testing.T) {
		cells, err := Scan(context.Background(), vf, 0)
		require.NoError(t, err)

		nulls, stats, err := Locate(context.Background(), vf, cells, 4)
		require.NoError(t, err)
		require.Len(t, nulls, 1)
		assert.InDelta(t, 0, r3.Norm(nulls[0]), 1e-9)
		assert.Equal(t, 1, stats.Candidates)
		assert.Equal(t, 1, stats.Located)
		assert.Zero(t, stats.RefineFailures())
	})
}

func TestDeduplicate(t *testing.T) {
	spacing := r3.Vec{X: 0.2, Y: 0.2, Z: 0.2}

	tests := []struct {
		name string
		in   []r3.Vec
		want []r3.Vec
	}{
		{"Empty", nil, []r3.Vec{}},
		{
			"FirstWins",
			[]r3.Vec{{X: 0.1}, {}, {X: 0.05, Y: 0.05, Z: 0.05}},
			[]r3.Vec{{X: 0.1}},
		},
		{
			"AllAxesMustBeClose",
			[]r3.Vec{{}, {X: 0.1, Y: 0.5}, {X: 1}},
			[]r3.Vec{{}, {X: 0.1, Y: 0.5}, {X: 1}},
		},
		{
			"Chain",
			[]r3.Vec{{}, {X: 0.15}, {X: 0.3}},
			[]r3.Vec{{}},
		},
		{
			"StrictlyLess",
			[]r3.Vec{{}, {X: 0.2}},
			[]r3.Vec{{}, {X: 0.2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deduplicate(tt.in, spacing))
		})
	}
}

func TestClassify(t *testing.T) {
	const h = 0.01

	assertFan := func(t *testing.T, np NullPoint) {
		t.Helper()
		for _, v := range np.FanVectors {
			assert.InDelta(t, 1, r3.Norm(v), 1e-9)
			assert.InDelta(t, 0, r3.Dot(v, np.Normal), 1e-9)
		}
		assert.InDelta(t, 1, r3.Norm(np.Normal), 1e-9)
	}

	t.Run("JacobianRowsAreComponents", func(t *testing.T) {
		shear := analytic(func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X + 2*p.Y, Y: p.Y, Z: -2 * p.Z} })
		jac := Jacobian(shear, r3.Vec{X: 0.3, Y: -0.2, Z: 0.1}, h)
		want := [3][3]float64{
			{1, 2, 0},
			{0, 1, 0},
			{0, 0, -2},
		}
		for i := range want {
			for j := range want[i] {
				assert.InDelta(t, want[i][j], jac.At(i, j), 1e-9, "J[%d][%d]", i, j)
			}
		}
	})

	t.Run("ImproperSaddle", func(t *testing.T) {
		np, err := ClassifyPoint(analytic(saddle), r3.Vec{}, h, DefaultClassifyOptions)
		require.NoError(t, err)
		assert.Equal(t, KindImproper, np.Kind)
		assert.Equal(t, 1, np.TraceSign)
		assert.InDelta(t, 1, math.Abs(np.Normal.Z), 1e-9)
		assertFan(t, np)

		var fan int
		for _, l := range np.Eigenvalues {
			if real(l) > 0 {
				assert.InDelta(t, 1, real(l), 1e-9)
				fan++
			}
		}
		assert.Equal(t, 2, fan)
	})

	t.Run("ReversedSaddle", func(t *testing.T) {
		np, err := ClassifyPoint(analytic(func(p r3.Vec) r3.Vec { return r3.Scale(-1, saddle(p)) }), r3.Vec{}, h, DefaultClassifyOptions)
		require.NoError(t, err)
		assert.Equal(t, -1, np.TraceSign)
		assert.InDelta(t, 1, math.Abs(np.Normal.Z), 1e-9)
		assertFan(t, np)
	})

	t.Run("Eigenpairs", func(t *testing.T) {
		f := analytic(func(p r3.Vec) r3.Vec {
			return r3.Vec{X: 2*p.X + p.Y, Y: p.X - p.Y + p.Z, Z: -p.Z + 0.5*p.X}
		})
		np, err := ClassifyPoint(f, r3.Vec{}, h, DefaultClassifyOptions)
		require.NoError(t, err)

		jac := Jacobian(f, r3.Vec{}, h)
		for n, l := range np.Eigenvalues {
			for i := 0; i < 3; i++ {
				var got complex128
				for j := 0; j < 3; j++ {
					got += complex(jac.At(i, j), 0) * np.Eigenvectors[n][j]
				}
				want := l * np.Eigenvectors[n][i]
				assert.InDelta(t, real(want), real(got), 1e-9)
				assert.InDelta(t, imag(want), imag(got), 1e-9)
			}
		}
		assertFan(t, np)
	})

	t.Run("Spiral", func(t *testing.T) {
		f := analytic(func(p r3.Vec) r3.Vec {
			return r3.Vec{X: p.X - 2*p.Y, Y: 2*p.X + p.Y, Z: -2 * p.Z}
		})
		np, err := ClassifyPoint(f, r3.Vec{}, h, DefaultClassifyOptions)
		require.NoError(t, err)
		assert.Equal(t, KindSpiral, np.Kind)
		assert.Equal(t, 1, np.TraceSign)
		assert.InDelta(t, 1, math.Abs(np.Normal.Z), 1e-9)
		assertFan(t, np)

		opts := DefaultClassifyOptions
		opts.AllowSpiral = false
		_, err = ClassifyPoint(f, r3.Vec{}, h, opts)
		assert.ErrorIs(t, err, ErrSpiralNull)
	})

	t.Run("Degenerate", func(t *testing.T) {
		f := analytic(func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X + p.Y, Y: p.X + p.Y, Z: p.Z} })
		_, err := ClassifyPoint(f, r3.Vec{}, h, DefaultClassifyOptions)
		assert.ErrorIs(t, err, ErrDegenerateNull)
	})

	t.Run("ZeroField", func(t *testing.T) {
		_, err := ClassifyPoint(analytic(func(r3.Vec) r3.Vec { return r3.Vec{} }), r3.Vec{}, h, DefaultClassifyOptions)
		assert.ErrorIs(t, err, ErrDegenerateNull)
	})

	t.Run("Source", func(t *testing.T) {
		_, err := ClassifyPoint(analytic(func(p r3.Vec) r3.Vec { return p }), r3.Vec{}, h, DefaultClassifyOptions)
		assert.ErrorIs(t, err, ErrNotSaddle)
	})

	t.Run("Batch", func(t *testing.T) {
		vf := sampledSaddle(t, saddle)
		positions := []r3.Vec{{}, {X: 0.5, Y: 0.5, Z: 0.5}}
		f := analytic(func(p r3.Vec) r3.Vec {
			if p.X > 0.25 {
				return r3.Vec{}
			}
			return vf.Interpolate(p)
		})

		nulls, rejected := Classify(f, positions, vf.Grid().MinSpacing())
		require.Len(t, nulls, 1)
		require.Len(t, rejected, 1)
		assert.Equal(t, positions[0], nulls[0].Position)
		assert.Equal(t, positions[1], rejected[0].Position)
		assert.ErrorIs(t, rejected[0].Err, ErrDegenerateNull)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "improper", KindImproper.String())
	assert.Equal(t, "spiral", KindSpiral.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
