package testutil

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// Func is a closed-form field.
type Func func(r3.Vec) r3.Vec

// Unbounded is an Interpolator that evaluates fn everywhere.
type Unbounded Func

// Interpolate implements field.Interpolator.
func (u Unbounded) Interpolate(p r3.Vec) r3.Vec { return u(p) }

// Contains implements field.Interpolator.
func (Unbounded) Contains(r3.Vec) bool { return true }

// Linear returns the field m·(p - center).
func Linear(m [3][3]float64, center r3.Vec) Func {
	return func(p r3.Vec) r3.Vec {
		d := r3.Sub(p, center)
		return r3.Vec{
			X: m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
			Y: m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
			Z: m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
		}
	}
}

// Saddle returns (x, y, -2z) around center: an improper null whose fan is the
// xy plane and whose spines run along z.
func Saddle(center r3.Vec) Func {
	return Linear([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, -2}}, center)
}

// ReversedSaddle returns -Saddle: the fan is attracting and the spines repel.
func ReversedSaddle(center r3.Vec) Func {
	return Linear([3][3]float64{{-1, 0, 0}, {0, -1, 0}, {0, 0, 2}}, center)
}

// SpiralSaddle returns a null whose fan eigenvalues are 1 ± iw.
func SpiralSaddle(center r3.Vec, w float64) Func {
	return Linear([3][3]float64{{1, -w, 0}, {w, 1, 0}, {0, 0, -2}}, center)
}

// Source returns the radial field p - center, which has no fan plane.
func Source(center r3.Vec) Func {
	return Linear([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, center)
}

// Sum adds fields.
func Sum(fns ...Func) Func {
	return func(p r3.Vec) r3.Vec {
		var v r3.Vec
		for _, fn := range fns {
			v = r3.Add(v, fn(p))
		}
		return v
	}
}

// SampleBox samples fn on an n×n×n grid spanning [lower, upper].
func SampleBox(tb testing.TB, n int, lower, upper r3.Vec, fn Func) *field.VectorField {
	tb.Helper()
	g, err := field.NewUniformGrid([3]int{n, n, n}, lower, upper)
	require.NoError(tb, err)
	return field.Sample(g, fn)
}

// SampleCube samples fn on an n×n×n grid spanning [-half, half]³.
func SampleCube(tb testing.TB, n int, half float64, fn Func) *field.VectorField {
	tb.Helper()
	return SampleBox(tb, n, r3.Vec{X: -half, Y: -half, Z: -half}, r3.Vec{X: half, Y: half, Z: half}, fn)
}

// AssertVecInDelta asserts that every component of got is within delta of want.
func AssertVecInDelta(tb testing.TB, want, got r3.Vec, delta float64, msgAndArgs ...any) bool {
	tb.Helper()
	ok := assert.InDelta(tb, want.X, got.X, delta, msgAndArgs...)
	ok = assert.InDelta(tb, want.Y, got.Y, delta, msgAndArgs...) && ok
	return assert.InDelta(tb, want.Z, got.Z, delta, msgAndArgs...) && ok
}

// AssertUnit asserts that v has unit length.
func AssertUnit(tb testing.TB, v r3.Vec, msgAndArgs ...any) bool {
	tb.Helper()
	return assert.InDelta(tb, 1, r3.Norm(v), 1e-9, msgAndArgs...)
}

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Vec returns a point drawn uniformly from box.
func (r *RNG) Vec(box r3.Box) r3.Vec {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := r3.Sub(box.Max, box.Min)
	return r3.Vec{
		X: box.Min.X + r.rand.Float64()*size.X,
		Y: box.Min.Y + r.rand.Float64()*size.Y,
		Z: box.Min.Z + r.rand.Float64()*size.Z,
	}
}

// UnitVec returns a direction drawn uniformly from the unit sphere.
func (r *RNG) UnitVec() r3.Vec {
	r.mu.Lock()
	defer r.mu.Unlock()
	z := 2*r.rand.Float64() - 1
	phi := 2 * math.Pi * r.rand.Float64()
	s := math.Sqrt(1 - z*z)
	return r3.Vec{X: s * math.Cos(phi), Y: s * math.Sin(phi), Z: z}
}

// Points returns n points drawn uniformly from box.
func (r *RNG) Points(n int, box r3.Box) []r3.Vec {
	out := make([]r3.Vec, n)
	for i := range out {
		out[i] = r.Vec(box)
	}
	return out
}
