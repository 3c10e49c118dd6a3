package separatrix

import (
	"context"
	"math"
	"runtime"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ringPoint is a live ring point and the mesh vertex it was recorded as.
type ringPoint struct {
	pos    r3.Vec
	vertex int
}

// Trace grows the separatrix mesh of a single null. Vertex 0 of the returned
// mesh is the null itself and the first ring is the seed ring.
//
// Tracing stops after IterMax steps or once every ring point has left the
// domain; an empty ring is not an error.
func Trace(ctx context.Context, interp field.Interpolator, np nullpoint.NullPoint, optFns ...func(o *Options)) (*Mesh, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	b := NewBuilder()
	null := b.AddVertex(np.Position)

	ring := seedRing(np, opts)
	seed := b.AddRing(ring, closedLinks(len(ring)))
	for i := 0; i < seed.Len(); i++ {
		b.AddEdge(null, seed.Start+i)
	}

	live := make([]ringPoint, len(ring))
	for i, p := range ring {
		live[i] = ringPoint{pos: p, vertex: seed.Start + i}
	}

	step := opts.Delta * float64(np.TraceSign)
	for it := 0; it < opts.IterMax && len(live) > 0; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		advected := make([]r3.Vec, len(live))
		for i, p := range live {
			advected[i] = advect(interp, p.pos, step)
		}

		points, links := dropOutside(interp, resample(advected, opts.Delta))
		if len(points) == 0 {
			break
		}
		next := b.AddRing(points, links)

		for i, p := range advected {
			b.AddEdge(live[i].vertex, next.Start+nearest(p, points))
		}

		live = live[:0]
		for i, p := range points {
			live = append(live, ringPoint{pos: p, vertex: next.Start + i})
		}
	}
	return b.Mesh(), nil
}

// TraceAll traces every null concurrently and concatenates the meshes in null
// order. workers <= 0 means GOMAXPROCS.
func TraceAll(ctx context.Context, interp field.Interpolator, nulls []nullpoint.NullPoint, workers int, optFns ...func(o *Options)) (*Mesh, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	meshes := make([]*Mesh, len(nulls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, np := range nulls {
		g.Go(func() error {
			m, err := Trace(gctx, interp, np, optFns...)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Mesh{}
	for _, m := range meshes {
		out.Append(m)
	}
	return out, nil
}

// seedRing rotates the first fan vector about the normal in RingDensity equal
// steps.
func seedRing(np nullpoint.NullPoint, opts Options) []r3.Vec {
	n := opts.RingDensity
	angles := floats.Span(make([]float64, n+1), 0, 2*math.Pi)[:n]
	start := r3.Scale(opts.Delta, np.FanVectors[0])

	ring := make([]r3.Vec, n)
	for i, theta := range angles {
		ring[i] = r3.Add(np.Position, r3.NewRotation(theta, np.Normal).Rotate(start))
	}
	return ring
}

func closedLinks(n int) []bool {
	links := make([]bool, n)
	for i := range links {
		links[i] = true
	}
	return links
}

// advect moves p one step along the unit field direction. Points outside the
// domain and points on a zero field stay put.
func advect(interp field.Interpolator, p r3.Vec, step float64) r3.Vec {
	if !interp.Contains(p) {
		return p
	}
	f := interp.Interpolate(p)
	norm := r3.Norm(f)
	if norm == 0 || math.IsNaN(norm) {
		return p
	}
	return r3.Add(p, r3.Scale(step/norm, f))
}

// resample inserts the midpoint between cyclically consecutive points that are
// more than delta apart.
func resample(ring []r3.Vec, delta float64) []r3.Vec {
	n := len(ring)
	out := make([]r3.Vec, 0, 2*n)
	for i, p := range ring {
		out = append(out, p)
		if n < 2 {
			continue
		}
		q := ring[(i+1)%n]
		if r3.Norm(r3.Sub(q, p)) > delta {
			out = append(out, r3.Scale(0.5, r3.Add(p, q)))
		}
	}
	return out
}

// dropOutside removes the points outside the domain. links[i] reports whether
// kept point i was adjacent to its cyclic successor before the drop.
func dropOutside(interp field.Interpolator, ring []r3.Vec) ([]r3.Vec, []bool) {
	n := len(ring)
	inside := make([]bool, n)
	for i, p := range ring {
		inside[i] = interp.Contains(p)
	}

	var (
		points []r3.Vec
		links  []bool
	)
	for i, p := range ring {
		if !inside[i] {
			continue
		}
		points = append(points, p)
		links = append(links, inside[(i+1)%n])
	}
	return points, links
}

// nearest returns the index of the point closest to p, the first one on ties.
// points must not be empty.
func nearest(p r3.Vec, points []r3.Vec) int {
	best, idx := math.Inf(1), 0
	for i, q := range points {
		if d := r3.Norm2(r3.Sub(q, p)); d < best {
			best, idx = d, i
		}
	}
	return idx
}
