package spine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidOptions is returned when tracing options are out of range.
var ErrInvalidOptions = errors.New("spine: invalid options")

// Options configures spine tracing.
type Options struct {
	// Delta is the integration step.
	Delta float64
	// IterMax caps the number of points traced after the null.
	IterMax int
}

// DefaultOptions holds the default tracing options.
var DefaultOptions = Options{
	Delta:   0.1,
	IterMax: 100,
}

// Curve is one spine. Points[0] is the null; Direction is +1 for the curve
// leaving along the null normal and -1 for the one leaving against it.
type Curve struct {
	Null      r3.Vec
	Direction int
	Points    []r3.Vec
}

// Trace traces both spines of np. The spines are integrated against the fan
// direction (by -TraceSign) so they move away from the null. ctx is checked
// before every integration step.
func Trace(ctx context.Context, interp field.Interpolator, np nullpoint.NullPoint, optFns ...func(o *Options)) ([2]Curve, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if !(opts.Delta > 0) || opts.IterMax < 0 {
		return [2]Curve{}, fmt.Errorf("%w: delta %g, iter max %d", ErrInvalidOptions, opts.Delta, opts.IterMax)
	}

	step := -opts.Delta * float64(np.TraceSign)
	offset := r3.Scale(opts.Delta, np.Normal)
	var curves [2]Curve
	for n, start := range [2]r3.Vec{r3.Add(np.Position, offset), r3.Sub(np.Position, offset)} {
		c, err := trace(ctx, interp, np.Position, start, 1-2*n, step, opts.IterMax)
		if err != nil {
			return [2]Curve{}, err
		}
		curves[n] = c
	}
	return curves, nil
}

func trace(ctx context.Context, interp field.Interpolator, null, start r3.Vec, dir int, step float64, iterMax int) (Curve, error) {
	c := Curve{Null: null, Direction: dir, Points: []r3.Vec{null}}
	if !interp.Contains(start) {
		return c, nil
	}
	p := start
	for it := 0; it < iterMax; it++ {
		if err := ctx.Err(); err != nil {
			return Curve{}, err
		}
		c.Points = append(c.Points, p)

		f := interp.Interpolate(p)
		norm := r3.Norm(f)
		if norm == 0 {
			break
		}
		next := r3.Add(p, r3.Scale(step/norm, f))
		if !interp.Contains(next) {
			break
		}
		p = next
	}
	return c, nil
}

// TraceAll traces the spines of every null concurrently. The result holds two
// curves per null in null order. workers <= 0 means GOMAXPROCS.
func TraceAll(ctx context.Context, interp field.Interpolator, nulls []nullpoint.NullPoint, workers int, optFns ...func(o *Options)) ([]Curve, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	curves := make([]Curve, 2*len(nulls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, np := range nulls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pair, err := Trace(gctx, interp, np, optFns...)
			if err != nil {
				return err
			}
			curves[2*i], curves[2*i+1] = pair[0], pair[1]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return curves, nil
}
