package fieldtopo

import (
	"context"
	"time"

	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/hupe1980/fieldtopo/separatrix"
	"github.com/hupe1980/fieldtopo/spine"
)

// Skeleton is the topological skeleton of a field.
type Skeleton struct {
	// Nulls are the classified nulls. Separatrix and spine tracing start
	// from these.
	Nulls []nullpoint.NullPoint
	// Rejected lists candidates dropped by classification. It is not
	// persisted.
	Rejected []nullpoint.Rejection
	// Separatrices holds the rings of all nulls in one mesh.
	Separatrices *separatrix.Mesh
	// Spines holds two curves per null, in null order.
	Spines []spine.Curve
}

// Analyzer runs the skeleton pipeline. It is safe for concurrent use.
type Analyzer struct {
	opts options
}

// New creates an Analyzer.
func New(optFns ...Option) (*Analyzer, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Analyzer{opts: opts}, nil
}

// Analyze finds and classifies the nulls of vf and traces their separatrices
// and spines.
func (a *Analyzer) Analyze(ctx context.Context, vf *field.VectorField) (*Skeleton, error) {
	nulls, rejected, err := a.FindNulls(ctx, vf)
	if err != nil {
		return nil, err
	}

	mesh, err := a.Separatrices(ctx, vf, nulls)
	if err != nil {
		return nil, err
	}

	spines, err := a.Spines(ctx, vf, nulls)
	if err != nil {
		return nil, err
	}

	return &Skeleton{
		Nulls:        nulls,
		Rejected:     rejected,
		Separatrices: mesh,
		Spines:       spines,
	}, nil
}

// FindNulls scans vf for cells that bracket a null, locates the null inside
// each of them, removes duplicates found in neighbouring cells and classifies
// the rest. Candidates that cannot be classified are returned as rejections.
func (a *Analyzer) FindNulls(ctx context.Context, vf *field.VectorField) ([]nullpoint.NullPoint, []nullpoint.Rejection, error) {
	if vf == nil {
		return nil, nil, ErrNilField
	}

	workers, release, err := a.acquireWorkers(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	grid := vf.Grid()
	cells := grid.Cells()
	total := cells[0] * cells[1] * cells[2]

	start := time.Now()
	candidates, err := nullpoint.Scan(ctx, vf, workers)
	d := time.Since(start)
	if err != nil {
		a.opts.logger.LogScan(ctx, total, 0, d, err)
		return nil, nil, err
	}
	a.opts.metricsCollector.RecordScan(total, int(candidates.GetCardinality()), d)
	a.opts.logger.LogScan(ctx, total, int(candidates.GetCardinality()), d, nil)

	start = time.Now()
	located, stats, err := nullpoint.Locate(ctx, vf, candidates, workers)
	d = time.Since(start)
	a.opts.logger.LogLocate(ctx, stats, d, err)
	if err != nil {
		return nil, nil, err
	}
	a.opts.metricsCollector.RecordLocate(stats.Candidates, stats.Located, stats.RefineFailures(), d)

	start = time.Now()
	positions := nullpoint.Deduplicate(located, grid.Spacing())
	nulls, rejected := nullpoint.Classify(vf, positions, grid.MinSpacing(), func(o *nullpoint.ClassifyOptions) {
		o.StepFraction = a.opts.jacobianStep
		o.AllowSpiral = a.opts.allowSpiral
	})
	d = time.Since(start)

	for i, rej := range rejected {
		a.opts.logger.WithNull(i, rej.Position).LogRejectedNull(ctx, rej.Err)
	}
	a.opts.metricsCollector.RecordClassify(len(nulls), len(rejected), d)
	a.opts.logger.LogClassify(ctx, len(nulls), len(rejected), d)

	return nulls, rejected, nil
}

// Separatrices traces the fan surface of every null through interp. The
// result holds the rings of all nulls, in null order.
func (a *Analyzer) Separatrices(ctx context.Context, interp field.Interpolator, nulls []nullpoint.NullPoint) (*separatrix.Mesh, error) {
	if interp == nil {
		return nil, ErrNilField
	}

	workers, release, err := a.acquireWorkers(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	mesh, err := separatrix.TraceAll(ctx, interp, nulls, workers, func(o *separatrix.Options) {
		o.Delta = a.opts.delta
		o.IterMax = a.opts.iterMax
		o.RingDensity = a.opts.ringDensity
	})
	d := time.Since(start)
	a.opts.logger.LogSeparatrix(ctx, len(nulls), mesh, d, err)
	if err != nil {
		return nil, err
	}
	a.opts.metricsCollector.RecordSeparatrix(len(nulls), len(mesh.Vertices), len(mesh.Edges), d)

	return mesh, nil
}

// Spines traces both spines of every null through interp. Curves 2i and 2i+1
// belong to nulls[i].
func (a *Analyzer) Spines(ctx context.Context, interp field.Interpolator, nulls []nullpoint.NullPoint) ([]spine.Curve, error) {
	if interp == nil {
		return nil, ErrNilField
	}

	workers, release, err := a.acquireWorkers(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	curves, err := spine.TraceAll(ctx, interp, nulls, workers, func(o *spine.Options) {
		o.Delta = a.opts.delta
		o.IterMax = a.opts.iterMax
	})
	d := time.Since(start)
	a.opts.logger.LogSpines(ctx, len(nulls), curves, d, err)
	if err != nil {
		return nil, err
	}
	a.opts.metricsCollector.RecordSpines(len(curves), countPoints(curves), d)

	return curves, nil
}

// acquireWorkers returns the number of goroutines a stage may use and a
// function that hands them back.
func (a *Analyzer) acquireWorkers(ctx context.Context) (int, func(), error) {
	want := a.opts.maxWorkers()
	rc := a.opts.controller
	if rc == nil {
		return want, func() {}, ctx.Err()
	}
	n, err := rc.AcquireWorkers(ctx, want)
	if err != nil {
		return 0, nil, err
	}
	return n, func() { rc.ReleaseWorkers(n) }, nil
}
