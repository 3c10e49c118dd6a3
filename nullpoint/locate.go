package nullpoint

import (
	"context"
	"errors"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fieldtopo/field"
	"github.com/hupe1980/fieldtopo/internal/trilinear"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// CellReport summarises the root finding in one cell.
type CellReport struct {
	Cell     [3]int
	Seeds    int // faces that produced a seed
	Accepted int // refined points inside the cell
	Stalled  int // refinements that hit the step budget or left the cell
	Singular int // refinements aborted on a singular jacobian
}

// LocateStats aggregates CellReports over a Locate call.
type LocateStats struct {
	Candidates int
	Located    int
	Seeds      int
	Stalled    int
	Singular   int
}

// RefineFailures returns the number of refinements that did not converge.
func (s LocateStats) RefineFailures() int { return s.Stalled + s.Singular }

// LocateCell finds the null inside cell, if any.
//
// Every face seed is refined; refined points inside the cell are kept even if
// the refinement reported a failure, since the estimate is still the best one
// available. The kept points are mapped to physical coordinates and averaged.
func LocateCell(vf *field.VectorField, cell [3]int) (r3.Vec, CellReport, bool) {
	i, j, k := cell[0], cell[1], cell[2]
	rep := CellReport{Cell: cell}
	m := trilinear.FromCorners(vf.Corners(i, j, k))

	g := vf.Grid()
	origin, spacing := g.CellOrigin(i, j, k), g.Spacing()

	var sum r3.Vec
	for _, seed := range m.FaceSeeds() {
		rep.Seeds++
		p, err := m.Refine(seed)
		switch {
		case errors.Is(err, trilinear.ErrSingularJacobian):
			rep.Singular++
		case errors.Is(err, trilinear.ErrRefinementStalled):
			rep.Stalled++
		}
		if !trilinear.InCell(p) {
			continue
		}
		rep.Accepted++
		sum = r3.Add(sum, r3.Add(origin, r3.Vec{X: p.X * spacing.X, Y: p.Y * spacing.Y, Z: p.Z * spacing.Z}))
	}
	if rep.Accepted == 0 {
		return r3.Vec{}, rep, false
	}
	return r3.Scale(1/float64(rep.Accepted), sum), rep, true
}

// Locate runs LocateCell over every cell in cells and returns the null
// candidates in ascending cell id order.
func Locate(ctx context.Context, vf *field.VectorField, cells *roaring.Bitmap, workers int) ([]r3.Vec, LocateStats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ids := cells.ToArray()
	shape := vf.Grid().Cells()

	type result struct {
		pos r3.Vec
		rep CellReport
		ok  bool
	}
	results := make([]result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for n, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			i, j, k := CellIndex(shape, id)
			pos, rep, ok := LocateCell(vf, [3]int{i, j, k})
			results[n] = result{pos: pos, rep: rep, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LocateStats{}, err
	}

	stats := LocateStats{Candidates: len(ids)}
	var nulls []r3.Vec
	for _, r := range results {
		stats.Seeds += r.rep.Seeds
		stats.Stalled += r.rep.Stalled
		stats.Singular += r.rep.Singular
		if r.ok {
			nulls = append(nulls, r.pos)
		}
	}
	stats.Located = len(nulls)
	return nulls, stats, nil
}
