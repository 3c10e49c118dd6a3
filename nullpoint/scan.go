package nullpoint

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fieldtopo/field"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// CellID returns the linear id of cell (i, j, k) in a grid with the given
// cell counts.
func CellID(cells [3]int, i, j, k int) uint32 {
	return uint32((k*cells[1]+j)*cells[0] + i)
}

// CellIndex inverts CellID.
func CellIndex(cells [3]int, id uint32) (i, j, k int) {
	n := int(id)
	i = n % cells[0]
	n /= cells[0]
	j = n % cells[1]
	k = n / cells[1]
	return i, j, k
}

// Scan returns the ids of all cells in which every field component changes
// sign between corner (1,1,1) and at least one of the other seven corners.
// Sign changes are strict, so a null lying exactly on a grid node (a zero
// component at a corner) is not reported by any cell.
//
// z-slabs are scanned concurrently by up to workers goroutines; workers <= 0
// means GOMAXPROCS. Grids with more than 2^32 cells fail with ErrGridTooLarge.
func Scan(ctx context.Context, vf *field.VectorField, workers int) (*roaring.Bitmap, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cells := vf.Grid().Cells()
	if err := checkCellCount(cells); err != nil {
		return nil, err
	}
	slabs := make([]*roaring.Bitmap, cells[2])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for k := 0; k < cells[2]; k++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bm := roaring.New()
			for j := 0; j < cells[1]; j++ {
				for i := 0; i < cells[0]; i++ {
					if bracketsNull(vf.Corners(i, j, k)) {
						bm.Add(CellID(cells, i, j, k))
					}
				}
			}
			slabs[k] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roaring.FastOr(slabs...), nil
}

// checkCellCount reports whether every cell of the grid has a distinct CellID.
func checkCellCount(cells [3]int) error {
	n := uint64(1)
	for _, c := range cells {
		if c > 0 && n > (math.MaxUint32+1)/uint64(c) {
			return fmt.Errorf("%w: %d x %d x %d", ErrGridTooLarge, cells[0], cells[1], cells[2])
		}
		n *= uint64(max(c, 0))
	}
	return nil
}

func bracketsNull(c [2][2][2]r3.Vec) bool {
	ref := c[1][1][1]
	var changes [3]bool
	for dz := 0; dz < 2; dz++ {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				if dz == 1 && dy == 1 && dx == 1 {
					continue
				}
				o := c[dz][dy][dx]
				changes[0] = changes[0] || ref.X*o.X < 0
				changes[1] = changes[1] || ref.Y*o.Y < 0
				changes[2] = changes[2] || ref.Z*o.Z < 0
			}
		}
	}
	return changes[0] && changes[1] && changes[2]
}
