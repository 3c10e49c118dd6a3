package fieldtopo_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/fieldtopo"
	"github.com/hupe1980/fieldtopo/field"
	"gonum.org/v1/gonum/spatial/r3"
)

func Example() {
	grid, err := field.NewUniformGrid([3]int{12, 12, 12}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	if err != nil {
		panic(err)
	}

	// A saddle null at (0.05, 0.05, 0.05) with its fan in the xy plane.
	vf := field.Sample(grid, func(p r3.Vec) r3.Vec {
		return r3.Vec{X: p.X - 0.05, Y: p.Y - 0.05, Z: -2 * (p.Z - 0.05)}
	})

	an, err := fieldtopo.New(fieldtopo.WithIterMax(10))
	if err != nil {
		panic(err)
	}

	sk, err := an.Analyze(context.Background(), vf)
	if err != nil {
		panic(err)
	}

	np := sk.Nulls[0]
	fmt.Printf("nulls: %d (%s)\n", len(sk.Nulls), np.Kind)
	fmt.Printf("position: %.3f %.3f %.3f\n", np.Position.X, np.Position.Y, np.Position.Z)
	fmt.Printf("spines: %d\n", len(sk.Spines))
	// Output:
	// nulls: 1 (improper)
	// position: 0.050 0.050 0.050
	// spines: 2
}
