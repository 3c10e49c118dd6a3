package separatrix

import "fmt"

// Options configures ring tracing.
type Options struct {
	// Delta is the advection step and the maximum spacing between
	// neighbouring ring points.
	Delta float64
	// IterMax caps the number of advection steps per null.
	IterMax int
	// RingDensity is the number of points on the seed ring.
	RingDensity int
}

// DefaultOptions holds the default tracing options.
var DefaultOptions = Options{
	Delta:       0.1,
	IterMax:     100,
	RingDensity: 8,
}

func (o Options) validate() error {
	switch {
	case !(o.Delta > 0):
		return fmt.Errorf("%w: delta %g", ErrInvalidOptions, o.Delta)
	case o.IterMax < 0:
		return fmt.Errorf("%w: iter max %d", ErrInvalidOptions, o.IterMax)
	case o.RingDensity < 1:
		return fmt.Errorf("%w: ring density %d", ErrInvalidOptions, o.RingDensity)
	}
	return nil
}
