package fieldtopo

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/hupe1980/fieldtopo/codec"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/hupe1980/fieldtopo/persistence"
	"github.com/hupe1980/fieldtopo/resource"
	"github.com/hupe1980/fieldtopo/separatrix"
)

type options struct {
	delta            float64
	iterMax          int
	ringDensity      int
	allowSpiral      bool
	jacobianStep     float64
	workers          int
	controller       *resource.Controller
	logger           *Logger
	metricsCollector MetricsCollector
	codec            codec.Codec
	compression      persistence.Compression
}

// Option configures an Analyzer or a Store.
type Option func(*options)

// WithDelta sets the integration step of ring and spine tracing. The ring
// tracer also uses it as the largest gap allowed between neighbouring ring
// points.
func WithDelta(delta float64) Option {
	return func(o *options) {
		o.delta = delta
	}
}

// WithIterMax caps the number of integration steps per separatrix and per
// spine.
func WithIterMax(n int) Option {
	return func(o *options) {
		o.iterMax = n
	}
}

// WithRingDensity sets the number of points on the initial ring around each
// null.
func WithRingDensity(n int) Option {
	return func(o *options) {
		o.ringDensity = n
	}
}

// WithSpiralNulls controls whether nulls with a complex-conjugate fan
// eigenvalue pair are kept (the default) or rejected with
// nullpoint.ErrSpiralNull.
func WithSpiralNulls(allow bool) Option {
	return func(o *options) {
		o.allowSpiral = allow
	}
}

// WithJacobianStep sets the centered difference step of the Jacobian
// estimate as a fraction of the smallest grid spacing.
func WithJacobianStep(fraction float64) Option {
	return func(o *options) {
		o.jacobianStep = fraction
	}
}

// WithWorkers sets the number of goroutines per stage. Zero uses
// runtime.GOMAXPROCS(0). With a resource controller the value is an upper
// bound on the slots requested from it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithResourceController shares worker slots, memory and IO bandwidth with
// other analyzers and stores using the same controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fieldtopo.BasicMetricsCollector{}
//	an, _ := fieldtopo.New(fieldtopo.WithMetricsCollector(metrics))
//	// ... use an ...
//	stats := metrics.GetStats()
//	fmt.Printf("Nulls: %d, rejected: %d\n", stats.NullsClassified, stats.NullsRejected)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fieldtopo.NewJSONLogger(slog.LevelInfo)
//	an, _ := fieldtopo.New(fieldtopo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCodec configures the codec a Store writes manifests with.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the snapshot compression of a Store.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		delta:            separatrix.DefaultOptions.Delta,
		iterMax:          separatrix.DefaultOptions.IterMax,
		ringDensity:      separatrix.DefaultOptions.RingDensity,
		allowSpiral:      nullpoint.DefaultClassifyOptions.AllowSpiral,
		jacobianStep:     nullpoint.DefaultClassifyOptions.StepFraction,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		codec:            codec.Default,
		compression:      persistence.CompressionZSTD,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	switch {
	case !(o.delta > 0) || math.IsInf(o.delta, 0):
		return &InvalidOptionError{Option: "Delta", Value: o.delta}
	case o.iterMax < 0:
		return &InvalidOptionError{Option: "IterMax", Value: o.iterMax}
	case o.ringDensity < 1:
		return &InvalidOptionError{Option: "RingDensity", Value: o.ringDensity}
	case !(o.jacobianStep > 0) || math.IsInf(o.jacobianStep, 0):
		return &InvalidOptionError{Option: "JacobianStep", Value: o.jacobianStep}
	case o.workers < 0:
		return &InvalidOptionError{Option: "Workers", Value: o.workers}
	case o.compression > persistence.CompressionZSTD:
		return &InvalidOptionError{Option: "Compression", Value: o.compression}
	}
	return nil
}

func (o *options) maxWorkers() int {
	if o.workers > 0 {
		return o.workers
	}
	return runtime.GOMAXPROCS(0)
}
