package fieldtopo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/hupe1980/fieldtopo/separatrix"
	"github.com/hupe1980/fieldtopo/spine"
	"gonum.org/v1/gonum/spatial/r3"
)

// Logger wraps slog.Logger with fieldtopo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithNull tags the logger with a null's index and position.
func (l *Logger) WithNull(idx int, pos r3.Vec) *Logger {
	return &Logger{
		Logger: l.Logger.With("null", idx, "position", formatVec(pos)),
	}
}

// LogScan logs the cell scan.
func (l *Logger) LogScan(ctx context.Context, cells, candidates int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cell scan failed",
			"cells", cells,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "cell scan completed",
		"cells", cells,
		"candidates", candidates,
		"duration", d,
	)
}

// LogLocate logs sub-cell root finding.
func (l *Logger) LogLocate(ctx context.Context, stats nullpoint.LocateStats, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "null location failed",
			"candidates", stats.Candidates,
			"error", err,
		)
		return
	}
	if failures := stats.RefineFailures(); failures > 0 {
		l.DebugContext(ctx, "null location completed with refinement failures",
			"candidates", stats.Candidates,
			"located", stats.Located,
			"seeds", stats.Seeds,
			"stalled", stats.Stalled,
			"singular", stats.Singular,
			"duration", d,
		)
		return
	}
	l.DebugContext(ctx, "null location completed",
		"candidates", stats.Candidates,
		"located", stats.Located,
		"seeds", stats.Seeds,
		"duration", d,
	)
}

// LogRejectedNull logs a candidate dropped by classification. Tag the logger
// with WithNull first.
func (l *Logger) LogRejectedNull(ctx context.Context, reason error) {
	l.DebugContext(ctx, "null rejected",
		"reason", reason,
	)
}

// LogClassify logs null classification.
func (l *Logger) LogClassify(ctx context.Context, classified, rejected int, d time.Duration) {
	if rejected > 0 {
		l.WarnContext(ctx, "null classification completed with rejections",
			"nulls", classified,
			"rejected", rejected,
			"duration", d,
		)
		return
	}
	l.InfoContext(ctx, "null classification completed",
		"nulls", classified,
		"duration", d,
	)
}

// LogSeparatrix logs ring tracing.
func (l *Logger) LogSeparatrix(ctx context.Context, nulls int, mesh *separatrix.Mesh, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "separatrix tracing failed",
			"nulls", nulls,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "separatrix tracing completed",
		"nulls", nulls,
		"vertices", len(mesh.Vertices),
		"edges", len(mesh.Edges),
		"rings", len(mesh.Rings),
		"duration", d,
	)
}

// LogSpines logs spine tracing.
func (l *Logger) LogSpines(ctx context.Context, nulls int, curves []spine.Curve, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "spine tracing failed",
			"nulls", nulls,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "spine tracing completed",
		"nulls", nulls,
		"spines", len(curves),
		"points", countPoints(curves),
		"duration", d,
	)
}

// LogSave logs a skeleton written to a Store.
func (l *Logger) LogSave(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "skeleton save failed",
			"skeleton", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "skeleton saved",
		"skeleton", name,
		"bytes", size,
	)
}

// LogLoad logs a skeleton read from a Store.
func (l *Logger) LogLoad(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "skeleton load failed",
			"skeleton", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "skeleton loaded",
		"skeleton", name,
		"bytes", size,
	)
}

func formatVec(v r3.Vec) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func countPoints(curves []spine.Curve) int {
	n := 0
	for _, c := range curves {
		n += len(c.Points)
	}
	return n
}
