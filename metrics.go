package fieldtopo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordScan is called after each cell scan. cells is the number of
	// cells examined, candidates the number that bracket a null.
	RecordScan(cells, candidates int, duration time.Duration)

	// RecordLocate is called after sub-cell root finding. refineFailures
	// counts Newton refinements that stalled or hit a singular Jacobian.
	RecordLocate(candidates, located, refineFailures int, duration time.Duration)

	// RecordClassify is called after null classification.
	RecordClassify(classified, rejected int, duration time.Duration)

	// RecordSeparatrix is called after ring tracing.
	RecordSeparatrix(nulls, vertices, edges int, duration time.Duration)

	// RecordSpines is called after spine tracing.
	RecordSpines(curves, points int, duration time.Duration)

	// RecordSave is called after a Store writes a skeleton.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after a Store reads a skeleton.
	RecordLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordScan(int, int, time.Duration)            {}
func (NoopMetricsCollector) RecordLocate(int, int, int, time.Duration)     {}
func (NoopMetricsCollector) RecordClassify(int, int, time.Duration)        {}
func (NoopMetricsCollector) RecordSeparatrix(int, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSpines(int, int, time.Duration)          {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)        {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ScanCount       atomic.Int64
	CellsScanned    atomic.Int64
	Candidates      atomic.Int64
	ScanTotalNanos  atomic.Int64
	Located         atomic.Int64
	RefineFailures  atomic.Int64
	NullsClassified atomic.Int64
	NullsRejected   atomic.Int64
	SeparatrixCount atomic.Int64
	MeshVertices    atomic.Int64
	MeshEdges       atomic.Int64
	TraceTotalNanos atomic.Int64
	SpineCount      atomic.Int64
	SpinePoints     atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	BytesWritten    atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	BytesRead       atomic.Int64
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(cells, candidates int, duration time.Duration) {
	b.ScanCount.Add(1)
	b.CellsScanned.Add(int64(cells))
	b.Candidates.Add(int64(candidates))
	b.ScanTotalNanos.Add(duration.Nanoseconds())
}

// RecordLocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLocate(candidates, located, refineFailures int, duration time.Duration) {
	b.Located.Add(int64(located))
	b.RefineFailures.Add(int64(refineFailures))
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(classified, rejected int, duration time.Duration) {
	b.NullsClassified.Add(int64(classified))
	b.NullsRejected.Add(int64(rejected))
}

// RecordSeparatrix implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSeparatrix(nulls, vertices, edges int, duration time.Duration) {
	b.SeparatrixCount.Add(int64(nulls))
	b.MeshVertices.Add(int64(vertices))
	b.MeshEdges.Add(int64(edges))
	b.TraceTotalNanos.Add(duration.Nanoseconds())
}

// RecordSpines implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSpines(curves, points int, duration time.Duration) {
	b.SpineCount.Add(int64(curves))
	b.SpinePoints.Add(int64(points))
	b.TraceTotalNanos.Add(duration.Nanoseconds())
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.BytesWritten.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.BytesRead.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ScanCount:       b.ScanCount.Load(),
		CellsScanned:    b.CellsScanned.Load(),
		Candidates:      b.Candidates.Load(),
		ScanAvgNanos:    b.getAvgScanNanos(),
		Located:         b.Located.Load(),
		RefineFailures:  b.RefineFailures.Load(),
		NullsClassified: b.NullsClassified.Load(),
		NullsRejected:   b.NullsRejected.Load(),
		SeparatrixCount: b.SeparatrixCount.Load(),
		MeshVertices:    b.MeshVertices.Load(),
		MeshEdges:       b.MeshEdges.Load(),
		SpineCount:      b.SpineCount.Load(),
		SpinePoints:     b.SpinePoints.Load(),
		TraceTotalNanos: b.TraceTotalNanos.Load(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		BytesWritten:    b.BytesWritten.Load(),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		BytesRead:       b.BytesRead.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgScanNanos() int64 {
	count := b.ScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.ScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ScanCount       int64
	CellsScanned    int64
	Candidates      int64
	ScanAvgNanos    int64
	Located         int64
	RefineFailures  int64
	NullsClassified int64
	NullsRejected   int64
	SeparatrixCount int64
	MeshVertices    int64
	MeshEdges       int64
	SpineCount      int64
	SpinePoints     int64
	TraceTotalNanos int64
	SaveCount       int64
	SaveErrors      int64
	BytesWritten    int64
	LoadCount       int64
	LoadErrors      int64
	BytesRead       int64
}
