package fieldtopo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc BasicMetricsCollector
	var _ MetricsCollector = &mc
	var _ MetricsCollector = NoopMetricsCollector{}

	mc.RecordScan(1000, 3, 2*time.Millisecond)
	mc.RecordScan(1000, 1, 4*time.Millisecond)
	mc.RecordLocate(4, 3, 2, time.Millisecond)
	mc.RecordClassify(2, 1, time.Millisecond)
	mc.RecordSeparatrix(2, 120, 300, time.Millisecond)
	mc.RecordSpines(4, 80, time.Millisecond)
	mc.RecordSave(512, time.Millisecond, nil)
	mc.RecordSave(0, time.Millisecond, errors.New("disk full"))
	mc.RecordLoad(512, time.Millisecond, nil)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.ScanCount)
	assert.Equal(t, int64(2000), stats.CellsScanned)
	assert.Equal(t, int64(4), stats.Candidates)
	assert.Equal(t, int64(3*time.Millisecond), stats.ScanAvgNanos)
	assert.Equal(t, int64(3), stats.Located)
	assert.Equal(t, int64(2), stats.RefineFailures)
	assert.Equal(t, int64(2), stats.NullsClassified)
	assert.Equal(t, int64(1), stats.NullsRejected)
	assert.Equal(t, int64(120), stats.MeshVertices)
	assert.Equal(t, int64(300), stats.MeshEdges)
	assert.Equal(t, int64(4), stats.SpineCount)
	assert.Equal(t, int64(80), stats.SpinePoints)
	assert.Equal(t, int64(2*time.Millisecond), stats.TraceTotalNanos)
	assert.Equal(t, int64(2), stats.SaveCount)
	assert.Equal(t, int64(1), stats.SaveErrors)
	assert.Equal(t, int64(512), stats.BytesWritten)
	assert.Equal(t, int64(512), stats.BytesRead)
}

func TestMetricsZeroAverage(t *testing.T) {
	var mc BasicMetricsCollector
	assert.Zero(t, mc.GetStats().ScanAvgNanos)
}
