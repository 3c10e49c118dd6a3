package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 50))
	require.NoError(t, c.AcquireMemory(context.Background(), 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Over the limit
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(context.Background(), 20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(context.Background(), 1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 4})
	assert.Equal(t, 4, c.MaxWorkers())

	t.Run("TakesAvailable", func(t *testing.T) {
		n, err := c.AcquireWorkers(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		m, err := c.AcquireWorkers(context.Background(), 8)
		require.NoError(t, err)
		assert.Equal(t, 1, m)

		assert.False(t, c.TryAcquireWorker())

		c.ReleaseWorkers(n)
		c.ReleaseWorkers(m)
	})

	t.Run("ClampsToLimit", func(t *testing.T) {
		n, err := c.AcquireWorkers(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		c.ReleaseWorkers(n)
	})

	t.Run("Blocks", func(t *testing.T) {
		n, err := c.AcquireWorkers(context.Background(), 4)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err = c.AcquireWorkers(ctx, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		c.ReleaseWorkers(n)
		assert.True(t, c.TryAcquireWorker())
		c.ReleaseWorkers(1)
	})
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, 1, c.MaxWorkers())

	n, err := c.AcquireWorkers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	c.ReleaseWorkers(n)
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Larger than the burst: split rather than rejected.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.AcquireIO(ctx, 1<<20))
}

func TestRateLimited(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	n, err := w.Write([]byte("skeleton"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	r := NewRateLimitedReader(ctx, strings.NewReader(buf.String()), c)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "skeleton", string(data))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewRateLimitedWriter(canceled, &buf, c).Write(make([]byte, 2<<20))
	require.Error(t, err)
}
