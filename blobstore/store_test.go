package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s BlobStore) {
	ctx := context.Background()

	t.Run("PutOpen", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "run/skeleton.fts", []byte("skeleton bytes")))

		b, err := s.Open(ctx, "run/skeleton.fts")
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, int64(14), b.Size())
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, "skeleton bytes", string(data))

		buf := make([]byte, 5)
		n, err := b.ReadAt(ctx, buf, 9)
		require.NoError(t, err)
		assert.Equal(t, "bytes", string(buf[:n]))

		rc, err := b.ReadRange(ctx, 0, 8)
		require.NoError(t, err)
		part, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "skeleton", string(part))
	})

	t.Run("Create", func(t *testing.T) {
		w, err := s.Create(ctx, "run/manifest.json")
		require.NoError(t, err)
		_, err = w.Write([]byte(`{"nulls":1}`))
		require.NoError(t, err)
		require.NoError(t, w.Sync())
		require.NoError(t, w.Close())

		b, err := s.Open(ctx, "run/manifest.json")
		require.NoError(t, err)
		defer b.Close()
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.JSONEq(t, `{"nulls":1}`, string(data))
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "empty", nil))
		b, err := s.Open(ctx, "empty")
		require.NoError(t, err)
		defer b.Close()

		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("List", func(t *testing.T) {
		names, err := s.List(ctx, "run/")
		require.NoError(t, err)
		assert.Equal(t, []string{"run/manifest.json", "run/skeleton.fts"}, names)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "empty"))
		require.NoError(t, s.Delete(ctx, "empty"))

		_, err := s.Open(ctx, "empty")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStoreMissingRoot(t *testing.T) {
	names, err := NewLocalStore(t.TempDir()+"/missing").List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", data))
	data[0] = 'x'

	b, err := s.Open(ctx, "k")
	require.NoError(t, err)
	got, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
