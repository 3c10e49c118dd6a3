package minio

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/fieldtopo/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	s := NewStore(nil, "bucket", "runs/")
	assert.Equal(t, "runs/a/skeleton.fts", s.key("a/skeleton.fts"))
	assert.Equal(t, "a/skeleton.fts", s.name("runs/a/skeleton.fts"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "a", bare.key("a"))
	assert.Equal(t, "a", bare.name("a"))
}

// TestStoreIntegration needs a MinIO server at $MINIO_ENDPOINT.
func TestStoreIntegration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	ctx := context.Background()
	bucket := "fieldtopo-test"

	store, err := New(endpoint, bucket, func(o *Options) {
		o.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
		o.SecretKey = os.Getenv("MINIO_SECRET_KEY")
		o.Prefix = fmt.Sprintf("test-%d/", time.Now().UnixNano())
	})
	require.NoError(t, err)

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello skeleton")
	require.NoError(t, store.Put(ctx, "run/skeleton.fts", data))

	b, err := store.Open(ctx, "run/skeleton.fts")
	require.NoError(t, err)
	got, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, b.Close())

	w, err := store.Create(ctx, "run/manifest.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("{}"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "run/")
	require.NoError(t, err)
	assert.Equal(t, []string{"run/manifest.json", "run/skeleton.fts"}, names)

	require.NoError(t, store.Delete(ctx, "run/skeleton.fts"))
	require.NoError(t, store.Delete(ctx, "run/manifest.json"))
	_, err = store.Open(ctx, "run/skeleton.fts")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
