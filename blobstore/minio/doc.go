// Package minio stores skeleton snapshots on MinIO or any other
// S3-compatible server through the MinIO client.
//
//	store, err := minio.New("localhost:9000", "skeletons", func(o *minio.Options) {
//	    o.AccessKey, o.SecretKey = "minioadmin", "minioadmin"
//	    o.Prefix = "runs/"
//	})
//	err = fieldtopo.NewStore(store).SaveSkeleton(ctx, "run-42", skel)
package minio
