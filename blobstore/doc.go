// Package blobstore abstracts where skeleton snapshots are stored.
//
// A BlobStore holds immutable named blobs. Names use forward slashes
// regardless of backend, e.g. "run-42/skeleton.fts".
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local filesystem, read through mmap
//   - MemoryStore: an in-memory map, for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
package blobstore
