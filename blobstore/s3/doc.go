// Package s3 stores skeleton snapshots in Amazon S3.
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "skeletons/"
//	    o.Region = "eu-central-1"
//	})
//
// Reads use ranged GETs. Streaming writes go through the multipart upload
// manager; whole-blob writes carry a CRC32C checksum.
package s3
