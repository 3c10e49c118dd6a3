package s3

// Options configures a Store.
type Options struct {
	// Prefix is prepended to every blob name.
	Prefix string
	// Region overrides the region from the shared AWS configuration.
	Region string
	// Endpoint overrides the S3 endpoint, e.g. for LocalStack.
	Endpoint string
	// UsePathStyle selects path-style bucket addressing.
	UsePathStyle bool

	// PartSize is the multipart part size for streaming uploads.
	PartSize int64
	// Concurrency is the number of parts uploaded in parallel.
	Concurrency int
	// Checksum adds CRC32C integrity checks to uploads.
	Checksum bool
}

// DefaultOptions holds the defaults applied before user options.
var DefaultOptions = Options{
	PartSize:    8 * 1024 * 1024,
	Concurrency: 5,
	Checksum:    true,
}
