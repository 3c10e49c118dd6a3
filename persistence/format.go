package persistence

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies skeleton snapshot files (ASCII: "FTS1").
	MagicNumber = 0x46545331
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000

	// HeaderSize is the encoded size of FileHeader in bytes.
	HeaderSize = 64
)

var (
	ErrInvalidMagic       = errors.New("persistence: invalid magic number")
	ErrInvalidVersion     = errors.New("persistence: unsupported version")
	ErrUnknownCompression = errors.New("persistence: unknown compression")
	ErrCorrupt            = errors.New("persistence: corrupt payload")
)

// FileHeader is the 64-byte header at the start of every snapshot.
type FileHeader struct {
	Magic       uint32      // 0x46545331 ("FTS1")
	Version     uint32      // File format version
	Compression Compression // Payload compression
	Padding1    [3]byte
	NullCount   uint32
	VertexCount uint32
	EdgeCount   uint32
	RingCount   uint32
	SpineCount  uint32
	PointCount  uint32 // Total spine points
	PayloadSize uint64 // Stored (possibly compressed) payload bytes
	RawSize     uint64 // Decompressed payload bytes
	Checksum    uint32 // CRC32 of the stored payload
	Reserved    [8]byte
}

// Validate checks the magic number, version and compression of h.
func (h *FileHeader) Validate() error {
	if h.Magic != MagicNumber {
		return fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, h.Version)
	}
	if !h.Compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	return nil
}

// On-disk records. Blank fields keep every record 8-byte aligned.
type nullRecord struct {
	Position     [3]float64
	Eigenvalues  [3][2]float64
	Eigenvectors [3][3][2]float64
	FanVectors   [2][3]float64
	Normal       [3]float64
	TraceSign    int8
	Kind         uint8
	_            [6]byte
}

type indexPair struct {
	A, B uint32
}

type spineRecord struct {
	Null      [3]float64
	Direction int8
	_         [3]byte
	Points    uint32
}

const (
	nullRecordSize  = 8*(3+6+18+6+3) + 8
	indexPairSize   = 8
	spineRecordSize = 8*3 + 8
	pointSize       = 8 * 3
)

// rawSize is the decompressed payload size implied by the header counts.
func (h *FileHeader) rawSize() uint64 {
	return uint64(h.NullCount)*nullRecordSize +
		uint64(h.VertexCount)*pointSize +
		uint64(h.EdgeCount)*indexPairSize +
		uint64(h.RingCount)*indexPairSize +
		uint64(h.SpineCount)*spineRecordSize +
		uint64(h.PointCount)*pointSize
}
