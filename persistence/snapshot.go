package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/hupe1980/fieldtopo/separatrix"
	"github.com/hupe1980/fieldtopo/spine"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxPayloadSize bounds the payload a reader accepts.
const MaxPayloadSize = 1 << 32

// Snapshot is the content of one snapshot file.
type Snapshot struct {
	Nulls        []nullpoint.NullPoint
	Separatrices *separatrix.Mesh
	Spines       []spine.Curve
}

// Write encodes s to w using compression c.
func Write(w io.Writer, s *Snapshot, c Compression) error {
	if !c.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	mesh := meshOf(s)
	hdr := newHeader(s, mesh)

	raw, err := encodePayload(s.Nulls, mesh, s.Spines)
	if err != nil {
		return err
	}

	stored, used, err := compress(raw, c)
	if err != nil {
		return err
	}

	hdr.Compression = used
	hdr.RawSize = uint64(len(raw))
	hdr.PayloadSize = uint64(len(stored))
	hdr.Checksum = Checksum(stored)

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// EncodedSize returns the size of s on disk before compression, header
// included.
func EncodedSize(s *Snapshot) int64 {
	hdr := newHeader(s, meshOf(s))
	return HeaderSize + int64(hdr.rawSize())
}

func meshOf(s *Snapshot) *separatrix.Mesh {
	if s.Separatrices == nil {
		return &separatrix.Mesh{}
	}
	return s.Separatrices
}

func newHeader(s *Snapshot, mesh *separatrix.Mesh) FileHeader {
	hdr := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		NullCount:   uint32(len(s.Nulls)),
		VertexCount: uint32(len(mesh.Vertices)),
		EdgeCount:   uint32(len(mesh.Edges)),
		RingCount:   uint32(len(mesh.Rings)),
		SpineCount:  uint32(len(s.Spines)),
	}
	for _, sp := range s.Spines {
		hdr.PointCount += uint32(len(sp.Points))
	}
	return hdr
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (*Snapshot, error) {
	var hdr FileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("persistence: read header: %w", err)
	}
	if err := hdr.Validate(); err != nil {
		return nil, err
	}
	if hdr.RawSize != hdr.rawSize() {
		return nil, fmt.Errorf("%w: raw size %d does not match counts (%d)", ErrCorrupt, hdr.RawSize, hdr.rawSize())
	}
	if hdr.RawSize > MaxPayloadSize || hdr.PayloadSize > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit", ErrCorrupt, hdr.PayloadSize)
	}

	// The buffer grows with the bytes actually read, not the header's claim.
	cr := NewChecksumReader(r)
	var stored bytes.Buffer
	stored.Grow(int(min(hdr.PayloadSize, 1<<20)))
	n, err := stored.ReadFrom(io.LimitReader(cr, int64(hdr.PayloadSize)))
	if err != nil {
		return nil, fmt.Errorf("persistence: read payload: %w", err)
	}
	if uint64(n) != hdr.PayloadSize {
		return nil, fmt.Errorf("persistence: read payload: %w", io.ErrUnexpectedEOF)
	}
	if err := cr.Verify(hdr.Checksum); err != nil {
		return nil, err
	}

	raw, err := decompress(stored.Bytes(), hdr.Compression, hdr.RawSize)
	if err != nil {
		return nil, err
	}
	return decodePayload(&hdr, raw)
}

// WriteFile atomically writes s to filename.
func WriteFile(filename string, s *Snapshot, c Compression) error {
	dir := filepath.Dir(filename)

	// A temp file in the same directory keeps the rename atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := Write(buf, s, c); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}
	tmpName = ""

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// ReadFile reads the snapshot stored in filename.
func ReadFile(filename string) (*Snapshot, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(bufio.NewReaderSize(f, 256*1024))
}

func encodePayload(nulls []nullpoint.NullPoint, mesh *separatrix.Mesh, spines []spine.Curve) ([]byte, error) {
	records := make([]nullRecord, len(nulls))
	for i, np := range nulls {
		records[i] = toNullRecord(np)
	}

	vertices := make([][3]float64, 0, len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		vertices = append(vertices, vec3(v))
	}

	edges := make([]indexPair, len(mesh.Edges))
	for i, e := range mesh.Edges {
		edges[i] = indexPair{A: uint32(e.A), B: uint32(e.B)}
	}

	rings := make([]indexPair, len(mesh.Rings))
	for i, r := range mesh.Rings {
		rings[i] = indexPair{A: uint32(r.Start), B: uint32(r.End)}
	}

	heads := make([]spineRecord, len(spines))
	var points [][3]float64
	for i, sp := range spines {
		heads[i] = spineRecord{
			Null:      vec3(sp.Null),
			Direction: int8(sp.Direction),
			Points:    uint32(len(sp.Points)),
		}
		for _, p := range sp.Points {
			points = append(points, vec3(p))
		}
	}

	var buf bytes.Buffer
	for _, section := range []any{records, vertices, edges, rings, heads, points} {
		if err := binary.Write(&buf, binary.LittleEndian, section); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodePayload(hdr *FileHeader, raw []byte) (*Snapshot, error) {
	var (
		records  = make([]nullRecord, hdr.NullCount)
		vertices = make([][3]float64, hdr.VertexCount)
		edges    = make([]indexPair, hdr.EdgeCount)
		rings    = make([]indexPair, hdr.RingCount)
		heads    = make([]spineRecord, hdr.SpineCount)
		points   = make([][3]float64, hdr.PointCount)
	)

	r := bytes.NewReader(raw)
	for _, section := range []any{records, vertices, edges, rings, heads, points} {
		if err := binary.Read(r, binary.LittleEndian, section); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	s := &Snapshot{
		Nulls: make([]nullpoint.NullPoint, len(records)),
		Separatrices: &separatrix.Mesh{
			Vertices: make([]r3.Vec, len(vertices)),
			Edges:    make([]separatrix.Edge, len(edges)),
			Rings:    make([]separatrix.Range, len(rings)),
		},
		Spines: make([]spine.Curve, len(heads)),
	}
	for i, rec := range records {
		s.Nulls[i] = fromNullRecord(rec)
	}
	for i, v := range vertices {
		s.Separatrices.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, e := range edges {
		s.Separatrices.Edges[i] = separatrix.Edge{A: int(e.A), B: int(e.B)}
	}
	for i, rg := range rings {
		if rg.A > rg.B || rg.B > hdr.VertexCount {
			return nil, fmt.Errorf("%w: ring %d spans [%d, %d) of %d vertices", ErrCorrupt, i, rg.A, rg.B, hdr.VertexCount)
		}
		s.Separatrices.Rings[i] = separatrix.Range{Start: int(rg.A), End: int(rg.B)}
	}
	if err := s.Separatrices.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	next := 0
	for i, h := range heads {
		end := next + int(h.Points)
		if end > len(points) {
			return nil, fmt.Errorf("%w: spine %d overruns %d points", ErrCorrupt, i, len(points))
		}
		curve := spine.Curve{
			Null:      r3.Vec{X: h.Null[0], Y: h.Null[1], Z: h.Null[2]},
			Direction: int(h.Direction),
			Points:    make([]r3.Vec, 0, h.Points),
		}
		for _, p := range points[next:end] {
			curve.Points = append(curve.Points, r3.Vec{X: p[0], Y: p[1], Z: p[2]})
		}
		s.Spines[i] = curve
		next = end
	}
	if next != len(points) {
		return nil, fmt.Errorf("%w: %d trailing spine points", ErrCorrupt, len(points)-next)
	}
	return s, nil
}

func toNullRecord(np nullpoint.NullPoint) nullRecord {
	rec := nullRecord{
		Position:  vec3(np.Position),
		Normal:    vec3(np.Normal),
		TraceSign: int8(np.TraceSign),
		Kind:      uint8(np.Kind),
	}
	for d := range 3 {
		rec.Eigenvalues[d] = [2]float64{real(np.Eigenvalues[d]), imag(np.Eigenvalues[d])}
		for c := range 3 {
			z := np.Eigenvectors[d][c]
			rec.Eigenvectors[d][c] = [2]float64{real(z), imag(z)}
		}
	}
	for f := range 2 {
		rec.FanVectors[f] = vec3(np.FanVectors[f])
	}
	return rec
}

func fromNullRecord(rec nullRecord) nullpoint.NullPoint {
	np := nullpoint.NullPoint{
		Position:  r3.Vec{X: rec.Position[0], Y: rec.Position[1], Z: rec.Position[2]},
		Normal:    r3.Vec{X: rec.Normal[0], Y: rec.Normal[1], Z: rec.Normal[2]},
		TraceSign: int(rec.TraceSign),
		Kind:      nullpoint.Kind(rec.Kind),
	}
	for d := range 3 {
		np.Eigenvalues[d] = complex(rec.Eigenvalues[d][0], rec.Eigenvalues[d][1])
		for c := range 3 {
			np.Eigenvectors[d][c] = complex(rec.Eigenvectors[d][c][0], rec.Eigenvectors[d][c][1])
		}
	}
	for f := range 2 {
		v := rec.FanVectors[f]
		np.FanVectors[f] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return np
}

func vec3(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
