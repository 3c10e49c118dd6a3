package fieldtopo

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/fieldtopo/blobstore"
	"github.com/hupe1980/fieldtopo/codec"
	"github.com/hupe1980/fieldtopo/nullpoint"
	"github.com/hupe1980/fieldtopo/persistence"
	"github.com/hupe1980/fieldtopo/resource"
)

const (
	snapshotFile = "skeleton.fts"
	manifestFile = "manifest.json"
)

// Manifest describes a stored skeleton. It is written after the snapshot, so
// a skeleton without a manifest is incomplete and not listed.
type Manifest struct {
	Name        string    `json:"name"`
	Codec       string    `json:"codec"`
	Format      uint32    `json:"format"`
	Compression string    `json:"compression"`
	Size        int64     `json:"size"`
	Nulls       int       `json:"nulls"`
	Spiral      int       `json:"spiral"`
	Rejected    int       `json:"rejected"`
	Vertices    int       `json:"vertices"`
	Edges       int       `json:"edges"`
	Rings       int       `json:"rings"`
	Spines      int       `json:"spines"`
	Created     time.Time `json:"created"`
}

// Store archives skeletons in a blob store. Each skeleton lives under its
// name as a binary snapshot and a manifest.
type Store struct {
	bs   blobstore.BlobStore
	opts options
}

// NewStore creates a Store on bs. It honours WithCodec, WithCompression,
// WithResourceController, WithLogger and WithMetricsCollector.
func NewStore(bs blobstore.BlobStore, optFns ...Option) *Store {
	return &Store{
		bs:   bs,
		opts: applyOptions(optFns),
	}
}

// SaveSkeleton writes sk under name, replacing any skeleton stored there.
func (s *Store) SaveSkeleton(ctx context.Context, name string, sk *Skeleton) (err error) {
	var size int64
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordSave(size, time.Since(start), err)
		s.opts.logger.LogSave(ctx, name, size, err)
	}()

	if err := validateName(name); err != nil {
		return err
	}
	if sk == nil {
		return ErrNilSkeleton
	}

	snap := &persistence.Snapshot{
		Nulls:        sk.Nulls,
		Separatrices: sk.Separatrices,
		Spines:       sk.Spines,
	}

	rc := s.opts.controller
	reserve := persistence.EncodedSize(snap)
	if err := rc.AcquireMemory(ctx, reserve); err != nil {
		return err
	}
	defer rc.ReleaseMemory(reserve)

	var buf bytes.Buffer
	buf.Grow(int(reserve))
	if err := persistence.Write(&buf, snap, s.opts.compression); err != nil {
		return err
	}
	size = int64(buf.Len())

	// Unlist the old skeleton before its snapshot is replaced.
	if err := s.bs.Delete(ctx, path.Join(name, manifestFile)); err != nil {
		return err
	}
	if err := s.writeSnapshot(ctx, name, buf.Bytes()); err != nil {
		return err
	}

	m := newManifest(name, s.opts.codec.Name(), sk, size, s.opts.compression)
	data, err := s.opts.codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("fieldtopo: encode manifest: %w", err)
	}
	return s.bs.Put(ctx, path.Join(name, manifestFile), data)
}

func (s *Store) writeSnapshot(ctx context.Context, name string, data []byte) error {
	w, err := s.bs.Create(ctx, path.Join(name, snapshotFile))
	if err != nil {
		return err
	}

	rw := resource.NewRateLimitedWriter(ctx, w, s.opts.controller)
	if _, err := rw.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Sync(); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// LoadSkeleton reads the skeleton stored under name. Rejected is always empty
// on a loaded skeleton.
func (s *Store) LoadSkeleton(ctx context.Context, name string) (sk *Skeleton, err error) {
	var size int64
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordLoad(size, time.Since(start), err)
		s.opts.logger.LogLoad(ctx, name, size, err)
	}()

	if err := validateName(name); err != nil {
		return nil, err
	}

	b, err := s.bs.Open(ctx, path.Join(name, snapshotFile))
	if err != nil {
		return nil, err
	}
	defer b.Close()

	size = b.Size()
	rr, err := b.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer rr.Close()

	r := resource.NewRateLimitedReader(ctx, rr, s.opts.controller)
	snap, err := persistence.Read(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("fieldtopo: load %s: %w", name, err)
	}

	return &Skeleton{
		Nulls:        snap.Nulls,
		Separatrices: snap.Separatrices,
		Spines:       snap.Spines,
	}, nil
}

// Manifest reads the manifest of the skeleton stored under name.
func (s *Store) Manifest(ctx context.Context, name string) (*Manifest, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	b, err := s.bs.Open(ctx, path.Join(name, manifestFile))
	if err != nil {
		return nil, err
	}
	defer b.Close()

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := s.opts.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("fieldtopo: decode manifest: %w", err)
	}
	if m.Codec != s.opts.codec.Name() {
		c, ok := codec.ByName(m.Codec)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, m.Codec)
		}
		m = Manifest{}
		if err := c.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("fieldtopo: decode manifest: %w", err)
		}
	}
	return &m, nil
}

// List returns the names of all complete skeletons, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.bs.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, "/"+manifestFile); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the skeleton stored under name. The manifest goes first so a
// partially deleted skeleton is no longer listed.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.bs.Delete(ctx, path.Join(name, manifestFile)); err != nil {
		return err
	}
	return s.bs.Delete(ctx, path.Join(name, snapshotFile))
}

// IsNotFound reports whether err means a skeleton does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, blobstore.ErrNotFound)
}

func validateName(name string) error {
	if name == "" || path.IsAbs(name) || path.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

func newManifest(name, codecName string, sk *Skeleton, size int64, c persistence.Compression) Manifest {
	m := Manifest{
		Name:        name,
		Codec:       codecName,
		Format:      persistence.Version,
		Compression: c.String(),
		Size:        size,
		Nulls:       len(sk.Nulls),
		Rejected:    len(sk.Rejected),
		Spines:      len(sk.Spines),
		Created:     time.Now().UTC(),
	}
	for _, np := range sk.Nulls {
		if np.Kind == nullpoint.KindSpiral {
			m.Spiral++
		}
	}
	if mesh := sk.Separatrices; mesh != nil {
		m.Vertices = len(mesh.Vertices)
		m.Edges = len(mesh.Edges)
		m.Rings = len(mesh.Rings)
	}
	return m
}
