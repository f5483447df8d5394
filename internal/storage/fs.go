package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/thanos-io/objstore"
)

// dirMarker materializes a directory in an object store, which otherwise
// only knows about objects.
const dirMarker = ".dir"

// Entry is a single child of a listed directory.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// FS exposes POSIX-like directory semantics on top of a bucket.
type FS struct {
	bucket objstore.Bucket

	// mkdirMu makes Mkdir check-and-create atomic within the process.
	mkdirMu sync.Mutex
}

func NewFS(bucket objstore.Bucket) *FS {
	return &FS{bucket: bucket}
}

// Bucket returns the underlying bucket.
func (fs *FS) Bucket() objstore.Bucket {
	return fs.bucket
}

// List returns the direct children of dir. Directory markers are hidden.
func (fs *FS) List(ctx context.Context, dir string) ([]Entry, error) {
	dir = clean(dir)

	var entries []Entry
	err := fs.bucket.Iter(ctx, dir+objstore.DirDelim, func(name string) error {
		isDir := strings.HasSuffix(name, objstore.DirDelim)
		p := strings.TrimSuffix(name, objstore.DirDelim)
		base := path.Base(p)
		if base == dirMarker {
			return nil
		}

		entries = append(entries, Entry{Name: base, Path: p, IsDir: isDir})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	return entries, nil
}

// Mkdir creates dir and reports whether this call created it. A false
// result means the directory already existed.
//
// Object stores have no create-if-absent, so across processes exactly one
// caller sees true only when callers never race on the same name. Bulk
// directory names come from naming.Allocator, which guarantees that.
func (fs *FS) Mkdir(ctx context.Context, dir string) (bool, error) {
	marker := path.Join(clean(dir), dirMarker)

	fs.mkdirMu.Lock()
	defer fs.mkdirMu.Unlock()

	exists, err := fs.bucket.Exists(ctx, marker)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", dir, err)
	}
	if exists {
		return false, nil
	}

	if err := fs.bucket.Upload(ctx, marker, bytes.NewReader(nil)); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	return true, nil
}

// MkdirAll creates dir if it does not already exist.
func (fs *FS) MkdirAll(ctx context.Context, dir string) error {
	_, err := fs.Mkdir(ctx, dir)
	return err
}

// Exists reports whether an object exists at p.
func (fs *FS) Exists(ctx context.Context, p string) (bool, error) {
	return fs.bucket.Exists(ctx, clean(p))
}

// Open returns a reader for the object at p.
func (fs *FS) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := fs.bucket.Get(ctx, clean(p))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	return r, nil
}

// Create returns a writer whose contents are uploaded to p when it is
// closed. Nothing is visible at p before Close returns successfully.
func (fs *FS) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	return &objectWriter{ctx: ctx, bucket: fs.bucket, path: clean(p)}, nil
}

// IsNotExist reports whether err means the object is missing.
func (fs *FS) IsNotExist(err error) bool {
	return fs.bucket.IsObjNotFoundErr(err)
}

type objectWriter struct {
	ctx    context.Context
	bucket objstore.Bucket
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed object %s", w.path)
	}
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.bucket.Upload(w.ctx, w.path, bytes.NewReader(w.buf.Bytes())); err != nil {
		return fmt.Errorf("uploading %s: %w", w.path, err)
	}
	return nil
}

func clean(p string) string {
	return strings.Trim(path.Clean(p), objstore.DirDelim)
}
