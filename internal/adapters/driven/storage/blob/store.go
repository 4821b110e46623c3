// Package blob provides a filesystem implementation of driven.BlobStore.
//
// Blobs live at <root>/<key[:2]>/<key>. Writes go to a temporary file in
// the target directory and are renamed into place, so readers and
// concurrent writers of the same key only ever see complete content.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Store is a content-addressed directory of blobs.
type Store struct {
	root string
}

var _ driven.BlobStore = (*Store)(nil)

// NewStore creates the blob area at root. If root is empty, defaults to
// ~/.docgraph/blobs.
func NewStore(root string) (*Store, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".docgraph", "blobs")
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the blob directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the location of the blob for key.
func (s *Store) Path(key string) string {
	if len(key) < 2 {
		return filepath.Join(s.root, key)
	}
	return filepath.Join(s.root, key[:2], key)
}

// Exists reports whether a blob is stored under key.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	if err := codec.ValidateHash(key); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, domain.E("exists", "blob", key, domain.ErrStore, err)
	}
}

// WriteIfAbsent copies r to the blob for key unless one already exists.
// r is not read when the blob is present.
func (s *Store) WriteIfAbsent(ctx context.Context, key string, r io.Reader) (string, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	path := s.Path(key)
	if exists {
		logger.Debug("blob %s already staged", key)
		return path, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", domain.E("write", "blob", key, domain.ErrStore, err)
	}
	tmpName, err := s.writeTemp(ctx, dir, key, r)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpName) // no-op after a successful rename

	// Identical content under identical keys makes a lost race harmless.
	if err := os.Rename(tmpName, path); err != nil {
		return "", domain.E("write", "blob", key, domain.ErrStore, err)
	}
	logger.Debug("staged blob %s", key)
	return path, nil
}

// Stage copies r into the blob area and files it under the MD5 of the
// bytes actually copied. r is read exactly once, so the key always matches
// the stored content even if the source changes while it is being read.
func (s *Store) Stage(ctx context.Context, r io.Reader) (key, path string, err error) {
	digest := codec.NewDigest()
	tmpName, err := s.writeTemp(ctx, s.root, "stage", io.TeeReader(r, digest))
	if err != nil {
		return "", "", err
	}
	defer os.Remove(tmpName)

	key = digest.String()
	path = s.Path(key)
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", "", err
	}
	if exists {
		logger.Debug("blob %s already staged", key)
		return key, path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", "", domain.E("stage", "blob", key, domain.ErrStore, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", "", domain.E("stage", "blob", key, domain.ErrStore, err)
	}
	logger.Debug("staged blob %s", key)
	return key, path, nil
}

// writeTemp copies r to a synced temporary file in dir and returns its name.
// The file is removed on failure. Errors already classified by the reader
// are returned unchanged.
func (s *Store) writeTemp(ctx context.Context, dir, key string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return "", domain.E("write", "blob", key, domain.ErrStore, err)
	}
	tmpName := tmp.Name()

	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.E("write", "blob", key, domain.ErrStore, err)
	}
	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r}); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", domain.E("write", "blob", key, domain.ErrStore, err)
	}
	return tmpName, nil
}

// Open returns a reader over the blob for key.
func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := codec.ValidateHash(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.E("open", "blob", key, domain.ErrNotFound, nil)
	}
	if err != nil {
		return nil, domain.E("open", "blob", key, domain.ErrStore, err)
	}
	return f, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
