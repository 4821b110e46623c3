package driven

import (
	"context"
	"io"
)

// BlobStore is a content-addressed staging area. Keys are content hashes.
type BlobStore interface {
	// WriteIfAbsent stores the content under key unless it is already
	// present, and returns the stable location of the blob. Concurrent
	// writers of the same key never observe a partially written blob.
	WriteIfAbsent(ctx context.Context, key string, r io.Reader) (string, error)

	// Stage reads r once, stores it under the hash of the bytes read and
	// returns that key with the blob location.
	Stage(ctx context.Context, r io.Reader) (key, path string, err error)

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns a reader over the blob stored under key.
	// Returns domain.ErrNotFound when absent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Path returns the location a blob with this key has or would have.
	Path(key string) string
}
