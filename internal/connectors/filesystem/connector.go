// Package filesystem finds local files to ingest: a full walk of a
// directory tree, then a live feed of files created or rewritten in it.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docgraph/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("filesystem: connector closed")

// Connector walks and watches one directory tree. Hidden files and
// directories (dot-prefixed) are skipped.
type Connector struct {
	root    string
	limiter *rate.Limiter

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithRate caps how many paths per second the connector emits, so a bulk
// copy into the tree does not monopolise the store. Zero or negative means
// no limit.
func WithRate(perSecond float64) Option {
	return func(c *Connector) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New creates a connector rooted at root.
func New(root string, opts ...Option) *Connector {
	c := &Connector{
		root:    filepath.Clean(root),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the watched directory.
func (c *Connector) Root() string {
	return c.root
}

// FullSync walks the tree and emits the path of every regular file.
// Both channels are closed when the walk ends.
func (c *Connector) FullSync(ctx context.Context) (<-chan string, <-chan error) {
	paths := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)

		err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != c.root && isHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return c.emit(ctx, paths, path)
		})
		if err != nil {
			errs <- err
		}
	}()

	return paths, errs
}

// Watch emits the path of every regular file created or written under the
// root until ctx is done or Close is called. New subdirectories are
// watched as they appear.
func (c *Connector) Watch(ctx context.Context) (<-chan string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addTree(w, c.root); err != nil {
		_ = w.Close()
		return nil, err
	}
	c.watcher = w

	paths := make(chan string)
	go func() {
		defer close(paths)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) && !isHidden(ev.Name) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if err := addTree(w, ev.Name); err != nil {
							logger.Warn("watching %s: %v", ev.Name, err)
						}
						continue
					}
				}
				if path := c.handleFsEvent(ev); path != "" {
					if err := c.emit(ctx, paths, path); err != nil {
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return paths, nil
}

// handleFsEvent returns the path to ingest for ev, or "" when the event
// is ignored. Removals and renames are ignored: documents are addressed by
// content and outlive their source files.
func (c *Connector) handleFsEvent(ev fsnotify.Event) string {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return ""
	}
	if isHidden(ev.Name) {
		return ""
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return ev.Name
}

func (c *Connector) emit(ctx context.Context, out chan<- string, path string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	select {
	case out <- path:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops any running watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isHidden reports whether the final path element is dot-prefixed.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
