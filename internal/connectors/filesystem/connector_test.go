package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, paths <-chan string, errs <-chan error) []string {
	t.Helper()
	var got []string
	for p := range paths {
		got = append(got, p)
	}
	for err := range errs {
		require.NoError(t, err)
	}
	sort.Strings(got)
	return got
}

func TestNew(t *testing.T) {
	c := New("/tmp/x/")
	assert.Equal(t, "/tmp/x", c.Root())
	assert.NotNil(t, c.limiter)
}

func TestConnector_FullSync(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("h"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	paths, errs := New(dir).FullSync(context.Background())
	got := collect(t, paths, errs)

	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "sub", "b.md")}, got)
}

func TestConnector_FullSync_EmptyDirectory(t *testing.T) {
	paths, errs := New(t.TempDir()).FullSync(context.Background())
	assert.Empty(t, collect(t, paths, errs))
}

func TestConnector_FullSync_MissingRoot(t *testing.T) {
	paths, errs := New(filepath.Join(t.TempDir(), "missing")).FullSync(context.Background())
	for range paths {
	}
	err := <-errs
	assert.Error(t, err)
}

func TestConnector_FullSync_Cancelled(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, errs := New(dir).FullSync(ctx)
	for range paths {
	}
	assert.ErrorIs(t, <-errs, context.Canceled)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))
	hidden := filepath.Join(dir, ".hidden.txt")
	require.NoError(t, os.WriteFile(hidden, []byte("hidden"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	c := New(dir)
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want string
	}{
		{"create file", file, fsnotify.Create, file},
		{"write file", file, fsnotify.Write, file},
		{"write and chmod", file, fsnotify.Write | fsnotify.Chmod, file},
		{"chmod only", file, fsnotify.Chmod, ""},
		{"remove", filepath.Join(dir, "gone.txt"), fsnotify.Remove, ""},
		{"rename", filepath.Join(dir, "gone.txt"), fsnotify.Rename, ""},
		{"directory", sub, fsnotify.Create, ""},
		{"hidden", hidden, fsnotify.Write, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op}))
		})
	}
}

func TestConnector_Watch(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	paths, err := c.Watch(ctx)
	require.NoError(t, err)

	file := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	select {
	case got := <-paths:
		assert.Equal(t, file, got)
	case <-ctx.Done():
		t.Fatal("no event for created file")
	}
}

func TestConnector_Close(t *testing.T) {
	c := New(t.TempDir())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	_, err := c.Watch(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWithRate(t *testing.T) {
	c := New(t.TempDir(), WithRate(2))
	assert.InDelta(t, 2.0, float64(c.limiter.Limit()), 0.001)

	c = New(t.TempDir(), WithRate(0))
	assert.True(t, c.limiter.Limit() > 1e300)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden("/a/.git"))
	assert.True(t, isHidden(".env"))
	assert.False(t, isHidden("/a/b.txt"))
	assert.False(t, isHidden("."))
}
