package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	return s
}

func TestNewStore_CreatesRoot(t *testing.T) {
	s := setupTestStore(t)
	assert.DirExists(t, s.Root())
}

func TestWriteIfAbsent_WritesOnce(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	key := codec.HashString("hello")

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	path, err := s.WriteIfAbsent(ctx, key, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), key[:2], key), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// A second write does not touch the reader or the file.
	again, err := s.WriteIfAbsent(ctx, key, failingReader{})
	require.NoError(t, err)
	assert.Equal(t, path, again)

	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestWriteIfAbsent_ReadErrorLeavesNothing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	key := codec.HashString("x")

	_, err := s.WriteIfAbsent(ctx, key, failingReader{})
	assert.ErrorIs(t, err, domain.ErrStore)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	entries, err := os.ReadDir(filepath.Join(s.Root(), key[:2]))
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file must be cleaned up")
}

func TestWriteIfAbsent_ConcurrentWriters(t *testing.T) {
	s := setupTestStore(t)
	content := bytes.Repeat([]byte("docgraph"), 64*1024)
	key := codec.HashBytes(content)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := s.WriteIfAbsent(context.Background(), key, bytes.NewReader(content))
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := codec.HashFile(s.Path(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestWriteIfAbsent_CancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.WriteIfAbsent(ctx, codec.HashString("y"), strings.NewReader("y"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	key := codec.HashString("hello")

	_, err := s.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.WriteIfAbsent(ctx, key, strings.NewReader("hello"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestInvalidKey(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Exists(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrFormat)

	_, err = s.WriteIfAbsent(ctx, "short", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrFormat)

	_, err = s.Open(ctx, "zz")
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestStage_KeysByCopiedContent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	key, path, err := s.Stage(ctx, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, codec.HashString("hello"), key)
	assert.Equal(t, s.Path(key), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	again, againPath, err := s.Stage(ctx, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, key, again)
	assert.Equal(t, path, againPath)

	leftovers, err := filepath.Glob(filepath.Join(s.Root(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStage_ReadErrorLeavesNothing(t *testing.T) {
	s := setupTestStore(t)

	_, _, err := s.Stage(context.Background(), failingReader{})
	assert.ErrorIs(t, err, domain.ErrStore)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStage_KeepsClassifiedReadError(t *testing.T) {
	s := setupTestStore(t)
	bad := domain.E("read", "file", "path=x", domain.ErrInvalidInput, io.ErrUnexpectedEOF)

	_, _, err := s.Stage(context.Background(), io.MultiReader(strings.NewReader("part"), errReader{bad}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStore)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
