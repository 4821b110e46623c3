package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

func TestDocumentService_GetOrCreate_DedupByContent(t *testing.T) {
	env := newTestEnv(t)

	first := env.addDoc(t, "a.txt", "hello")
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", first.MD5Hash)
	assert.Equal(t, env.blobs.Path(first.MD5Hash), first.Path)
	assert.FileExists(t, first.Path)

	second := env.addDoc(t, "b.txt", "hello")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a.txt", second.Filename)

	assert.Equal(t, int64(1), env.count(t, "documents"))
}

func TestDocumentService_GetOrCreate_FromFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# notes"), 0600))

	doc, err := env.documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "notes.md", SourcePath: src})
	require.NoError(t, err)
	assert.Equal(t, codec.HashString("# notes"), doc.MD5Hash)

	staged, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "# notes", string(staged))

	// Same bytes supplied inline resolve to the same document.
	inline := env.addDoc(t, "copy.md", "# notes")
	assert.Equal(t, doc.ID, inline.ID)
}

func TestDocumentService_GetOrCreate_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.GetOrCreate(ctx, domain.DocumentIdentity{
		Filename:   "gone.txt",
		SourcePath: filepath.Join(t.TempDir(), "gone.txt"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "x", SourcePath: "/a", Content: []byte("b")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.documents.GetOrCreate(ctx, domain.DocumentIdentity{Content: []byte("b")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(0), env.count(t, "documents"))
}

// rewritingStore rewrites a source file on the first lookup, between the
// moment ingestion starts reading it and the moment the row is written.
type rewritingStore struct {
	driven.DocumentStore
	path    string
	content string
	done    bool
}

func (s *rewritingStore) GetByHash(ctx context.Context, hash string) (*domain.Document, error) {
	if !s.done {
		s.done = true
		if err := os.WriteFile(s.path, []byte(s.content), 0600); err != nil {
			return nil, err
		}
	}
	return s.DocumentStore.GetByHash(ctx, hash)
}

func TestDocumentService_GetOrCreate_SourceChangesDuringIngest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "live.txt")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0600))

	store := &rewritingStore{DocumentStore: env.store.DocumentStore(), path: src, content: "rewritten while ingesting"}
	docs := NewDocumentService(store, env.blobs, env.metrics)

	doc, err := docs.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "live.txt", SourcePath: src})
	require.NoError(t, err)

	staged, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, codec.HashBytes(staged), doc.MD5Hash)
	assert.Equal(t, "original", string(staged))

	content, err := docs.Content(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.MD5Hash, codec.HashBytes(content))

	// The rewritten file is new content and becomes its own document.
	again, err := docs.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "live.txt", SourcePath: src})
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, again.ID)
	assert.Equal(t, codec.HashString("rewritten while ingesting"), again.MD5Hash)
}

func TestDocumentService_GetOrCreate_UnreadableSourceFailsFast(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now()
	_, err := env.documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "dir", SourcePath: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, domain.IsRetryable(err))
	assert.Less(t, time.Since(start), time.Second)

	if os.Geteuid() != 0 {
		locked := filepath.Join(t.TempDir(), "locked.txt")
		require.NoError(t, os.WriteFile(locked, []byte("secret"), 0000))
		_, err = env.documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "locked.txt", SourcePath: locked})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	assert.Equal(t, int64(0), env.count(t, "documents"))
}

func TestDocumentService_GetOrCreate_EmptyContent(t *testing.T) {
	env := newTestEnv(t)

	doc := env.addDoc(t, "empty.txt", "")
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", doc.MD5Hash)
}

func TestDocumentService_GetOrCreate_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const callers = 6
	ids := make([]int64, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			doc, err := env.documents.GetOrCreate(ctx, domain.DocumentIdentity{
				Filename: "same.txt",
				Content:  []byte("shared content"),
			})
			if err != nil {
				return err
			}
			ids[i] = doc.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, int64(1), env.count(t, "documents"))
}

func TestDocumentService_AddMany(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	docs, err := env.documents.AddMany(ctx, []domain.DocumentIdentity{
		{Filename: "a.txt", Content: []byte("a")},
		{Filename: "b.txt", Content: []byte("b")},
		{Filename: "a2.txt", Content: []byte("a")},
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, docs[0].ID, docs[2].ID)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)

	_, err = env.documents.AddMany(ctx, []domain.DocumentIdentity{
		{Filename: "c.txt", Content: []byte("c")},
		{Filename: ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "document 1")
}

func TestDocumentService_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.addDoc(t, "a.txt", "a")
	b := env.addDoc(t, "b.txt", "b")

	got, err := env.documents.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.MD5Hash, got.MD5Hash)

	missing, err := env.documents.Get(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := env.documents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	col, err := env.collections.Create(ctx, "docs", []int64{b.ID})
	require.NoError(t, err)

	members, err := env.documents.ListByCollection(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, b.ID, members[0].ID)
}

func TestDocumentService_NilStores(t *testing.T) {
	svc := NewDocumentService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "a", Content: []byte("a")})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestDocumentService_Content(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := env.addDoc(t, "a.txt", "staged bytes")

	data, err := env.documents.Content(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "staged bytes", string(data))

	_, err = env.documents.Content(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, os.Remove(doc.Path))
	_, err = env.documents.Content(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
