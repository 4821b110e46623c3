package mcp

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestHashTools(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	out, err := s.hashText(ctx, HashTextInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", out.MD5Hash)

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	out, err = s.hashFile(ctx, HashFileInput{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", out.MD5Hash)

	_, err = s.hashFile(ctx, HashFileInput{Path: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.hashFile(ctx, HashFileInput{Path: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStore)
}

func TestSplittingTools(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	created, err := s.getOrCreateSplitting(ctx, SplittingConfigInput{ChunkSize: 100, ChunkOverlap: 10})
	require.NoError(t, err)
	require.True(t, created.Found)

	resolved, err := s.resolveSplitting(ctx, SplittingRefInput{ChunkSize: 100, ChunkOverlap: 10})
	require.NoError(t, err)
	assert.Equal(t, created.Splitting.ID, resolved.SplittingID)

	got, err := s.getSplitting(ctx, IDInput{ID: 999})
	require.NoError(t, err)
	assert.False(t, got.Found)

	list, err := s.listSplittings(ctx, NoInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestSplittingRefInput_Forms(t *testing.T) {
	assert.Equal(t, domain.SplittingByID(3), SplittingRefInput{SplittingID: 3}.ref())
	assert.Equal(t, domain.SplittingByConfig(10, 2), SplittingRefInput{ChunkSize: 10, ChunkOverlap: 2}.ref())

	both := SplittingRefInput{SplittingID: 3, ChunkSize: 10}.ref()
	assert.Error(t, both.Validate())
}

func TestDocumentAndChunkTools(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	doc, err := s.getOrCreateDocument(ctx, DocumentInput{Filename: "a.txt", Content: "hello world"})
	require.NoError(t, err)
	require.True(t, doc.Found)
	assert.Equal(t, codec.HashString("hello world"), doc.Document.MD5Hash)
	assert.NotEmpty(t, doc.Document.UpdatedAt)

	dup, err := s.getOrCreateDocument(ctx, DocumentInput{Filename: "b.txt", Content: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, doc.Document.ID, dup.Document.ID)
	assert.Equal(t, "a.txt", dup.Document.Filename)

	many, err := s.addDocuments(ctx, AddDocumentsInput{Documents: []DocumentInput{
		{Filename: "c.txt", Content: "c"},
		{Filename: "d.txt", Content: "d"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, many.Count)

	all, err := s.listDocuments(ctx, NoInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)

	split, err := s.splitDocument(ctx, DocumentSplittingInput{
		DocumentID: doc.Document.ID,
		Splitting:  SplittingRefInput{ChunkSize: 5, ChunkOverlap: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, split.Count)

	chunks, err := s.listChunks(ctx, DocumentSplittingInput{
		DocumentID: doc.Document.ID,
		Splitting:  SplittingRefInput{ChunkSize: 5, ChunkOverlap: 1},
	})
	require.NoError(t, err)
	require.Equal(t, split.Count, chunks.Count)
	for i, c := range chunks.Chunks {
		assert.Equal(t, split.Chunks[i].MD5Hash, c.MD5Hash)
		assert.Equal(t, i, c.Sequence)
	}
	assert.Equal(t, "hell", chunks.Chunks[0].Content[:4])

	hashes, err := s.listChunkHashes(ctx, DocumentsSplittingInput{
		DocumentIDs: []int64{doc.Document.ID},
		Splitting:   SplittingRefInput{ChunkSize: 5, ChunkOverlap: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, hashes.Count)

	empty, err := s.listChunkHashes(ctx, DocumentsSplittingInput{Splitting: SplittingRefInput{ChunkSize: 5, ChunkOverlap: 1}})
	require.NoError(t, err)
	assert.NotNil(t, empty.Hashes)
	assert.Zero(t, empty.Count)

	_, err = s.createChunks(ctx, CreateChunksInput{
		DocumentID: many.Documents[0].ID,
		Splitting:  SplittingRefInput{ChunkSize: 5, ChunkOverlap: 1},
		Chunks:     []domain.ChunkInput{{Content: "c"}},
	})
	require.NoError(t, err)
}

func TestEmbeddingTools(t *testing.T) {
	s, a := newTestServer(t)
	ctx := context.Background()

	cfg, err := a.Registries[domain.RegistryEmbeddingsConfigs].Create(ctx, domain.RegistryInput{Name: "cfg", Type: "openai"})
	require.NoError(t, err)

	doc, err := s.getOrCreateDocument(ctx, DocumentInput{Filename: "a.txt", Content: "abcdef"})
	require.NoError(t, err)
	ref := SplittingRefInput{ChunkSize: 3, ChunkOverlap: 0}
	split, err := s.splitDocument(ctx, DocumentSplittingInput{DocumentID: doc.Document.ID, Splitting: ref})
	require.NoError(t, err)
	require.Equal(t, 2, split.Count)

	first := split.Chunks[0].MD5Hash
	n, err := s.upsertEmbeddingVector(ctx, VectorInput{EmbeddingsConfigID: cfg.ID, MD5Hash: first, Vector: []float32{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Count)

	got, err := s.getEmbeddingVector(ctx, VectorKeyInput{EmbeddingsConfigID: cfg.ID, MD5Hash: first})
	require.NoError(t, err)
	require.True(t, got.Found)
	assert.Equal(t, []float32{1, 2}, got.Vector.Vector)

	missing, err := s.missingEmbeddings(ctx, MissingEmbeddingsInput{
		EmbeddingsConfigID: cfg.ID,
		DocumentIDs:        []int64{doc.Document.ID},
		Splitting:          ref,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{split.Chunks[1].MD5Hash}, missing.Hashes)

	encoded := base64.StdEncoding.EncodeToString(codec.EncodeVector([]float32{3}))
	n, err = s.upsertEmbeddingVectors(ctx, UpsertVectorsInput{Entries: []VectorInput{
		{EmbeddingsConfigID: cfg.ID, MD5Hash: split.Chunks[1].MD5Hash, Encoded: encoded},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Count)

	got, err = s.getEmbeddingVector(ctx, VectorKeyInput{EmbeddingsConfigID: cfg.ID, MD5Hash: split.Chunks[1].MD5Hash})
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, got.Vector.Vector)

	_, err = s.upsertEmbeddingVectors(ctx, UpsertVectorsInput{Entries: []VectorInput{
		{EmbeddingsConfigID: cfg.ID, MD5Hash: first, Encoded: "%%%"},
	}})
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestRegistryTools(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	h := registryHandlers{svc: s.ports.Registries[domain.RegistryVectorDbClients]}

	created, err := h.create(ctx, RegistryCreateInput{Name: "qdrant", Type: "qdrant"})
	require.NoError(t, err)
	require.True(t, created.Found)
	assert.Equal(t, string(domain.RegistryVectorDbClients), created.Entry.Kind)
	assert.NotNil(t, created.Entry.Meta)

	upserted, err := h.upsert(ctx, RegistryUpsertInput{
		ID: created.Entry.ID, Name: "qdrant", Type: "qdrant", Meta: map[string]any{"url": "http://localhost:6333"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6333", upserted.Entry.Meta["url"])

	got, err := h.get(ctx, IDInput{ID: created.Entry.ID})
	require.NoError(t, err)
	assert.True(t, got.Found)

	none, err := h.get(ctx, IDInput{ID: 999})
	require.NoError(t, err)
	assert.False(t, none.Found)

	list, err := h.list(ctx, NoInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)

	byType, err := h.listByType(ctx, RegistryTypeInput{Type: "pgvector"})
	require.NoError(t, err)
	assert.NotNil(t, byType.Entries)
	assert.Zero(t, byType.Count)

	_, err = h.create(ctx, RegistryCreateInput{Name: " ", Type: "qdrant"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// seedProfile creates one entry per registry and a profile over them.
func seedProfile(t *testing.T, s *Server) IndexProfileResult {
	t.Helper()
	ctx := context.Background()
	ids := map[domain.RegistryKind]int64{}
	for _, kind := range domain.AllRegistryKinds() {
		res, err := registryHandlers{svc: s.ports.Registries[kind]}.create(ctx, RegistryCreateInput{Name: string(kind), Type: "t"})
		require.NoError(t, err)
		ids[kind] = res.Entry.ID
	}
	p, err := s.createIndexProfile(ctx, CreateIndexProfileInput{
		Name:               "default",
		Splitting:          SplittingRefInput{ChunkSize: 500, ChunkOverlap: 50},
		EmbeddingsClientID: ids[domain.RegistryEmbeddingsClients],
		EmbeddingsConfigID: ids[domain.RegistryEmbeddingsConfigs],
		VectorDbClientID:   ids[domain.RegistryVectorDbClients],
		VectorDbConfigID:   ids[domain.RegistryVectorDbConfigs],
	})
	require.NoError(t, err)
	return p
}

func TestGraphTools_Lifecycle(t *testing.T) {
	s, a := newTestServer(t)
	ctx := context.Background()

	d1, err := s.getOrCreateDocument(ctx, DocumentInput{Filename: "1.txt", Content: "one"})
	require.NoError(t, err)
	d2, err := s.getOrCreateDocument(ctx, DocumentInput{Filename: "2.txt", Content: "two"})
	require.NoError(t, err)

	col, err := s.createCollection(ctx, CreateCollectionInput{Name: "docs", DocumentIDs: []int64{d1.Document.ID}})
	require.NoError(t, err)
	colID := col.Collection.ID

	_, err = s.addCollectionDocuments(ctx, CollectionDocumentsInput{CollectionID: colID, DocumentIDs: []int64{d2.Document.ID}})
	require.NoError(t, err)

	members, err := s.listDocumentsByCollection(ctx, CollectionIDInput{CollectionID: colID})
	require.NoError(t, err)
	assert.Equal(t, 2, members.Count)

	renamed, err := s.renameCollection(ctx, RenameCollectionInput{ID: colID, Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Collection.Name)

	profile := seedProfile(t, s)
	details, err := s.getIndexProfileDetails(ctx, IDInput{ID: profile.Profile.ID})
	require.NoError(t, err)
	require.True(t, details.Found)
	assert.Equal(t, 500, details.Details.Splitting.ChunkSize)
	assert.Equal(t, string(domain.RegistryVectorDbConfigs), details.Details.VectorDbConfig.Kind)

	idx, err := s.createCollectionIndex(ctx, CreateCollectionIndexInput{
		Name: "main", CollectionID: colID, IndexProfileID: profile.Profile.ID,
	})
	require.NoError(t, err)
	indexID := idx.Index.ID
	assert.NotEmpty(t, indexID)

	_, err = s.upsertIndexDocuments(ctx, IndexDocumentsInput{IndexID: indexID, DocumentIDs: []int64{d1.Document.ID}})
	require.NoError(t, err)

	status, err := s.indexSyncStatus(ctx, IndexIDInput{IndexID: indexID})
	require.NoError(t, err)
	assert.False(t, status.Clean)
	require.Len(t, status.ToIndex, 1)
	assert.Equal(t, d2.Document.ID, status.ToIndex[0].ID)
	assert.NotNil(t, status.ToDelete)
	assert.Len(t, status.All, 2)

	withIdx, err := s.listCollectionsWithIndexes(ctx, NoInput{})
	require.NoError(t, err)
	require.Equal(t, 1, withIdx.Count)
	assert.Len(t, withIdx.Collections[0].Indexes, 1)

	sess, err := s.createSession(ctx, CreateSessionInput{Name: "chat", IndexID: indexID, History: "[]"})
	require.NoError(t, err)

	history := `[{"role":"user"}]`
	updated, err := s.updateSession(ctx, UpdateSessionInput{ID: sess.Session.ID, History: &history})
	require.NoError(t, err)
	assert.Equal(t, "chat", updated.Session.Name)
	assert.Equal(t, history, updated.Session.History)

	byIndex, err := s.listSessionsByIndex(ctx, IndexIDInput{IndexID: indexID})
	require.NoError(t, err)
	assert.Equal(t, 1, byIndex.Count)

	_, err = s.deleteCollection(ctx, IDInput{ID: colID})
	require.NoError(t, err)

	stats, err := a.Store.Stats(ctx)
	require.NoError(t, err)
	for _, table := range []string{"collections", "collection_documents", "collection_indexes",
		"collection_index_documents", "sessions"} {
		assert.Zero(t, stats[table], table)
	}
	assert.Equal(t, int64(2), stats["documents"])

	_, err = s.deleteCollection(ctx, IDInput{ID: colID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGraphTools_IndexAndSessionDeletes(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	col, err := s.createCollection(ctx, CreateCollectionInput{Name: "c"})
	require.NoError(t, err)
	profile := seedProfile(t, s)
	idx, err := s.createCollectionIndex(ctx, CreateCollectionIndexInput{
		Name: "i", CollectionID: col.Collection.ID, IndexProfileID: profile.Profile.ID,
	})
	require.NoError(t, err)

	for _, name := range []string{"a", "b"} {
		_, err := s.createSession(ctx, CreateSessionInput{Name: name, IndexID: idx.Index.ID})
		require.NoError(t, err)
	}

	n, err := s.deleteSessionsByIndexIDs(ctx, IndexIDsInput{IndexIDs: []string{idx.Index.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Count)

	n, err = s.deleteCollectionIndexes(ctx, IndexIDsInput{IndexIDs: []string{idx.Index.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Count)

	n, err = s.deleteCollectionIndexes(ctx, IndexIDsInput{})
	require.NoError(t, err)
	assert.Zero(t, n.Count)

	got, err := s.getCollectionIndex(ctx, IndexIDInput{IndexID: idx.Index.ID})
	require.NoError(t, err)
	assert.False(t, got.Found)

	_, err = s.deleteSession(ctx, IDInput{ID: 12345})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
