package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/blob"
	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/metrics"
)

// testEnv wires every service against a real SQLite store and blob area
// under t.TempDir().
type testEnv struct {
	store   *sqlite.Store
	blobs   *blob.Store
	metrics *metrics.Metrics

	splittings  *SplittingService
	documents   *DocumentService
	chunks      *ChunkService
	embeddings  *EmbeddingService
	registries  driving.Registries
	collections *CollectionService
	profiles    *IndexProfileService
	indexes     *CollectionIndexService
	sessions    *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := sqlite.NewStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	blobs, err := blob.NewStore(dir + "/blobs")
	require.NoError(t, err)

	m := metrics.New()

	var regStores []driven.RegistryStore
	for _, kind := range domain.AllRegistryKinds() {
		rs, err := store.RegistryStore(kind)
		require.NoError(t, err)
		regStores = append(regStores, rs)
	}

	env := &testEnv{store: store, blobs: blobs, metrics: m}
	env.splittings = NewSplittingService(store.SplittingStore(), m)
	env.documents = NewDocumentService(store.DocumentStore(), blobs, m)
	env.chunks = NewChunkService(store, store.ChunkStore(), store.DocumentStore(), blobs, env.splittings, m)
	env.embeddings = NewEmbeddingService(store, store.EmbeddingVectorStore(), env.chunks, m)
	env.registries = NewRegistries(regStores...)
	env.collections = NewCollectionService(store, store.CollectionStore(),
		store.CollectionIndexStore(), store.SessionStore(), m)
	env.profiles = NewIndexProfileService(store.IndexProfileStore(), env.splittings, env.registries)
	env.indexes = NewCollectionIndexService(store, store.CollectionIndexStore(), store.CollectionStore(),
		store.DocumentStore(), store.SessionStore(), m)
	env.sessions = NewSessionService(store.SessionStore(), m)
	return env
}

// addDoc ingests content under filename.
func (e *testEnv) addDoc(t *testing.T, filename, content string) *domain.Document {
	t.Helper()
	doc, err := e.documents.GetOrCreate(context.Background(), domain.DocumentIdentity{
		Filename: filename,
		Content:  []byte(content),
	})
	require.NoError(t, err)
	return doc
}

// addRegistry creates one entry in a registry.
func (e *testEnv) addRegistry(t *testing.T, kind domain.RegistryKind, name string) int64 {
	t.Helper()
	entry, err := e.registries[kind].Create(context.Background(), domain.RegistryInput{Name: name, Type: "openai"})
	require.NoError(t, err)
	return entry.ID
}

// addProfile creates an index profile with every reference satisfied.
func (e *testEnv) addProfile(t *testing.T) *domain.IndexProfile {
	t.Helper()
	p, err := e.profiles.Create(context.Background(), domain.IndexProfileInput{
		Name:               "default",
		Splitting:          domain.SplittingByConfig(500, 50),
		EmbeddingsClientID: e.addRegistry(t, domain.RegistryEmbeddingsClients, "client"),
		EmbeddingsConfigID: e.addRegistry(t, domain.RegistryEmbeddingsConfigs, "config"),
		VectorDbClientID:   e.addRegistry(t, domain.RegistryVectorDbClients, "vclient"),
		VectorDbConfigID:   e.addRegistry(t, domain.RegistryVectorDbConfigs, "vconfig"),
	})
	require.NoError(t, err)
	return p
}

// count returns the number of rows in table.
func (e *testEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	stats, err := e.store.Stats(context.Background())
	require.NoError(t, err)
	n, ok := stats[table]
	require.True(t, ok, "unknown table %s", table)
	return n
}
