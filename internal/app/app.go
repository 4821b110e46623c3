// Package app wires the stores and services that every driving adapter
// shares. It owns the SQLite handle and closes it.
package app

import (
	"fmt"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/blob"
	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/core/services"
	"github.com/custodia-labs/docgraph/internal/logger"
	"github.com/custodia-labs/docgraph/internal/metrics"
)

// App holds the wired services.
type App struct {
	Store   *sqlite.Store
	Blobs   *blob.Store
	Metrics *metrics.Metrics

	Splittings  driving.SplittingService
	Documents   driving.DocumentService
	Chunks      driving.ChunkService
	Embeddings  driving.EmbeddingService
	Registries  driving.Registries
	Collections driving.CollectionService
	Profiles    driving.IndexProfileService
	Indexes     driving.CollectionIndexService
	Sessions    driving.SessionService
}

// Open creates or opens the database under dataDir and the blob area under
// blobDir, then builds every service on top of them.
func Open(dataDir, blobDir string) (*App, error) {
	logger.Section("Opening stores")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("database: %s", store.Path())

	blobs, err := blob.NewStore(blobDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("opening blob area: %w", err)
	}
	logger.Debug("blob area: %s", blobs.Root())

	regStores := make([]driven.RegistryStore, 0, len(domain.AllRegistryKinds()))
	for _, kind := range domain.AllRegistryKinds() {
		rs, err := store.RegistryStore(kind)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		regStores = append(regStores, rs)
	}

	m := metrics.New()
	splittings := services.NewSplittingService(store.SplittingStore(), m)
	chunks := services.NewChunkService(store, store.ChunkStore(), store.DocumentStore(), blobs, splittings, m)
	registries := services.NewRegistries(regStores...)

	return &App{
		Store:      store,
		Blobs:      blobs,
		Metrics:    m,
		Splittings: splittings,
		Documents:  services.NewDocumentService(store.DocumentStore(), blobs, m),
		Chunks:     chunks,
		Embeddings: services.NewEmbeddingService(store, store.EmbeddingVectorStore(), chunks, m),
		Registries: registries,
		Collections: services.NewCollectionService(store, store.CollectionStore(),
			store.CollectionIndexStore(), store.SessionStore(), m),
		Profiles: services.NewIndexProfileService(store.IndexProfileStore(), splittings, registries),
		Indexes: services.NewCollectionIndexService(store, store.CollectionIndexStore(), store.CollectionStore(),
			store.DocumentStore(), store.SessionStore(), m),
		Sessions: services.NewSessionService(store.SessionStore(), m),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.Store.Close()
}
