package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure the index services implement their interfaces.
var (
	_ driving.IndexProfileService    = (*IndexProfileService)(nil)
	_ driving.CollectionIndexService = (*CollectionIndexService)(nil)
)

// IndexProfileService manages index profiles.
type IndexProfileService struct {
	profiles   driven.IndexProfileStore
	splittings driving.SplittingService
	registries driving.Registries
}

// NewIndexProfileService creates a new index profile service.
func NewIndexProfileService(
	profiles driven.IndexProfileStore,
	splittings driving.SplittingService,
	registries driving.Registries,
) *IndexProfileService {
	return &IndexProfileService{profiles: profiles, splittings: splittings, registries: registries}
}

// Create stores a profile, resolving its splitting reference first.
// References to missing registry entries fail as invalid input.
func (s *IndexProfileService) Create(ctx context.Context, in domain.IndexProfileInput) (*domain.IndexProfile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("create", "index_profile", "name is required")
	}

	splittingID, err := s.splittings.Resolve(ctx, in.Splitting)
	if err != nil {
		return nil, err
	}

	p := &domain.IndexProfile{
		Name:               in.Name,
		SplittingID:        splittingID,
		EmbeddingsClientID: in.EmbeddingsClientID,
		EmbeddingsConfigID: in.EmbeddingsConfigID,
		VectorDbClientID:   in.VectorDbClientID,
		VectorDbConfigID:   in.VectorDbConfigID,
	}
	if err := s.profiles.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a profile by id. Returns nil if absent.
func (s *IndexProfileService) Get(ctx context.Context, id int64) (*domain.IndexProfile, error) {
	return optional(s.profiles.Get(ctx, id))
}

// GetDetails returns a profile with every reference resolved. Returns nil
// if the profile is absent.
func (s *IndexProfileService) GetDetails(ctx context.Context, id int64) (*domain.IndexProfileDetails, error) {
	p, err := s.Get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}

	sp, err := s.splittings.Get(ctx, p.SplittingID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.E("get_details", "splitting", idKey(p.SplittingID), domain.ErrNotFound, nil)
	}

	details := &domain.IndexProfileDetails{IndexProfile: *p, Splitting: *sp}
	refs := []struct {
		kind domain.RegistryKind
		id   int64
		dst  *domain.RegistryEntry
	}{
		{domain.RegistryEmbeddingsClients, p.EmbeddingsClientID, &details.EmbeddingsClient},
		{domain.RegistryEmbeddingsConfigs, p.EmbeddingsConfigID, &details.EmbeddingsConfig},
		{domain.RegistryVectorDbClients, p.VectorDbClientID, &details.VectorDbClient},
		{domain.RegistryVectorDbConfigs, p.VectorDbConfigID, &details.VectorDbConfig},
	}
	for _, ref := range refs {
		reg, ok := s.registries[ref.kind]
		if !ok {
			return nil, domain.E("get_details", string(ref.kind), "", domain.ErrNotImplemented, nil)
		}
		entry, err := reg.Get(ctx, ref.id)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, domain.E("get_details", string(ref.kind), idKey(ref.id), domain.ErrNotFound, nil)
		}
		*ref.dst = *entry
	}
	return details, nil
}

// List returns all profiles.
func (s *IndexProfileService) List(ctx context.Context) ([]domain.IndexProfile, error) {
	return s.profiles.List(ctx)
}

// CollectionIndexService manages the bindings of collections to profiles
// and the documents indexed under each binding.
type CollectionIndexService struct {
	tx          driven.Transactor
	indexes     driven.CollectionIndexStore
	collections driven.CollectionStore
	docs        driven.DocumentStore
	sessions    driven.SessionStore
	rec         driven.Recorder
	newID       func() string
}

// NewCollectionIndexService creates a new collection index service. rec may be nil.
func NewCollectionIndexService(
	tx driven.Transactor,
	indexes driven.CollectionIndexStore,
	collections driven.CollectionStore,
	docs driven.DocumentStore,
	sessions driven.SessionStore,
	rec driven.Recorder,
) *CollectionIndexService {
	return &CollectionIndexService{
		tx:          tx,
		indexes:     indexes,
		collections: collections,
		docs:        docs,
		sessions:    sessions,
		rec:         recorderOrNoop(rec),
		newID:       uuid.NewString,
	}
}

// Create binds a collection to a profile under a new opaque id.
func (s *CollectionIndexService) Create(
	ctx context.Context,
	name string,
	collectionID, profileID int64,
) (*domain.CollectionIndex, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("create", "collection_index", "name is required")
	}

	idx := &domain.CollectionIndex{
		ID:             s.newID(),
		Name:           name,
		CollectionID:   collectionID,
		IndexProfileID: profileID,
	}
	if err := s.indexes.Insert(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Get retrieves an index with its indexed document ids. Returns nil if absent.
func (s *CollectionIndexService) Get(ctx context.Context, id string) (*domain.CollectionIndex, error) {
	idx, err := optional(s.indexes.Get(ctx, id))
	if err != nil || idx == nil {
		return nil, err
	}
	docIDs, err := s.indexes.DocumentIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	idx.IndexedDocumentIDs = docIDs
	return idx, nil
}

// ListByCollection returns the indexes bound to a collection.
func (s *CollectionIndexService) ListByCollection(ctx context.Context, collectionID int64) ([]domain.CollectionIndex, error) {
	return s.indexes.ListByCollection(ctx, collectionID)
}

// Delete removes indexes and the sessions bound to them, returning the
// number of indexes removed. An empty list is a no-op.
func (s *CollectionIndexService) Delete(ctx context.Context, ids []string) (int64, error) {
	ids = lo.Compact(lo.Uniq(ids))
	if len(ids) == 0 {
		return 0, nil
	}

	var n int64
	err := retry(ctx, s.rec, "delete_collection_indexes", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			n, err = deleteIndexes(ctx, s.sessions, s.indexes, ids)
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// UpsertDocuments marks documents as indexed, ignoring ones already marked.
func (s *CollectionIndexService) UpsertDocuments(ctx context.Context, id string, documentIDs []int64) error {
	documentIDs = lo.Uniq(documentIDs)
	if len(documentIDs) == 0 {
		return nil
	}
	err := retry(ctx, s.rec, "upsert_documents_in_index", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.indexes.UpsertDocuments(ctx, id, documentIDs)
		})
	})
	if err != nil {
		return err
	}
	s.rec.BatchRows("upsert_documents_in_index", len(documentIDs))
	return nil
}

// RemoveDocuments unmarks documents and returns the rows removed.
func (s *CollectionIndexService) RemoveDocuments(ctx context.Context, id string, documentIDs []int64) (int64, error) {
	documentIDs = lo.Uniq(documentIDs)
	if len(documentIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := retry(ctx, s.rec, "remove_documents_from_index", func() error {
		var err error
		n, err = s.indexes.RemoveDocuments(ctx, id, documentIDs)
		return err
	})
	return n, err
}

// SyncStatus compares an index's documents with its collection's members.
func (s *CollectionIndexService) SyncStatus(ctx context.Context, id string) (*domain.IndexSyncStatus, error) {
	idx, err := s.indexes.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.docs.ListByCollection(ctx, idx.CollectionID)
	if err != nil {
		return nil, err
	}
	indexed, err := s.indexes.DocumentIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	memberIDs := lo.Map(members, func(d domain.Document, _ int) int64 { return d.ID })
	return &domain.IndexSyncStatus{
		IndexID: id,
		ToIndex: lo.Filter(members, func(d domain.Document, _ int) bool {
			return !lo.Contains(indexed, d.ID)
		}),
		ToDelete: lo.Without(indexed, memberIDs...),
		All:      members,
	}, nil
}
