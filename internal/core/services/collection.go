package services

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages collections and their document membership.
// Deleting a collection removes its memberships, then the sessions and
// indexes bound to it, then the collection itself, all in one transaction.
type CollectionService struct {
	tx          driven.Transactor
	collections driven.CollectionStore
	indexes     driven.CollectionIndexStore
	sessions    driven.SessionStore
	rec         driven.Recorder
}

// NewCollectionService creates a new collection service. rec may be nil.
func NewCollectionService(
	tx driven.Transactor,
	collections driven.CollectionStore,
	indexes driven.CollectionIndexStore,
	sessions driven.SessionStore,
	rec driven.Recorder,
) *CollectionService {
	return &CollectionService{
		tx:          tx,
		collections: collections,
		indexes:     indexes,
		sessions:    sessions,
		rec:         recorderOrNoop(rec),
	}
}

// Create adds a collection holding the given documents.
func (s *CollectionService) Create(ctx context.Context, name string, documentIDs []int64) (*domain.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("create", "collection", "name is required")
	}

	var col *domain.Collection
	err := retry(ctx, s.rec, "create_collection", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			id, err := s.collections.Insert(ctx, name)
			if err != nil {
				return err
			}
			if err := s.collections.AddDocuments(ctx, id, lo.Uniq(documentIDs)); err != nil {
				return err
			}
			col = &domain.Collection{ID: id, Name: name}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// Get retrieves a collection by id. Returns nil if absent.
func (s *CollectionService) Get(ctx context.Context, id int64) (*domain.Collection, error) {
	return optional(s.collections.Get(ctx, id))
}

// List returns all collections.
func (s *CollectionService) List(ctx context.Context) ([]domain.Collection, error) {
	return s.collections.List(ctx)
}

// ListWithIndexes returns every collection with the indexes bound to it.
func (s *CollectionService) ListWithIndexes(ctx context.Context) ([]domain.CollectionWithIndexes, error) {
	cols, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CollectionWithIndexes, 0, len(cols))
	for _, c := range cols {
		idx, err := s.indexes.ListByCollection(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CollectionWithIndexes{Collection: c, Indexes: idx})
	}
	return out, nil
}

// Rename changes a collection's name.
func (s *CollectionService) Rename(ctx context.Context, id int64, name string) (*domain.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("rename", "collection", "name is required")
	}
	if err := s.collections.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return &domain.Collection{ID: id, Name: name}, nil
}

// Delete removes a collection and everything bound to it. A missing
// collection yields NotFound and leaves the store unchanged.
func (s *CollectionService) Delete(ctx context.Context, id int64) error {
	return retry(ctx, s.rec, "delete_collection", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := s.collections.ClearDocuments(ctx, id); err != nil {
				return err
			}

			idx, err := s.indexes.ListByCollection(ctx, id)
			if err != nil {
				return err
			}
			ids := lo.Map(idx, func(ci domain.CollectionIndex, _ int) string { return ci.ID })
			if _, err := deleteIndexes(ctx, s.sessions, s.indexes, ids); err != nil {
				return err
			}

			n, err := s.collections.Delete(ctx, id)
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.E("delete", "collection", idKey(id), domain.ErrNotFound, nil)
			}
			logger.Debug("deleted collection %d with %d indexes", id, len(ids))
			return nil
		})
	})
}

// AddDocuments adds documents to a collection, ignoring existing members.
func (s *CollectionService) AddDocuments(ctx context.Context, id int64, documentIDs []int64) error {
	documentIDs = lo.Uniq(documentIDs)
	if len(documentIDs) == 0 {
		return nil
	}
	err := retry(ctx, s.rec, "add_documents_to_collection", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.collections.AddDocuments(ctx, id, documentIDs)
		})
	})
	if err != nil {
		return err
	}
	s.rec.BatchRows("add_documents_to_collection", len(documentIDs))
	return nil
}

// RemoveDocuments removes documents from a collection and returns the
// number of memberships removed.
func (s *CollectionService) RemoveDocuments(ctx context.Context, id int64, documentIDs []int64) (int64, error) {
	documentIDs = lo.Uniq(documentIDs)
	if len(documentIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := retry(ctx, s.rec, "remove_documents_from_collection", func() error {
		var err error
		n, err = s.collections.RemoveDocuments(ctx, id, documentIDs)
		return err
	})
	return n, err
}

// ClearDocuments removes every membership of a collection.
func (s *CollectionService) ClearDocuments(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := retry(ctx, s.rec, "clear_collection_documents", func() error {
		var err error
		n, err = s.collections.ClearDocuments(ctx, id)
		return err
	})
	return n, err
}

// deleteIndexes removes the sessions bound to ids and then the indexes.
// It must run inside a transaction.
func deleteIndexes(
	ctx context.Context,
	sessions driven.SessionStore,
	indexes driven.CollectionIndexStore,
	ids []string,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if _, err := sessions.DeleteByIndexIDs(ctx, ids); err != nil {
		return 0, err
	}
	return indexes.Delete(ctx, ids)
}
