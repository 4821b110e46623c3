package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// collectionStore implements driven.CollectionStore.
type collectionStore struct {
	store *Store
}

var _ driven.CollectionStore = (*collectionStore)(nil)

type collectionRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func collectionKey(id int64) string {
	return fmt.Sprintf("id=%d", id)
}

// Insert creates a collection and returns its id.
func (s *collectionStore) Insert(ctx context.Context, name string) (int64, error) {
	_, id, err := s.store.exec(ctx, sq.Insert("collections").Columns("name").Values(name))
	if err != nil {
		return 0, mapError("create", "collection", "name="+name, err)
	}
	return id, nil
}

// Get retrieves a collection by id.
func (s *collectionStore) Get(ctx context.Context, id int64) (*domain.Collection, error) {
	var row collectionRow
	err := s.store.get(ctx, &row, sq.Select("id", "name").From("collections").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, mapError("get", "collection", collectionKey(id), err)
	}
	return &domain.Collection{ID: row.ID, Name: row.Name}, nil
}

// List returns all collections.
func (s *collectionStore) List(ctx context.Context) ([]domain.Collection, error) {
	var rows []collectionRow
	if err := s.store.selectAll(ctx, &rows, sq.Select("id", "name").From("collections").OrderBy("id")); err != nil {
		return nil, mapError("list", "collection", "", err)
	}
	return lo.Map(rows, func(r collectionRow, _ int) domain.Collection {
		return domain.Collection{ID: r.ID, Name: r.Name}
	}), nil
}

// Rename changes a collection's name.
func (s *collectionStore) Rename(ctx context.Context, id int64, name string) error {
	affected, _, err := s.store.exec(ctx, sq.Update("collections").Set("name", name).Where(sq.Eq{"id": id}))
	if err != nil {
		return mapError("rename", "collection", collectionKey(id), err)
	}
	if affected == 0 {
		return domain.E("rename", "collection", collectionKey(id), domain.ErrNotFound, nil)
	}
	return nil
}

// Delete removes the collection row only.
func (s *collectionStore) Delete(ctx context.Context, id int64) (int64, error) {
	affected, _, err := s.store.exec(ctx, sq.Delete("collections").Where(sq.Eq{"id": id}))
	if err != nil {
		return 0, mapError("delete", "collection", collectionKey(id), err)
	}
	return affected, nil
}

// AddDocuments inserts memberships, ignoring ones that already exist.
func (s *collectionStore) AddDocuments(ctx context.Context, collectionID int64, documentIDs []int64) error {
	for _, batch := range lo.Chunk(lo.Uniq(documentIDs), insertBatchSize) {
		q := sq.Insert("collection_documents").
			Columns("collection_id", "document_id").
			Suffix("ON CONFLICT(collection_id, document_id) DO NOTHING")
		for _, docID := range batch {
			q = q.Values(collectionID, docID)
		}
		if _, _, err := s.store.exec(ctx, q); err != nil {
			return mapError("add_documents", "collection", collectionKey(collectionID), err)
		}
	}
	return nil
}

// RemoveDocuments deletes the given memberships.
func (s *collectionStore) RemoveDocuments(ctx context.Context, collectionID int64, documentIDs []int64) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, nil
	}
	affected, _, err := s.store.exec(ctx, sq.Delete("collection_documents").
		Where(sq.Eq{"collection_id": collectionID, "document_id": documentIDs}))
	if err != nil {
		return 0, mapError("remove_documents", "collection", collectionKey(collectionID), err)
	}
	return affected, nil
}

// ClearDocuments deletes every membership of the collection.
func (s *collectionStore) ClearDocuments(ctx context.Context, collectionID int64) (int64, error) {
	affected, _, err := s.store.exec(ctx, sq.Delete("collection_documents").
		Where(sq.Eq{"collection_id": collectionID}))
	if err != nil {
		return 0, mapError("clear_documents", "collection", collectionKey(collectionID), err)
	}
	return affected, nil
}

// DocumentIDs returns the member document ids in ascending order.
func (s *collectionStore) DocumentIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	ids := []int64{}
	err := s.store.selectAll(ctx, &ids, sq.Select("document_id").
		From("collection_documents").
		Where(sq.Eq{"collection_id": collectionID}).
		OrderBy("document_id"))
	if err != nil {
		return nil, mapError("document_ids", "collection", collectionKey(collectionID), err)
	}
	return ids, nil
}
