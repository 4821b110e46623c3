package sqlite

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// ==================== Index Profile Store ====================

// indexProfileStore implements driven.IndexProfileStore.
type indexProfileStore struct {
	store *Store
}

var _ driven.IndexProfileStore = (*indexProfileStore)(nil)

type indexProfileRow struct {
	ID                 int64  `db:"id"`
	Name               string `db:"name"`
	SplittingID        int64  `db:"splitting_id"`
	EmbeddingsClientID int64  `db:"embeddings_client_id"`
	EmbeddingsConfigID int64  `db:"embeddings_config_id"`
	VectorDbClientID   int64  `db:"vector_db_client_id"`
	VectorDbConfigID   int64  `db:"vector_db_config_id"`
}

func (r indexProfileRow) toDomain() domain.IndexProfile {
	return domain.IndexProfile(r)
}

func selectIndexProfiles() sq.SelectBuilder {
	return sq.Select("id", "name", "splitting_id", "embeddings_client_id",
		"embeddings_config_id", "vector_db_client_id", "vector_db_config_id").
		From("index_profiles")
}

// Insert stores a profile and sets p.ID.
func (s *indexProfileStore) Insert(ctx context.Context, p *domain.IndexProfile) error {
	_, id, err := s.store.exec(ctx, sq.Insert("index_profiles").
		Columns("name", "splitting_id", "embeddings_client_id",
			"embeddings_config_id", "vector_db_client_id", "vector_db_config_id").
		Values(p.Name, p.SplittingID, p.EmbeddingsClientID,
			p.EmbeddingsConfigID, p.VectorDbClientID, p.VectorDbConfigID))
	if err != nil {
		return mapError("create", "index_profile", "name="+p.Name, err)
	}
	p.ID = id
	return nil
}

// Get retrieves a profile by id.
func (s *indexProfileStore) Get(ctx context.Context, id int64) (*domain.IndexProfile, error) {
	var row indexProfileRow
	if err := s.store.get(ctx, &row, selectIndexProfiles().Where(sq.Eq{"id": id})); err != nil {
		return nil, mapError("get", "index_profile", fmt.Sprintf("id=%d", id), err)
	}
	p := row.toDomain()
	return &p, nil
}

// List returns all profiles.
func (s *indexProfileStore) List(ctx context.Context) ([]domain.IndexProfile, error) {
	var rows []indexProfileRow
	if err := s.store.selectAll(ctx, &rows, selectIndexProfiles().OrderBy("id")); err != nil {
		return nil, mapError("list", "index_profile", "", err)
	}
	return lo.Map(rows, func(r indexProfileRow, _ int) domain.IndexProfile { return r.toDomain() }), nil
}

// ==================== Collection Index Store ====================

// collectionIndexStore implements driven.CollectionIndexStore.
type collectionIndexStore struct {
	store *Store
}

var _ driven.CollectionIndexStore = (*collectionIndexStore)(nil)

type collectionIndexRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	CollectionID   int64  `db:"collection_id"`
	IndexProfileID int64  `db:"index_profile_id"`
}

func (r collectionIndexRow) toDomain() domain.CollectionIndex {
	return domain.CollectionIndex{
		ID:             r.ID,
		Name:           r.Name,
		CollectionID:   r.CollectionID,
		IndexProfileID: r.IndexProfileID,
	}
}

func selectCollectionIndexes() sq.SelectBuilder {
	return sq.Select("id", "name", "collection_id", "index_profile_id").From("collection_indexes")
}

// Insert stores an index under its caller-assigned id.
func (s *collectionIndexStore) Insert(ctx context.Context, idx *domain.CollectionIndex) error {
	_, _, err := s.store.exec(ctx, sq.Insert("collection_indexes").
		Columns("id", "name", "collection_id", "index_profile_id").
		Values(idx.ID, idx.Name, idx.CollectionID, idx.IndexProfileID))
	if err != nil {
		return mapError("create", "collection_index", "id="+idx.ID, err)
	}
	return nil
}

// Get retrieves an index by id, without its indexed documents.
func (s *collectionIndexStore) Get(ctx context.Context, id string) (*domain.CollectionIndex, error) {
	var row collectionIndexRow
	if err := s.store.get(ctx, &row, selectCollectionIndexes().Where(sq.Eq{"id": id})); err != nil {
		return nil, mapError("get", "collection_index", "id="+id, err)
	}
	idx := row.toDomain()
	return &idx, nil
}

// ListByCollection returns the indexes bound to a collection.
func (s *collectionIndexStore) ListByCollection(ctx context.Context, collectionID int64) ([]domain.CollectionIndex, error) {
	var rows []collectionIndexRow
	err := s.store.selectAll(ctx, &rows, selectCollectionIndexes().
		Where(sq.Eq{"collection_id": collectionID}).
		OrderBy("name", "id"))
	if err != nil {
		return nil, mapError("list", "collection_index", fmt.Sprintf("collection_id=%d", collectionID), err)
	}
	return lo.Map(rows, func(r collectionIndexRow, _ int) domain.CollectionIndex { return r.toDomain() }), nil
}

// Delete removes the indexed-document rows, then the indexes, atomically.
func (s *collectionIndexStore) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	key := "ids=" + strings.Join(ids, ",")

	var removed int64
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if _, _, err := s.store.exec(ctx, sq.Delete("collection_index_documents").
			Where(sq.Eq{"index_id": ids})); err != nil {
			return mapError("delete", "collection_index_document", key, err)
		}
		n, _, err := s.store.exec(ctx, sq.Delete("collection_indexes").Where(sq.Eq{"id": ids}))
		if err != nil {
			return mapError("delete", "collection_index", key, err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// UpsertDocuments records documents as indexed, ignoring existing rows.
func (s *collectionIndexStore) UpsertDocuments(ctx context.Context, indexID string, documentIDs []int64) error {
	for _, batch := range lo.Chunk(lo.Uniq(documentIDs), insertBatchSize) {
		q := sq.Insert("collection_index_documents").
			Columns("index_id", "document_id").
			Suffix("ON CONFLICT(index_id, document_id) DO NOTHING")
		for _, docID := range batch {
			q = q.Values(indexID, docID)
		}
		if _, _, err := s.store.exec(ctx, q); err != nil {
			return mapError("upsert_documents", "collection_index", "id="+indexID, err)
		}
	}
	return nil
}

// RemoveDocuments deletes the given indexed-document rows.
func (s *collectionIndexStore) RemoveDocuments(ctx context.Context, indexID string, documentIDs []int64) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, nil
	}
	affected, _, err := s.store.exec(ctx, sq.Delete("collection_index_documents").
		Where(sq.Eq{"index_id": indexID, "document_id": documentIDs}))
	if err != nil {
		return 0, mapError("remove_documents", "collection_index", "id="+indexID, err)
	}
	return affected, nil
}

// DocumentIDs returns the indexed document ids in ascending order.
func (s *collectionIndexStore) DocumentIDs(ctx context.Context, indexID string) ([]int64, error) {
	ids := []int64{}
	err := s.store.selectAll(ctx, &ids, sq.Select("document_id").
		From("collection_index_documents").
		Where(sq.Eq{"index_id": indexID}).
		OrderBy("document_id"))
	if err != nil {
		return nil, mapError("document_ids", "collection_index", "id="+indexID, err)
	}
	return ids, nil
}
