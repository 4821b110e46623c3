package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

type documentRow struct {
	ID        int64     `db:"id"`
	Filename  string    `db:"filename"`
	Path      string    `db:"path"`
	MD5Hash   string    `db:"md5_hash"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:        r.ID,
		Filename:  r.Filename,
		Path:      r.Path,
		MD5Hash:   r.MD5Hash,
		UpdatedAt: r.UpdatedAt,
	}
}

func selectDocuments() sq.SelectBuilder {
	return sq.Select("d.id", "d.filename", "d.path", "d.md5_hash", "d.updated_at").From("documents d")
}

// Insert stores a new document and sets doc.ID.
func (s *documentStore) Insert(ctx context.Context, doc *domain.Document) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	_, id, err := s.store.exec(ctx, sq.Insert("documents").
		Columns("filename", "path", "md5_hash", "updated_at").
		Values(doc.Filename, doc.Path, doc.MD5Hash, doc.UpdatedAt))
	if err != nil {
		return mapError("insert", "document", "hash="+doc.MD5Hash, err)
	}
	doc.ID = id
	return nil
}

// GetByHash looks a document up by content hash.
func (s *documentStore) GetByHash(ctx context.Context, md5Hash string) (*domain.Document, error) {
	return s.getOne(ctx, sq.Eq{"d.md5_hash": md5Hash}, "hash="+md5Hash)
}

// Get retrieves a document by id.
func (s *documentStore) Get(ctx context.Context, id int64) (*domain.Document, error) {
	return s.getOne(ctx, sq.Eq{"d.id": id}, fmt.Sprintf("id=%d", id))
}

func (s *documentStore) getOne(ctx context.Context, where sq.Eq, key string) (*domain.Document, error) {
	var row documentRow
	if err := s.store.get(ctx, &row, selectDocuments().Where(where)); err != nil {
		return nil, mapError("get", "document", key, err)
	}
	doc := row.toDomain()
	return &doc, nil
}

// List returns all documents.
func (s *documentStore) List(ctx context.Context) ([]domain.Document, error) {
	return s.list(ctx, selectDocuments(), "")
}

// ListByIDs returns the existing documents among ids.
func (s *documentStore) ListByIDs(ctx context.Context, ids []int64) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	return s.list(ctx, selectDocuments().Where(sq.Eq{"d.id": ids}), "")
}

// ListByCollection returns the member documents of a collection.
func (s *documentStore) ListByCollection(ctx context.Context, collectionID int64) ([]domain.Document, error) {
	q := selectDocuments().
		Join("collection_documents cd ON cd.document_id = d.id").
		Where(sq.Eq{"cd.collection_id": collectionID})
	return s.list(ctx, q, fmt.Sprintf("collection_id=%d", collectionID))
}

func (s *documentStore) list(ctx context.Context, q sq.SelectBuilder, key string) ([]domain.Document, error) {
	var rows []documentRow
	if err := s.store.selectAll(ctx, &rows, q.OrderBy("d.id")); err != nil {
		return nil, mapError("list", "document", key, err)
	}
	docs := make([]domain.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.toDomain())
	}
	return docs, nil
}
