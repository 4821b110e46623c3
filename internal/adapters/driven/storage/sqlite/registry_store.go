package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// registrySchema names the table and columns backing one registry kind.
// All four registries share (id, name, <tag>, <json>).
type registrySchema struct {
	table   string
	tagCol  string
	jsonCol string
}

var registrySchemas = map[domain.RegistryKind]registrySchema{
	domain.RegistryEmbeddingsClients: {table: "embeddings_clients", tagCol: "type", jsonCol: "info"},
	domain.RegistryEmbeddingsConfigs: {table: "embeddings_configs", tagCol: "client_type", jsonCol: "meta"},
	domain.RegistryVectorDbClients:   {table: "vector_db_clients", tagCol: "type", jsonCol: "info"},
	domain.RegistryVectorDbConfigs:   {table: "vector_db_configs", tagCol: "client_type", jsonCol: "meta"},
}

// registryStore implements driven.RegistryStore for any registry kind.
type registryStore struct {
	store  *Store
	kind   domain.RegistryKind
	schema registrySchema
}

var _ driven.RegistryStore = (*registryStore)(nil)

type registryRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Tag  string `db:"tag"`
	Meta string `db:"meta"`
}

// Kind reports the registry kind.
func (s *registryStore) Kind() domain.RegistryKind {
	return s.kind
}

func (s *registryStore) selectEntries() sq.SelectBuilder {
	return sq.Select("id", "name", s.schema.tagCol+" AS tag", s.schema.jsonCol+" AS meta").
		From(s.schema.table)
}

// Insert creates an entry and returns its id.
func (s *registryStore) Insert(ctx context.Context, in domain.RegistryInput) (int64, error) {
	meta, err := marshalMetadata(in.Meta)
	if err != nil {
		return 0, domain.E("create", s.kind.String(), "", domain.ErrInvalidInput, err)
	}
	_, id, err := s.store.exec(ctx, sq.Insert(s.schema.table).
		Columns("name", s.schema.tagCol, s.schema.jsonCol).
		Values(in.Name, in.Type, meta))
	if err != nil {
		return 0, mapError("create", s.kind.String(), "name="+in.Name, err)
	}
	return id, nil
}

// Upsert creates or replaces the entry with the given id.
func (s *registryStore) Upsert(ctx context.Context, id int64, in domain.RegistryInput) error {
	key := fmt.Sprintf("id=%d", id)
	meta, err := marshalMetadata(in.Meta)
	if err != nil {
		return domain.E("upsert", s.kind.String(), key, domain.ErrInvalidInput, err)
	}
	_, _, err = s.store.exec(ctx, sq.Insert(s.schema.table).
		Columns("id", "name", s.schema.tagCol, s.schema.jsonCol).
		Values(id, in.Name, in.Type, meta).
		Suffix(fmt.Sprintf("ON CONFLICT(id) DO UPDATE SET name = excluded.name, %[1]s = excluded.%[1]s, %[2]s = excluded.%[2]s",
			s.schema.tagCol, s.schema.jsonCol)))
	if err != nil {
		return mapError("upsert", s.kind.String(), key, err)
	}
	return nil
}

// Get retrieves an entry by id.
func (s *registryStore) Get(ctx context.Context, id int64) (*domain.RegistryEntry, error) {
	key := fmt.Sprintf("id=%d", id)
	var row registryRow
	if err := s.store.get(ctx, &row, s.selectEntries().Where(sq.Eq{"id": id})); err != nil {
		return nil, mapError("get", s.kind.String(), key, err)
	}
	entry, err := s.toDomain(row)
	if err != nil {
		return nil, domain.E("get", s.kind.String(), key, domain.ErrFormat, err)
	}
	return entry, nil
}

// List returns all entries.
func (s *registryStore) List(ctx context.Context) ([]domain.RegistryEntry, error) {
	return s.list(ctx, s.selectEntries(), "")
}

// ListByType returns entries carrying the given tag.
func (s *registryStore) ListByType(ctx context.Context, tag string) ([]domain.RegistryEntry, error) {
	return s.list(ctx, s.selectEntries().Where(sq.Eq{s.schema.tagCol: tag}), s.schema.tagCol+"="+tag)
}

func (s *registryStore) list(ctx context.Context, q sq.SelectBuilder, key string) ([]domain.RegistryEntry, error) {
	var rows []registryRow
	if err := s.store.selectAll(ctx, &rows, q.OrderBy("id")); err != nil {
		return nil, mapError("list", s.kind.String(), key, err)
	}
	entries := make([]domain.RegistryEntry, 0, len(rows))
	for _, r := range rows {
		entry, err := s.toDomain(r)
		if err != nil {
			return nil, domain.E("list", s.kind.String(), fmt.Sprintf("id=%d", r.ID), domain.ErrFormat, err)
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *registryStore) toDomain(r registryRow) (*domain.RegistryEntry, error) {
	meta, err := unmarshalMetadata(r.Meta)
	if err != nil {
		return nil, err
	}
	return &domain.RegistryEntry{
		Kind: s.kind,
		ID:   r.ID,
		Name: r.Name,
		Type: r.Tag,
		Meta: meta,
	}, nil
}
