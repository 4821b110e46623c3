package sqlite

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// statTables lists the tables reported by Stats, in schema order.
var statTables = []string{
	"documents",
	"splittings",
	"document_chunks",
	"embeddings_clients",
	"embeddings_configs",
	"vector_db_clients",
	"vector_db_configs",
	"embedding_vectors",
	"collections",
	"collection_documents",
	"index_profiles",
	"collection_indexes",
	"collection_index_documents",
	"sessions",
}

// StatTables returns the table names Stats reports on.
func StatTables() []string {
	return append([]string(nil), statTables...)
}

// Stats returns the row count of every table.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(statTables))
	for _, table := range statTables {
		var n int64
		if err := s.get(ctx, &n, sq.Select("COUNT(*)").From(table)); err != nil {
			return nil, mapError("stats", table, "", err)
		}
		out[table] = n
	}
	return out, nil
}
