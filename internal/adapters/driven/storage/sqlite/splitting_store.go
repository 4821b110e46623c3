package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// splittingStore implements driven.SplittingStore.
type splittingStore struct {
	store *Store
}

var _ driven.SplittingStore = (*splittingStore)(nil)

type splittingRow struct {
	ID           int64 `db:"id"`
	ChunkSize    int   `db:"chunk_size"`
	ChunkOverlap int   `db:"chunk_overlap"`
}

func (r splittingRow) toDomain() domain.Splitting {
	return domain.Splitting{ID: r.ID, ChunkSize: r.ChunkSize, ChunkOverlap: r.ChunkOverlap}
}

func selectSplittings() sq.SelectBuilder {
	return sq.Select("id", "chunk_size", "chunk_overlap").From("splittings")
}

// Insert creates a strategy. The UNIQUE(chunk_size, chunk_overlap)
// constraint reports a taken pair as domain.ErrAlreadyExists.
func (s *splittingStore) Insert(ctx context.Context, cfg domain.SplittingConfig) (int64, error) {
	_, id, err := s.store.exec(ctx, sq.Insert("splittings").
		Columns("chunk_size", "chunk_overlap").
		Values(cfg.ChunkSize, cfg.ChunkOverlap))
	if err != nil {
		return 0, mapError("insert", "splitting", cfg.Key(), err)
	}
	return id, nil
}

// FindByConfig looks a strategy up by its natural key.
func (s *splittingStore) FindByConfig(ctx context.Context, cfg domain.SplittingConfig) (*domain.Splitting, error) {
	var row splittingRow
	err := s.store.get(ctx, &row, selectSplittings().
		Where(sq.Eq{"chunk_size": cfg.ChunkSize, "chunk_overlap": cfg.ChunkOverlap}))
	if err != nil {
		return nil, mapError("find", "splitting", cfg.Key(), err)
	}
	sp := row.toDomain()
	return &sp, nil
}

// Get retrieves a strategy by id.
func (s *splittingStore) Get(ctx context.Context, id int64) (*domain.Splitting, error) {
	var row splittingRow
	if err := s.store.get(ctx, &row, selectSplittings().Where(sq.Eq{"id": id})); err != nil {
		return nil, mapError("get", "splitting", fmt.Sprintf("id=%d", id), err)
	}
	sp := row.toDomain()
	return &sp, nil
}

// List returns all strategies.
func (s *splittingStore) List(ctx context.Context) ([]domain.Splitting, error) {
	var rows []splittingRow
	if err := s.store.selectAll(ctx, &rows, selectSplittings().OrderBy("id")); err != nil {
		return nil, mapError("list", "splitting", "", err)
	}
	out := make([]domain.Splitting, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
