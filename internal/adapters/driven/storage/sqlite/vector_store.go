package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// vectorStore implements driven.EmbeddingVectorStore. Payloads are stored
// exactly as given; encoding is the caller's concern.
type vectorStore struct {
	store *Store
}

var _ driven.EmbeddingVectorStore = (*vectorStore)(nil)

func vectorKey(configID int64, md5Hash string) string {
	return fmt.Sprintf("embeddings_config_id=%d,hash=%s", configID, md5Hash)
}

// Get returns the stored payload for (config, hash).
func (s *vectorStore) Get(ctx context.Context, configID int64, md5Hash string) ([]byte, error) {
	var payload []byte
	err := s.store.get(ctx, &payload, sq.
		Select("vector").
		From("embedding_vectors").
		Where(sq.Eq{"embeddings_config_id": configID, "md5_hash": md5Hash}))
	if err != nil {
		return nil, mapError("get", "embedding_vector", vectorKey(configID, md5Hash), err)
	}
	return payload, nil
}

// Upsert inserts the payload or replaces it entirely.
func (s *vectorStore) Upsert(ctx context.Context, configID int64, md5Hash string, encoded []byte) (int64, error) {
	affected, _, err := s.store.exec(ctx, sq.
		Insert("embedding_vectors").
		Columns("embeddings_config_id", "md5_hash", "vector").
		Values(configID, md5Hash, encoded).
		Suffix("ON CONFLICT(embeddings_config_id, md5_hash) DO UPDATE SET vector = excluded.vector"))
	if err != nil {
		return 0, mapError("upsert", "embedding_vector", vectorKey(configID, md5Hash), err)
	}
	return affected, nil
}

// ExistingHashes returns which of hashes already have a vector under configID.
func (s *vectorStore) ExistingHashes(ctx context.Context, configID int64, hashes []string) ([]string, error) {
	found := []string{}
	for _, batch := range lo.Chunk(lo.Uniq(hashes), insertBatchSize) {
		var part []string
		err := s.store.selectAll(ctx, &part, sq.
			Select("md5_hash").
			From("embedding_vectors").
			Where(sq.Eq{"embeddings_config_id": configID, "md5_hash": batch}))
		if err != nil {
			return nil, mapError("existing_hashes", "embedding_vector",
				fmt.Sprintf("embeddings_config_id=%d", configID), err)
		}
		found = append(found, part...)
	}
	return found, nil
}
