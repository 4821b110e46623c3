package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

type chunkRow struct {
	DocumentID  int64  `db:"document_id"`
	SplittingID int64  `db:"splitting_id"`
	Sequence    int    `db:"sequence"`
	Content     string `db:"content"`
	Metadata    string `db:"metadata"`
	MD5Hash     string `db:"md5_hash"`
}

// InsertChunks writes chunks with multi-row inserts of insertBatchSize rows.
// It is not atomic on its own; callers wrap it in WithinTx.
func (s *chunkStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	for _, batch := range lo.Chunk(chunks, insertBatchSize) {
		q := sq.Insert("document_chunks").
			Columns("document_id", "splitting_id", "sequence", "content", "metadata", "md5_hash")
		for _, c := range batch {
			metadataJSON, err := marshalMetadata(c.Metadata)
			if err != nil {
				return domain.E("insert", "document_chunk", chunkKey(c), domain.ErrInvalidInput, err)
			}
			q = q.Values(c.DocumentID, c.SplittingID, c.Sequence, c.Content, metadataJSON, c.MD5Hash)
		}
		if _, _, err := s.store.exec(ctx, q); err != nil {
			return mapError("insert", "document_chunk", chunkKey(batch[0]), err)
		}
	}
	return nil
}

// List returns one document's chunks under one strategy, by sequence.
func (s *chunkStore) List(ctx context.Context, documentID, splittingID int64) ([]domain.Chunk, error) {
	key := fmt.Sprintf("document_id=%d,splitting_id=%d", documentID, splittingID)

	var rows []chunkRow
	err := s.store.selectAll(ctx, &rows, sq.
		Select("document_id", "splitting_id", "sequence", "content", "metadata", "md5_hash").
		From("document_chunks").
		Where(sq.Eq{"document_id": documentID, "splitting_id": splittingID}).
		OrderBy("sequence"))
	if err != nil {
		return nil, mapError("list", "document_chunk", key, err)
	}

	chunks := make([]domain.Chunk, 0, len(rows))
	for _, r := range rows {
		chunk := domain.Chunk{
			DocumentID:  r.DocumentID,
			SplittingID: r.SplittingID,
			Sequence:    r.Sequence,
			Content:     r.Content,
			MD5Hash:     r.MD5Hash,
		}
		if chunk.Metadata, err = unmarshalMetadata(r.Metadata); err != nil {
			return nil, domain.E("list", "document_chunk",
				fmt.Sprintf("%s,sequence=%d", key, r.Sequence), domain.ErrFormat, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// ListHashes returns only the chunk hashes, ordered by (document, sequence).
func (s *chunkStore) ListHashes(ctx context.Context, documentIDs []int64, splittingID int64) ([]string, error) {
	hashes := []string{}
	if len(documentIDs) == 0 {
		return hashes, nil
	}
	err := s.store.selectAll(ctx, &hashes, sq.
		Select("md5_hash").
		From("document_chunks").
		Where(sq.Eq{"document_id": documentIDs, "splitting_id": splittingID}).
		OrderBy("document_id", "sequence"))
	if err != nil {
		return nil, mapError("list_hashes", "document_chunk", fmt.Sprintf("splitting_id=%d", splittingID), err)
	}
	return hashes, nil
}

func chunkKey(c domain.Chunk) string {
	return fmt.Sprintf("document_id=%d,splitting_id=%d,sequence=%d", c.DocumentID, c.SplittingID, c.Sequence)
}

// marshalMetadata serialises a metadata map, storing nil as an empty object.
func marshalMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(b), nil
}

// unmarshalMetadata parses a stored metadata object.
func unmarshalMetadata(s string) (map[string]any, error) {
	m := map[string]any{}
	if s == "" || s == jsonNull {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return m, nil
}
