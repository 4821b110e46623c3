package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure EmbeddingService implements the interface.
var _ driving.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService caches vectors keyed by (embeddings config, chunk hash).
type EmbeddingService struct {
	tx      driven.Transactor
	vectors driven.EmbeddingVectorStore
	chunks  driving.ChunkService
	rec     driven.Recorder
}

// NewEmbeddingService creates a new embedding service. rec may be nil.
func NewEmbeddingService(
	tx driven.Transactor,
	vectors driven.EmbeddingVectorStore,
	chunks driving.ChunkService,
	rec driven.Recorder,
) *EmbeddingService {
	return &EmbeddingService{tx: tx, vectors: vectors, chunks: chunks, rec: recorderOrNoop(rec)}
}

// Get returns the cached vector, or nil if none is stored.
func (s *EmbeddingService) Get(ctx context.Context, configID int64, md5Hash string) (*domain.EmbeddingVector, error) {
	if err := codec.ValidateHash(md5Hash); err != nil {
		return nil, err
	}

	payload, err := s.vectors.Get(ctx, configID, md5Hash)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	vec, err := codec.DecodeVector(payload)
	if err != nil {
		return nil, domain.E("get", "embedding_vector", vectorKey(configID, md5Hash), domain.ErrFormat, err)
	}
	return &domain.EmbeddingVector{EmbeddingsConfigID: configID, MD5Hash: md5Hash, Vector: vec}, nil
}

// Upsert stores or replaces one vector.
func (s *EmbeddingService) Upsert(ctx context.Context, in domain.EmbeddingVectorInput) error {
	_, err := s.UpsertBatch(ctx, []domain.EmbeddingVectorInput{in})
	return err
}

// UpsertBatch stores or replaces many vectors in one transaction and
// returns the rows written. A pre-encoded payload wins over Vector.
// Nothing is written if any entry is invalid.
func (s *EmbeddingService) UpsertBatch(ctx context.Context, entries []domain.EmbeddingVectorInput) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	payloads := make([][]byte, len(entries))
	for i, in := range entries {
		payload, err := encodeEntry(in)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		payloads[i] = payload
	}

	var total int64
	err := retry(ctx, s.rec, "upsert_vectors", func() error {
		total = 0
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			for i, in := range entries {
				n, err := s.vectors.Upsert(ctx, in.EmbeddingsConfigID, in.MD5Hash, payloads[i])
				if err != nil {
					return err
				}
				total += n
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	s.rec.BatchRows("upsert_vectors", len(entries))
	return total, nil
}

// Missing returns the distinct chunk hashes of the documents that have no
// vector stored under configID.
func (s *EmbeddingService) Missing(
	ctx context.Context,
	configID int64,
	documentIDs []int64,
	splitting domain.SplittingRef,
) ([]string, error) {
	hashes, err := s.chunks.ListHashes(ctx, documentIDs, splitting)
	if err != nil {
		return nil, err
	}
	hashes = lo.Uniq(hashes)
	if len(hashes) == 0 {
		return []string{}, nil
	}

	existing, err := s.vectors.ExistingHashes(ctx, configID, hashes)
	if err != nil {
		return nil, err
	}
	return lo.Without(hashes, existing...), nil
}

func encodeEntry(in domain.EmbeddingVectorInput) ([]byte, error) {
	key := vectorKey(in.EmbeddingsConfigID, in.MD5Hash)
	if in.EmbeddingsConfigID <= 0 {
		return nil, domain.E("upsert", "embedding_vector", key, domain.ErrInvalidInput,
			errors.New("embeddings_config_id must be positive"))
	}
	if err := codec.ValidateHash(in.MD5Hash); err != nil {
		return nil, err
	}
	if in.Encoded != nil {
		if _, err := codec.DecodeVector(in.Encoded); err != nil {
			return nil, err
		}
		return in.Encoded, nil
	}
	if len(in.Vector) == 0 {
		return nil, domain.E("upsert", "embedding_vector", key, domain.ErrInvalidInput,
			errors.New("vector is empty"))
	}
	return codec.EncodeVector(in.Vector), nil
}

func vectorKey(configID int64, md5Hash string) string {
	return fmt.Sprintf("config=%d,hash=%s", configID, md5Hash)
}
