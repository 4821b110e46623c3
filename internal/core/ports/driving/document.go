package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// SplittingService resolves splitting strategies to stable ids.
type SplittingService interface {
	// GetOrCreate returns the strategy for (size, overlap), creating it
	// when absent. Concurrent callers always observe the same id.
	GetOrCreate(ctx context.Context, chunkSize, chunkOverlap int) (*domain.Splitting, error)

	// Resolve turns an id-or-config reference into a strategy id.
	Resolve(ctx context.Context, ref domain.SplittingRef) (int64, error)

	// Get retrieves a strategy by id.
	Get(ctx context.Context, id int64) (*domain.Splitting, error)

	// List returns all strategies.
	List(ctx context.Context) ([]domain.Splitting, error)
}

// DocumentService ingests documents by content hash.
type DocumentService interface {
	// GetOrCreate hashes the identity's content and returns the existing
	// document for that hash, or stages the content and creates one.
	// The filename of a later duplicate is never applied.
	GetOrCreate(ctx context.Context, identity domain.DocumentIdentity) (*domain.Document, error)

	// AddMany resolves each identity in order. Each resolution is atomic;
	// the list as a whole is not.
	AddMany(ctx context.Context, identities []domain.DocumentIdentity) ([]domain.Document, error)

	// Get retrieves a document by id.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// ListByCollection returns the documents that belong to a collection.
	ListByCollection(ctx context.Context, collectionID int64) ([]domain.Document, error)

	// Content returns the staged bytes of a document.
	Content(ctx context.Context, id int64) ([]byte, error)
}

// ChunkService creates and reads document chunks.
type ChunkService interface {
	// Create stores chunks with sequence 0..n-1 in input order, hashing
	// each chunk's content. All chunks are written or none are.
	Create(ctx context.Context, documentID int64, splitting domain.SplittingRef,
		chunks []domain.ChunkInput) ([]domain.Chunk, error)

	// List returns a document's chunks under one strategy.
	List(ctx context.Context, documentID int64, splitting domain.SplittingRef) ([]domain.Chunk, error)

	// ListHashes returns chunk hashes for several documents under one strategy.
	ListHashes(ctx context.Context, documentIDs []int64, splitting domain.SplittingRef) ([]string, error)

	// SplitDocument reads a document's staged text, splits it by the
	// strategy and stores the result through Create.
	SplitDocument(ctx context.Context, documentID int64, splitting domain.SplittingRef) ([]domain.Chunk, error)
}

// EmbeddingService stores and reads embedding vectors.
type EmbeddingService interface {
	// Get returns the vector for (config, hash), or nil when absent.
	Get(ctx context.Context, configID int64, md5Hash string) (*domain.EmbeddingVector, error)

	// Upsert inserts or fully replaces one vector.
	Upsert(ctx context.Context, in domain.EmbeddingVectorInput) error

	// UpsertBatch applies every entry atomically and returns rows affected.
	// A single malformed entry rejects the whole batch.
	UpsertBatch(ctx context.Context, entries []domain.EmbeddingVectorInput) (int64, error)

	// Missing returns the distinct chunk hashes of the documents under the
	// strategy that have no vector for configID, in (document, sequence) order.
	Missing(ctx context.Context, configID int64, documentIDs []int64,
		splitting domain.SplittingRef) ([]string, error)
}
