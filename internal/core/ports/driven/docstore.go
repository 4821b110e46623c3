package driven

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// SplittingStore persists splitting strategies, unique on (size, overlap).
type SplittingStore interface {
	// Insert creates a strategy and returns its id.
	// Returns domain.ErrAlreadyExists when the pair is taken.
	Insert(ctx context.Context, cfg domain.SplittingConfig) (int64, error)

	// FindByConfig looks a strategy up by its (size, overlap) pair.
	FindByConfig(ctx context.Context, cfg domain.SplittingConfig) (*domain.Splitting, error)

	// Get retrieves a strategy by id.
	Get(ctx context.Context, id int64) (*domain.Splitting, error)

	// List returns all strategies ordered by id.
	List(ctx context.Context) ([]domain.Splitting, error)
}

// DocumentStore persists documents, unique on content hash.
type DocumentStore interface {
	// Insert stores a new document and sets doc.ID.
	// Returns domain.ErrAlreadyExists when the hash is taken.
	Insert(ctx context.Context, doc *domain.Document) error

	// GetByHash looks a document up by content hash.
	GetByHash(ctx context.Context, md5Hash string) (*domain.Document, error)

	// Get retrieves a document by id.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// List returns all documents ordered by id.
	List(ctx context.Context) ([]domain.Document, error)

	// ListByIDs returns the documents among ids that exist, ordered by id.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Document, error)

	// ListByCollection returns the member documents of a collection.
	ListByCollection(ctx context.Context, collectionID int64) ([]domain.Document, error)
}

// ChunkStore persists document chunks.
type ChunkStore interface {
	// InsertChunks stores chunks. Callers wrap it in a transaction when
	// the batch must be atomic. Returns domain.ErrAlreadyExists when a
	// (document, splitting, sequence) key is taken.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// List returns the chunks of one document under one strategy by sequence.
	List(ctx context.Context, documentID, splittingID int64) ([]domain.Chunk, error)

	// ListHashes returns chunk hashes for the documents under one strategy,
	// ordered by (document, sequence).
	ListHashes(ctx context.Context, documentIDs []int64, splittingID int64) ([]string, error)
}

// EmbeddingVectorStore persists encoded vectors keyed by (config, hash).
type EmbeddingVectorStore interface {
	// Get returns the encoded payload for a key.
	Get(ctx context.Context, configID int64, md5Hash string) ([]byte, error)

	// Upsert inserts or fully replaces the payload for a key and returns
	// the number of rows affected.
	Upsert(ctx context.Context, configID int64, md5Hash string, encoded []byte) (int64, error)

	// ExistingHashes returns the subset of hashes that have a vector under configID.
	ExistingHashes(ctx context.Context, configID int64, hashes []string) ([]string, error)
}
