package services

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/custodia-labs/docgraph/internal/chunker"
	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure ChunkService implements the interface.
var _ driving.ChunkService = (*ChunkService)(nil)

// ChunkService stores the chunks produced by splitting a document.
type ChunkService struct {
	tx         driven.Transactor
	chunks     driven.ChunkStore
	docs       driven.DocumentStore
	blobs      driven.BlobStore
	splittings driving.SplittingService
	rec        driven.Recorder
}

// NewChunkService creates a new chunk service. rec may be nil.
func NewChunkService(
	tx driven.Transactor,
	chunks driven.ChunkStore,
	docs driven.DocumentStore,
	blobs driven.BlobStore,
	splittings driving.SplittingService,
	rec driven.Recorder,
) *ChunkService {
	return &ChunkService{
		tx:         tx,
		chunks:     chunks,
		docs:       docs,
		blobs:      blobs,
		splittings: splittings,
		rec:        recorderOrNoop(rec),
	}
}

// Create stores chunks for a document under one strategy. Sequence numbers
// follow input order starting at 0 and every chunk's hash is the MD5 of its
// content. The batch is written atomically.
func (s *ChunkService) Create(
	ctx context.Context,
	documentID int64,
	splitting domain.SplittingRef,
	inputs []domain.ChunkInput,
) ([]domain.Chunk, error) {
	if len(inputs) == 0 {
		return nil, domain.Invalid("create_chunks", "document_chunk", "at least one chunk is required")
	}

	splittingID, err := s.splittings.Resolve(ctx, splitting)
	if err != nil {
		return nil, err
	}
	if _, err := s.docs.Get(ctx, documentID); err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, len(inputs))
	for i, in := range inputs {
		chunks[i] = domain.Chunk{
			DocumentID:  documentID,
			SplittingID: splittingID,
			Sequence:    i,
			Content:     in.Content,
			Metadata:    in.Metadata,
			MD5Hash:     codec.HashString(in.Content),
		}
	}

	err = retry(ctx, s.rec, "create_chunks", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.chunks.InsertChunks(ctx, chunks)
		})
	})
	if err != nil {
		return nil, err
	}

	s.rec.BatchRows("create_chunks", len(chunks))
	logger.Debug("stored %d chunks for document %d (splitting %d)", len(chunks), documentID, splittingID)
	return chunks, nil
}

// List returns a document's chunks under one strategy, ordered by sequence.
func (s *ChunkService) List(ctx context.Context, documentID int64, splitting domain.SplittingRef) ([]domain.Chunk, error) {
	splittingID, err := s.splittings.Resolve(ctx, splitting)
	if err != nil {
		return nil, err
	}
	return s.chunks.List(ctx, documentID, splittingID)
}

// ListHashes returns the chunk hashes of several documents under one strategy.
func (s *ChunkService) ListHashes(ctx context.Context, documentIDs []int64, splitting domain.SplittingRef) ([]string, error) {
	splittingID, err := s.splittings.Resolve(ctx, splitting)
	if err != nil {
		return nil, err
	}
	if len(documentIDs) == 0 {
		return []string{}, nil
	}
	return s.chunks.ListHashes(ctx, documentIDs, splittingID)
}

// SplitDocument reads a staged document, splits its text with the
// strategy's window and stores the result.
func (s *ChunkService) SplitDocument(ctx context.Context, documentID int64, splitting domain.SplittingRef) ([]domain.Chunk, error) {
	splittingID, err := s.splittings.Resolve(ctx, splitting)
	if err != nil {
		return nil, err
	}
	sp, err := s.splittings.Get(ctx, splittingID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.E("split", "splitting", idKey(splittingID), domain.ErrNotFound, nil)
	}

	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	rc, err := s.blobs.Open(ctx, doc.MD5Hash)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.E("split", "document", idKey(documentID), domain.ErrStore, err)
	}
	if !utf8.Valid(data) {
		return nil, domain.Invalid("split", "document", "document %d is not UTF-8 text", documentID)
	}

	inputs := chunker.ForSplitting(*sp).Split(string(data))
	if len(inputs) == 0 {
		return []domain.Chunk{}, nil
	}
	return s.Create(ctx, documentID, domain.SplittingByID(splittingID), inputs)
}
