package mcp

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// HashTextInput is the input of hash_text.
type HashTextInput struct {
	Text string `json:"text"`
}

// HashFileInput is the input of hash_file.
type HashFileInput struct {
	Path string `json:"path" jsonschema:"local file path"`
}

// HashOutput is an MD5 digest.
type HashOutput struct {
	MD5Hash string `json:"md5_hash"`
}

func (s *Server) hashText(_ context.Context, in HashTextInput) (HashOutput, error) {
	return HashOutput{MD5Hash: codec.HashString(in.Text)}, nil
}

func (s *Server) hashFile(_ context.Context, in HashFileInput) (HashOutput, error) {
	h, err := codec.HashFile(in.Path)
	if err != nil {
		return HashOutput{}, codec.FileError("hash_file", in.Path, err)
	}
	return HashOutput{MD5Hash: h}, nil
}

// SplittingConfigInput is a (chunk_size, chunk_overlap) pair.
type SplittingConfigInput struct {
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
}

// SplittingOutput wraps an optional splitting strategy.
type SplittingOutput struct {
	Found     bool              `json:"found"`
	Splitting *domain.Splitting `json:"splitting,omitempty"`
}

// SplittingIDOutput is a resolved strategy id.
type SplittingIDOutput struct {
	SplittingID int64 `json:"splitting_id"`
}

// SplittingsOutput lists strategies.
type SplittingsOutput struct {
	Splittings []domain.Splitting `json:"splittings"`
	Count      int                `json:"count"`
}

func (s *Server) getOrCreateSplitting(ctx context.Context, in SplittingConfigInput) (SplittingOutput, error) {
	sp, err := s.ports.Splittings.GetOrCreate(ctx, in.ChunkSize, in.ChunkOverlap)
	if err != nil {
		return SplittingOutput{}, err
	}
	return SplittingOutput{Found: true, Splitting: sp}, nil
}

func (s *Server) resolveSplitting(ctx context.Context, in SplittingRefInput) (SplittingIDOutput, error) {
	id, err := s.ports.Splittings.Resolve(ctx, in.ref())
	if err != nil {
		return SplittingIDOutput{}, err
	}
	return SplittingIDOutput{SplittingID: id}, nil
}

func (s *Server) getSplitting(ctx context.Context, in IDInput) (SplittingOutput, error) {
	sp, err := s.ports.Splittings.Get(ctx, in.ID)
	if err != nil {
		return SplittingOutput{}, err
	}
	return SplittingOutput{Found: sp != nil, Splitting: sp}, nil
}

func (s *Server) listSplittings(ctx context.Context, _ NoInput) (SplittingsOutput, error) {
	list, err := s.ports.Splittings.List(ctx)
	if err != nil {
		return SplittingsOutput{}, err
	}
	return SplittingsOutput{Splittings: orEmpty(list), Count: len(list)}, nil
}

// DocumentResult wraps an optional document.
type DocumentResult struct {
	Found    bool            `json:"found"`
	Document *DocumentOutput `json:"document,omitempty"`
}

// DocumentsOutput lists documents.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// AddDocumentsInput is the input of add_documents.
type AddDocumentsInput struct {
	Documents []DocumentInput `json:"documents"`
}

// CollectionIDInput selects a collection.
type CollectionIDInput struct {
	CollectionID int64 `json:"collection_id"`
}

func documentResult(d *domain.Document) DocumentResult {
	if d == nil {
		return DocumentResult{}
	}
	out := toDocument(*d)
	return DocumentResult{Found: true, Document: &out}
}

func documentsOutput(docs []domain.Document) DocumentsOutput {
	return DocumentsOutput{Documents: toDocuments(docs), Count: len(docs)}
}

func (s *Server) getOrCreateDocument(ctx context.Context, in DocumentInput) (DocumentResult, error) {
	doc, err := s.ports.Documents.GetOrCreate(ctx, in.identity())
	if err != nil {
		return DocumentResult{}, err
	}
	return documentResult(doc), nil
}

func (s *Server) addDocuments(ctx context.Context, in AddDocumentsInput) (DocumentsOutput, error) {
	ids := lo.Map(in.Documents, func(d DocumentInput, _ int) domain.DocumentIdentity { return d.identity() })
	docs, err := s.ports.Documents.AddMany(ctx, ids)
	if err != nil {
		return DocumentsOutput{}, err
	}
	return documentsOutput(docs), nil
}

func (s *Server) getDocument(ctx context.Context, in IDInput) (DocumentResult, error) {
	doc, err := s.ports.Documents.Get(ctx, in.ID)
	if err != nil {
		return DocumentResult{}, err
	}
	return documentResult(doc), nil
}

func (s *Server) listDocuments(ctx context.Context, _ NoInput) (DocumentsOutput, error) {
	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return DocumentsOutput{}, err
	}
	return documentsOutput(docs), nil
}

func (s *Server) listDocumentsByCollection(ctx context.Context, in CollectionIDInput) (DocumentsOutput, error) {
	docs, err := s.ports.Documents.ListByCollection(ctx, in.CollectionID)
	if err != nil {
		return DocumentsOutput{}, err
	}
	return documentsOutput(docs), nil
}

// CreateChunksInput is the input of create_chunks.
type CreateChunksInput struct {
	DocumentID int64               `json:"document_id"`
	Splitting  SplittingRefInput   `json:"splitting"`
	Chunks     []domain.ChunkInput `json:"chunks"`
}

// DocumentSplittingInput selects a document's chunks under one strategy.
type DocumentSplittingInput struct {
	DocumentID int64             `json:"document_id"`
	Splitting  SplittingRefInput `json:"splitting"`
}

// DocumentsSplittingInput selects several documents' chunks under one strategy.
type DocumentsSplittingInput struct {
	DocumentIDs []int64           `json:"document_ids"`
	Splitting   SplittingRefInput `json:"splitting"`
}

// ChunksOutput lists chunks.
type ChunksOutput struct {
	Chunks []domain.Chunk `json:"chunks"`
	Count  int            `json:"count"`
}

func chunksOutput(c []domain.Chunk) ChunksOutput {
	return ChunksOutput{Chunks: orEmpty(c), Count: len(c)}
}

func (s *Server) createChunks(ctx context.Context, in CreateChunksInput) (ChunksOutput, error) {
	chunks, err := s.ports.Chunks.Create(ctx, in.DocumentID, in.Splitting.ref(), in.Chunks)
	if err != nil {
		return ChunksOutput{}, err
	}
	return chunksOutput(chunks), nil
}

func (s *Server) listChunks(ctx context.Context, in DocumentSplittingInput) (ChunksOutput, error) {
	chunks, err := s.ports.Chunks.List(ctx, in.DocumentID, in.Splitting.ref())
	if err != nil {
		return ChunksOutput{}, err
	}
	return chunksOutput(chunks), nil
}

func (s *Server) listChunkHashes(ctx context.Context, in DocumentsSplittingInput) (HashesOutput, error) {
	hashes, err := s.ports.Chunks.ListHashes(ctx, in.DocumentIDs, in.Splitting.ref())
	if err != nil {
		return HashesOutput{}, err
	}
	return hashesOutput(hashes), nil
}

func (s *Server) splitDocument(ctx context.Context, in DocumentSplittingInput) (ChunksOutput, error) {
	chunks, err := s.ports.Chunks.SplitDocument(ctx, in.DocumentID, in.Splitting.ref())
	if err != nil {
		return ChunksOutput{}, err
	}
	return chunksOutput(chunks), nil
}

// VectorKeyInput selects one cached vector.
type VectorKeyInput struct {
	EmbeddingsConfigID int64  `json:"embeddings_config_id"`
	MD5Hash            string `json:"md5_hash"`
}

// VectorOutput wraps an optional vector.
type VectorOutput struct {
	Found  bool                    `json:"found"`
	Vector *domain.EmbeddingVector `json:"vector,omitempty"`
}

// UpsertVectorsInput is the input of upsert_embedding_vectors.
type UpsertVectorsInput struct {
	Entries []VectorInput `json:"entries"`
}

// MissingEmbeddingsInput is the input of missing_embeddings.
type MissingEmbeddingsInput struct {
	EmbeddingsConfigID int64             `json:"embeddings_config_id"`
	DocumentIDs        []int64           `json:"document_ids"`
	Splitting          SplittingRefInput `json:"splitting"`
}

func (s *Server) getEmbeddingVector(ctx context.Context, in VectorKeyInput) (VectorOutput, error) {
	v, err := s.ports.Embeddings.Get(ctx, in.EmbeddingsConfigID, in.MD5Hash)
	if err != nil {
		return VectorOutput{}, err
	}
	return VectorOutput{Found: v != nil, Vector: v}, nil
}

func (s *Server) upsertEmbeddingVector(ctx context.Context, in VectorInput) (CountOutput, error) {
	entry, err := in.toDomain()
	if err != nil {
		return CountOutput{}, err
	}
	if err := s.ports.Embeddings.Upsert(ctx, entry); err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: 1}, nil
}

func (s *Server) upsertEmbeddingVectors(ctx context.Context, in UpsertVectorsInput) (CountOutput, error) {
	entries := make([]domain.EmbeddingVectorInput, len(in.Entries))
	for i, e := range in.Entries {
		entry, err := e.toDomain()
		if err != nil {
			return CountOutput{}, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = entry
	}
	n, err := s.ports.Embeddings.UpsertBatch(ctx, entries)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

func (s *Server) missingEmbeddings(ctx context.Context, in MissingEmbeddingsInput) (HashesOutput, error) {
	hashes, err := s.ports.Embeddings.Missing(ctx, in.EmbeddingsConfigID, in.DocumentIDs, in.Splitting.ref())
	if err != nil {
		return HashesOutput{}, err
	}
	return hashesOutput(hashes), nil
}
