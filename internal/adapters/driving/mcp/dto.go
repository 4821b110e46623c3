package mcp

import (
	"encoding/base64"
	"time"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// NoInput is the input of tools that take no arguments.
type NoInput struct{}

// IDInput selects one row by numeric id.
type IDInput struct {
	ID int64 `json:"id" jsonschema:"row id"`
}

// SplittingRefInput names a splitting strategy either by id or by its
// (chunk_size, chunk_overlap) pair. Set one form only.
type SplittingRefInput struct {
	SplittingID  int64 `json:"splitting_id,omitempty" jsonschema:"id of an existing splitting strategy"`
	ChunkSize    int   `json:"chunk_size,omitempty" jsonschema:"chunk size in characters, creates the strategy if needed"`
	ChunkOverlap int   `json:"chunk_overlap,omitempty" jsonschema:"overlap between consecutive chunks, less than chunk_size"`
}

func (r SplittingRefInput) ref() domain.SplittingRef {
	switch {
	case r.SplittingID == 0:
		return domain.SplittingByConfig(r.ChunkSize, r.ChunkOverlap)
	case r.ChunkSize == 0 && r.ChunkOverlap == 0:
		return domain.SplittingByID(r.SplittingID)
	default:
		return domain.SplittingRef{
			ID:     r.SplittingID,
			Config: &domain.SplittingConfig{ChunkSize: r.ChunkSize, ChunkOverlap: r.ChunkOverlap},
		}
	}
}

// DocumentOutput is a document with its timestamp rendered as RFC 3339.
type DocumentOutput struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	MD5Hash   string `json:"md5_hash"`
	UpdatedAt string `json:"updated_at"`
}

func toDocument(d domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:        d.ID,
		Filename:  d.Filename,
		Path:      d.Path,
		MD5Hash:   d.MD5Hash,
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toDocuments(docs []domain.Document) []DocumentOutput {
	return lo.Map(docs, func(d domain.Document, _ int) DocumentOutput { return toDocument(d) })
}

// DocumentInput identifies a document by a file path or by inline text.
type DocumentInput struct {
	Filename   string `json:"filename" jsonschema:"display name of the document"`
	SourcePath string `json:"source_path,omitempty" jsonschema:"path of a local file to ingest"`
	Content    string `json:"content,omitempty" jsonschema:"inline text content, used when source_path is empty"`
}

func (in DocumentInput) identity() domain.DocumentIdentity {
	id := domain.DocumentIdentity{Filename: in.Filename, SourcePath: in.SourcePath}
	if in.SourcePath == "" {
		id.Content = []byte(in.Content)
	}
	return id
}

// RegistryEntryOutput is one registry entry.
type RegistryEntryOutput struct {
	Kind string         `json:"kind"`
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Type string         `json:"type"`
	Meta map[string]any `json:"meta"`
}

func toRegistryEntry(e domain.RegistryEntry) RegistryEntryOutput {
	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return RegistryEntryOutput{Kind: string(e.Kind), ID: e.ID, Name: e.Name, Type: e.Type, Meta: meta}
}

// VectorInput is one embedding vector to store. Encoded, when set, is the
// base64 of the big-endian float32 payload and wins over Vector.
type VectorInput struct {
	EmbeddingsConfigID int64     `json:"embeddings_config_id"`
	MD5Hash            string    `json:"md5_hash" jsonschema:"MD5 of the chunk text"`
	Vector             []float32 `json:"vector,omitempty"`
	Encoded            string    `json:"encoded,omitempty" jsonschema:"base64 encoded payload"`
}

func (in VectorInput) toDomain() (domain.EmbeddingVectorInput, error) {
	out := domain.EmbeddingVectorInput{
		EmbeddingsConfigID: in.EmbeddingsConfigID,
		MD5Hash:            in.MD5Hash,
		Vector:             in.Vector,
	}
	if in.Encoded != "" {
		raw, err := base64.StdEncoding.DecodeString(in.Encoded)
		if err != nil {
			return out, domain.E("decode", "embedding_vector", in.MD5Hash, domain.ErrFormat, err)
		}
		out.Encoded = raw
	}
	return out, nil
}

// CollectionOutput is a collection with the indexes bound to it.
type CollectionOutput struct {
	ID      int64                    `json:"id"`
	Name    string                   `json:"name"`
	Indexes []domain.CollectionIndex `json:"indexes,omitempty"`
}

// IndexProfileDetailsOutput is a profile with every reference resolved.
type IndexProfileDetailsOutput struct {
	Profile          domain.IndexProfile `json:"profile"`
	Splitting        domain.Splitting    `json:"splitting"`
	EmbeddingsClient RegistryEntryOutput `json:"embeddings_client"`
	EmbeddingsConfig RegistryEntryOutput `json:"embeddings_config"`
	VectorDbClient   RegistryEntryOutput `json:"vector_db_client"`
	VectorDbConfig   RegistryEntryOutput `json:"vector_db_config"`
}

// SyncStatusOutput reports what an index needs to match its collection.
type SyncStatusOutput struct {
	IndexID  string           `json:"index_id"`
	ToIndex  []DocumentOutput `json:"to_index"`
	ToDelete []int64          `json:"to_delete"`
	All      []DocumentOutput `json:"all"`
	Clean    bool             `json:"clean"`
}

// CountOutput reports rows affected.
type CountOutput struct {
	Count int64 `json:"count"`
}

// HashesOutput is a list of chunk hashes.
type HashesOutput struct {
	Hashes []string `json:"hashes"`
	Count  int      `json:"count"`
}

func hashesOutput(h []string) HashesOutput {
	if h == nil {
		h = []string{}
	}
	return HashesOutput{Hashes: h, Count: len(h)}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
