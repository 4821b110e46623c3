package domain

import "time"

// Document is an ingested source file, identified by the MD5 of its bytes.
// At most one Document exists per content hash.
type Document struct {
	// ID is the store-assigned identifier.
	ID int64 `json:"id"`

	// Filename is the name supplied on first ingestion. Later ingestions
	// of identical bytes never change it.
	Filename string `json:"filename"`

	// Path is the staged, content-addressed location of the bytes.
	Path string `json:"path"`

	// MD5Hash is the lowercase hex content hash and the binding identity.
	MD5Hash string `json:"md5_hash"`

	// UpdatedAt is when the row was written.
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentIdentity is the input to document get-or-create. Exactly one of
// SourcePath and Content must be set.
type DocumentIdentity struct {
	Filename   string `json:"filename"`
	SourcePath string `json:"source_path,omitempty"`
	Content    []byte `json:"content,omitempty"`
}

// Validate checks that the identity names a file and carries exactly one source.
func (d DocumentIdentity) Validate() error {
	if d.Filename == "" {
		return Invalid("get_or_create", "document", "filename is required")
	}
	hasPath := d.SourcePath != ""
	hasBytes := d.Content != nil
	if hasPath == hasBytes {
		return Invalid("get_or_create", "document", "exactly one of source_path and content is required")
	}
	return nil
}

// Chunk is one ordered, content-hashed slice of a Document under a
// splitting strategy. Chunks are immutable once created.
type Chunk struct {
	// DocumentID links to the owning Document.
	DocumentID int64 `json:"document_id"`

	// SplittingID links to the strategy that produced the chunk.
	SplittingID int64 `json:"splitting_id"`

	// Sequence is the 0-based position within (DocumentID, SplittingID).
	Sequence int `json:"sequence"`

	// Content is the chunk text.
	Content string `json:"content"`

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// MD5Hash is the lowercase hex MD5 of Content.
	MD5Hash string `json:"md5_hash"`
}

// ChunkInput is one caller-supplied chunk for batch creation.
type ChunkInput struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
