package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/custodia-labs/docgraph/internal/codec"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService ingests documents, identified by the MD5 of their bytes.
type DocumentService struct {
	store driven.DocumentStore
	blobs driven.BlobStore
	rec   driven.Recorder
	now   func() time.Time
}

// NewDocumentService creates a new document service. rec may be nil.
func NewDocumentService(store driven.DocumentStore, blobs driven.BlobStore, rec driven.Recorder) *DocumentService {
	return &DocumentService{
		store: store,
		blobs: blobs,
		rec:   recorderOrNoop(rec),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreate returns the document for the identity's content hash,
// staging the content and creating the row when absent. The first
// filename recorded for a hash is kept.
func (s *DocumentService) GetOrCreate(ctx context.Context, identity domain.DocumentIdentity) (*domain.Document, error) {
	if s.store == nil || s.blobs == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	hash, stage, err := s.prepare(ctx, identity)
	if err != nil {
		return nil, err
	}
	logger.Debug("document %q hashes to %s", identity.Filename, hash)

	return getOrCreate(ctx, s.rec, "document",
		func(ctx context.Context) (*domain.Document, error) {
			return s.store.GetByHash(ctx, hash)
		},
		func(ctx context.Context) (*domain.Document, error) {
			path, err := stage(ctx)
			if err != nil {
				return nil, err
			}
			doc := &domain.Document{
				Filename:  identity.Filename,
				Path:      path,
				MD5Hash:   hash,
				UpdatedAt: s.now(),
			}
			if err := s.store.Insert(ctx, doc); err != nil {
				return nil, err
			}
			return doc, nil
		})
}

// AddMany resolves identities in order and stops at the first failure.
func (s *DocumentService) AddMany(ctx context.Context, identities []domain.DocumentIdentity) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(identities))
	for i, identity := range identities {
		doc, err := s.GetOrCreate(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("document %d (%s): %w", i, identity.Filename, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Get retrieves a document by id. Returns nil if absent.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return optional(s.store.Get(ctx, id))
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// ListByCollection returns the documents that belong to a collection.
func (s *DocumentService) ListByCollection(ctx context.Context, collectionID int64) ([]domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListByCollection(ctx, collectionID)
}

// Content reads a document's staged bytes.
func (s *DocumentService) Content(ctx context.Context, id int64) ([]byte, error) {
	if s.store == nil || s.blobs == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.store.Get(ctx, id)
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
		return nil, domain.E("read", "document", idKey(id), domain.ErrStore, err)
	}
	return data, nil
}

// prepare hashes the identity's content and returns a function that stages
// it. A source file is copied into the blob area here, once, and keyed by
// the bytes that were copied, so a file rewritten during ingestion can never
// leave a blob that disagrees with its hash.
func (s *DocumentService) prepare(ctx context.Context, identity domain.DocumentIdentity) (string, func(context.Context) (string, error), error) {
	if identity.SourcePath == "" {
		hash := codec.HashBytes(identity.Content)
		return hash, func(ctx context.Context) (string, error) {
			return s.blobs.WriteIfAbsent(ctx, hash, bytes.NewReader(identity.Content))
		}, nil
	}

	f, err := os.Open(identity.SourcePath)
	if err != nil {
		return "", nil, codec.FileError("get_or_create", identity.SourcePath, err)
	}
	defer f.Close()

	hash, path, err := s.blobs.Stage(ctx, sourceReader{path: identity.SourcePath, r: f})
	if err != nil {
		return "", nil, err
	}
	return hash, func(context.Context) (string, error) { return path, nil }, nil
}

// sourceReader classifies read failures of a caller-named file.
type sourceReader struct {
	path string
	r    io.Reader
}

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = codec.FileError("get_or_create", s.path, err)
	}
	return n, err
}
