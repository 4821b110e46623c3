package driven

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// CollectionStore persists collections and their document membership.
type CollectionStore interface {
	Insert(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Collection, error)
	List(ctx context.Context) ([]domain.Collection, error)

	// Rename returns domain.ErrNotFound when no row matched.
	Rename(ctx context.Context, id int64, name string) error

	// Delete removes the collection row only and returns rows affected.
	// The store rejects it while indexes still reference the collection.
	Delete(ctx context.Context, id int64) (int64, error)

	// AddDocuments is idempotent per (collection, document).
	AddDocuments(ctx context.Context, collectionID int64, documentIDs []int64) error
	RemoveDocuments(ctx context.Context, collectionID int64, documentIDs []int64) (int64, error)
	ClearDocuments(ctx context.Context, collectionID int64) (int64, error)
	DocumentIDs(ctx context.Context, collectionID int64) ([]int64, error)
}

// IndexProfileStore persists index profiles.
type IndexProfileStore interface {
	// Insert stores a profile and sets p.ID. Dangling references are
	// reported as domain.ErrInvalidInput.
	Insert(ctx context.Context, p *domain.IndexProfile) error
	Get(ctx context.Context, id int64) (*domain.IndexProfile, error)
	List(ctx context.Context) ([]domain.IndexProfile, error)
}

// CollectionIndexStore persists collection indexes and their indexed documents.
type CollectionIndexStore interface {
	Insert(ctx context.Context, idx *domain.CollectionIndex) error
	Get(ctx context.Context, id string) (*domain.CollectionIndex, error)
	ListByCollection(ctx context.Context, collectionID int64) ([]domain.CollectionIndex, error)

	// Delete removes the indexes and their indexed-document rows and
	// returns the number of indexes removed. The store rejects it while
	// sessions still reference any of them.
	Delete(ctx context.Context, ids []string) (int64, error)

	// UpsertDocuments is idempotent per (index, document).
	UpsertDocuments(ctx context.Context, indexID string, documentIDs []int64) error
	RemoveDocuments(ctx context.Context, indexID string, documentIDs []int64) (int64, error)
	DocumentIDs(ctx context.Context, indexID string) ([]int64, error)
}

// SessionStore persists sessions.
type SessionStore interface {
	Insert(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	ListByIndex(ctx context.Context, indexID string) ([]domain.Session, error)

	// Update applies the non-nil fields. Returns domain.ErrNotFound when
	// no row matched.
	Update(ctx context.Context, id int64, upd domain.SessionUpdate) error

	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByIndexIDs(ctx context.Context, indexIDs []string) (int64, error)
}
