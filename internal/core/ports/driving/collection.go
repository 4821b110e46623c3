package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// CollectionService manages collections and their membership.
type CollectionService interface {
	// Create adds a collection with the given initial members.
	Create(ctx context.Context, name string, documentIDs []int64) (*domain.Collection, error)

	Get(ctx context.Context, id int64) (*domain.Collection, error)
	List(ctx context.Context) ([]domain.Collection, error)

	// ListWithIndexes returns every collection together with its indexes.
	ListWithIndexes(ctx context.Context) ([]domain.CollectionWithIndexes, error)

	// Rename changes a collection's name.
	Rename(ctx context.Context, id int64, name string) (*domain.Collection, error)

	// Delete removes the collection after its memberships, its indexes and
	// the sessions on those indexes, all in one transaction.
	Delete(ctx context.Context, id int64) error

	AddDocuments(ctx context.Context, id int64, documentIDs []int64) error
	RemoveDocuments(ctx context.Context, id int64, documentIDs []int64) (int64, error)
	ClearDocuments(ctx context.Context, id int64) (int64, error)
}

// IndexProfileService manages index profiles.
type IndexProfileService interface {
	// Create resolves the splitting reference and stores the profile.
	Create(ctx context.Context, in domain.IndexProfileInput) (*domain.IndexProfile, error)

	Get(ctx context.Context, id int64) (*domain.IndexProfile, error)

	// GetDetails returns the profile with every reference resolved.
	GetDetails(ctx context.Context, id int64) (*domain.IndexProfileDetails, error)

	List(ctx context.Context) ([]domain.IndexProfile, error)
}

// CollectionIndexService manages collection indexes.
type CollectionIndexService interface {
	// Create binds a collection to an index profile under a fresh id.
	Create(ctx context.Context, name string, collectionID, profileID int64) (*domain.CollectionIndex, error)

	// Get returns the index with its indexed document ids.
	Get(ctx context.Context, id string) (*domain.CollectionIndex, error)

	ListByCollection(ctx context.Context, collectionID int64) ([]domain.CollectionIndex, error)

	// Delete removes the sessions on the indexes, then the indexes.
	// An empty list is a no-op.
	Delete(ctx context.Context, ids []string) (int64, error)

	UpsertDocuments(ctx context.Context, id string, documentIDs []int64) error
	RemoveDocuments(ctx context.Context, id string, documentIDs []int64) (int64, error)

	// SyncStatus compares the collection's members with the indexed documents.
	SyncStatus(ctx context.Context, id string) (*domain.IndexSyncStatus, error)
}

// SessionService manages sessions on collection indexes.
type SessionService interface {
	Create(ctx context.Context, name, indexID, history string) (*domain.Session, error)
	Update(ctx context.Context, id int64, upd domain.SessionUpdate) (*domain.Session, error)
	Get(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	ListByIndex(ctx context.Context, indexID string) ([]domain.Session, error)

	// Delete removes one session. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) error

	DeleteByIndexIDs(ctx context.Context, indexIDs []string) (int64, error)
}
