package driven

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// RegistryStore persists one configuration registry. The metadata object
// is stored serialized; a payload that fails to parse on read is reported
// as domain.ErrFormat.
type RegistryStore interface {
	// Kind reports which registry this store backs.
	Kind() domain.RegistryKind

	// Insert creates an entry and returns its id.
	Insert(ctx context.Context, in domain.RegistryInput) (int64, error)

	// Upsert creates or replaces the entry with the given id.
	Upsert(ctx context.Context, id int64, in domain.RegistryInput) error

	// Get retrieves an entry by id.
	Get(ctx context.Context, id int64) (*domain.RegistryEntry, error)

	// List returns all entries ordered by id.
	List(ctx context.Context) ([]domain.RegistryEntry, error)

	// ListByType returns the entries carrying the given type tag.
	ListByType(ctx context.Context, tag string) ([]domain.RegistryEntry, error)
}
