package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// RegistryService manages one configuration registry.
type RegistryService interface {
	// Kind reports the registry this service manages.
	Kind() domain.RegistryKind

	// Create adds an entry and returns it with its assigned id.
	Create(ctx context.Context, in domain.RegistryInput) (*domain.RegistryEntry, error)

	// Upsert creates or replaces the entry with the given id.
	Upsert(ctx context.Context, id int64, in domain.RegistryInput) (*domain.RegistryEntry, error)

	// Get retrieves an entry by id.
	Get(ctx context.Context, id int64) (*domain.RegistryEntry, error)

	// List returns all entries.
	List(ctx context.Context) ([]domain.RegistryEntry, error)

	// ListByType returns entries with the given type tag. For config
	// registries the tag is the client type.
	ListByType(ctx context.Context, tag string) ([]domain.RegistryEntry, error)
}

// Registries groups the four configuration registries by kind.
type Registries map[domain.RegistryKind]RegistryService
