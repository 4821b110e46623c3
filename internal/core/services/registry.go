package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure RegistryService implements the interface.
var _ driving.RegistryService = (*RegistryService)(nil)

// RegistryService manages the entries of one registry.
type RegistryService struct {
	store driven.RegistryStore
}

// NewRegistryService creates a service over one registry store.
func NewRegistryService(store driven.RegistryStore) *RegistryService {
	return &RegistryService{store: store}
}

// NewRegistries builds one service per store, keyed by registry kind.
func NewRegistries(stores ...driven.RegistryStore) driving.Registries {
	regs := make(driving.Registries, len(stores))
	for _, st := range stores {
		regs[st.Kind()] = NewRegistryService(st)
	}
	return regs
}

// Kind returns the registry this service manages.
func (s *RegistryService) Kind() domain.RegistryKind {
	return s.store.Kind()
}

// Create adds an entry and returns it with its assigned id.
func (s *RegistryService) Create(ctx context.Context, in domain.RegistryInput) (*domain.RegistryEntry, error) {
	if err := s.validate("create", in); err != nil {
		return nil, err
	}
	id, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.entry(id, in), nil
}

// Upsert writes the entry with a caller-chosen id, replacing any existing one.
func (s *RegistryService) Upsert(ctx context.Context, id int64, in domain.RegistryInput) (*domain.RegistryEntry, error) {
	if id <= 0 {
		return nil, domain.Invalid("upsert", string(s.Kind()), "id must be positive, got %d", id)
	}
	if err := s.validate("upsert", in); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, id, in); err != nil {
		return nil, err
	}
	return s.entry(id, in), nil
}

// Get retrieves an entry by id. Returns nil if absent.
func (s *RegistryService) Get(ctx context.Context, id int64) (*domain.RegistryEntry, error) {
	return optional(s.store.Get(ctx, id))
}

// List returns every entry.
func (s *RegistryService) List(ctx context.Context) ([]domain.RegistryEntry, error) {
	return s.store.List(ctx)
}

// ListByType returns the entries whose type tag equals tag.
func (s *RegistryService) ListByType(ctx context.Context, tag string) ([]domain.RegistryEntry, error) {
	return s.store.ListByType(ctx, tag)
}

func (s *RegistryService) validate(op string, in domain.RegistryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid(op, string(s.Kind()), "name is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		return domain.Invalid(op, string(s.Kind()), "type is required")
	}
	return nil
}

func (s *RegistryService) entry(id int64, in domain.RegistryInput) *domain.RegistryEntry {
	meta := in.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return &domain.RegistryEntry{Kind: s.Kind(), ID: id, Name: in.Name, Type: in.Type, Meta: meta}
}

// idKey formats a numeric id for error keys.
func idKey(id int64) string {
	return fmt.Sprintf("id=%d", id)
}
