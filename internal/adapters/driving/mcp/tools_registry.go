package mcp

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// RegistryCreateInput is the input of create_<registry>.
type RegistryCreateInput struct {
	Name string         `json:"name"`
	Type string         `json:"type" jsonschema:"provider tag, e.g. openai or qdrant"`
	Meta map[string]any `json:"meta,omitempty" jsonschema:"provider specific settings"`
}

// RegistryUpsertInput is the input of upsert_<registry>.
type RegistryUpsertInput struct {
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Type string         `json:"type"`
	Meta map[string]any `json:"meta,omitempty"`
}

// RegistryTypeInput filters entries by provider tag.
type RegistryTypeInput struct {
	Type string `json:"type"`
}

// RegistryEntryResult wraps an optional entry.
type RegistryEntryResult struct {
	Found bool                 `json:"found"`
	Entry *RegistryEntryOutput `json:"entry,omitempty"`
}

// RegistryEntriesOutput lists entries.
type RegistryEntriesOutput struct {
	Entries []RegistryEntryOutput `json:"entries"`
	Count   int                   `json:"count"`
}

func registryResult(e *domain.RegistryEntry) RegistryEntryResult {
	if e == nil {
		return RegistryEntryResult{}
	}
	out := toRegistryEntry(*e)
	return RegistryEntryResult{Found: true, Entry: &out}
}

func registryList(entries []domain.RegistryEntry) RegistryEntriesOutput {
	return RegistryEntriesOutput{
		Entries: lo.Map(entries, func(e domain.RegistryEntry, _ int) RegistryEntryOutput { return toRegistryEntry(e) }),
		Count:   len(entries),
	}
}

// registryHandlers adapts one RegistryService to tool handlers.
type registryHandlers struct {
	svc driving.RegistryService
}

func (h registryHandlers) create(ctx context.Context, in RegistryCreateInput) (RegistryEntryResult, error) {
	e, err := h.svc.Create(ctx, domain.RegistryInput{Name: in.Name, Type: in.Type, Meta: in.Meta})
	if err != nil {
		return RegistryEntryResult{}, err
	}
	return registryResult(e), nil
}

func (h registryHandlers) upsert(ctx context.Context, in RegistryUpsertInput) (RegistryEntryResult, error) {
	e, err := h.svc.Upsert(ctx, in.ID, domain.RegistryInput{Name: in.Name, Type: in.Type, Meta: in.Meta})
	if err != nil {
		return RegistryEntryResult{}, err
	}
	return registryResult(e), nil
}

func (h registryHandlers) get(ctx context.Context, in IDInput) (RegistryEntryResult, error) {
	e, err := h.svc.Get(ctx, in.ID)
	if err != nil {
		return RegistryEntryResult{}, err
	}
	return registryResult(e), nil
}

func (h registryHandlers) list(ctx context.Context, _ NoInput) (RegistryEntriesOutput, error) {
	entries, err := h.svc.List(ctx)
	if err != nil {
		return RegistryEntriesOutput{}, err
	}
	return registryList(entries), nil
}

func (h registryHandlers) listByType(ctx context.Context, in RegistryTypeInput) (RegistryEntriesOutput, error) {
	entries, err := h.svc.ListByType(ctx, in.Type)
	if err != nil {
		return RegistryEntriesOutput{}, err
	}
	return registryList(entries), nil
}

// registerRegistryTools adds five tools per registry, named after its kind:
// create_<kind>, upsert_<kind>, get_<kind>, list_<kind>s, list_<kind>s_by_type.
func (s *Server) registerRegistryTools() {
	for _, kind := range domain.AllRegistryKinds() {
		h := registryHandlers{svc: s.ports.Registries[kind]}
		k := string(kind)
		label := strings.ReplaceAll(k, "_", " ")

		addTool(s, "create_"+k, "Create an entry in the "+label+" registry", h.create)
		addTool(s, "upsert_"+k, "Create or replace an entry with a chosen id in the "+label+" registry", h.upsert)
		addTool(s, "get_"+k, "Get an entry of the "+label+" registry by id", h.get)
		addTool(s, "list_"+k+"s", "List the "+label+" registry", h.list)
		addTool(s, "list_"+k+"s_by_type", "List entries of the "+label+" registry with a provider tag", h.listByType)
	}
}
