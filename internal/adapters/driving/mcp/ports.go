package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/metrics"
)

// StatsProvider reports per-table row counts.
type StatsProvider interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	Splittings  driving.SplittingService
	Documents   driving.DocumentService
	Chunks      driving.ChunkService
	Embeddings  driving.EmbeddingService
	Registries  driving.Registries
	Collections driving.CollectionService
	Profiles    driving.IndexProfileService
	Indexes     driving.CollectionIndexService
	Sessions    driving.SessionService

	// Stats backs the stats resource. Optional.
	Stats StatsProvider

	// Metrics counts tool failures and is served at /metrics. Optional.
	Metrics *metrics.Metrics
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	required := []struct {
		name string
		set  bool
	}{
		{"splittings", p.Splittings != nil},
		{"documents", p.Documents != nil},
		{"chunks", p.Chunks != nil},
		{"embeddings", p.Embeddings != nil},
		{"collections", p.Collections != nil},
		{"profiles", p.Profiles != nil},
		{"indexes", p.Indexes != nil},
		{"sessions", p.Sessions != nil},
	}
	for _, r := range required {
		if !r.set {
			return fmt.Errorf("%w: %s", ErrMissingService, r.name)
		}
	}
	for _, kind := range domain.AllRegistryKinds() {
		if p.Registries[kind] == nil {
			return fmt.Errorf("%w: registry %s", ErrMissingService, kind)
		}
	}
	return nil
}
