package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/app"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// newTestServer builds a server over a real store under t.TempDir().
func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	dir := t.TempDir()
	a, err := app.Open(filepath.Join(dir, "data"), filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	s, err := NewServer(portsFor(a))
	require.NoError(t, err)
	return s, a
}

func portsFor(a *app.App) *Ports {
	return &Ports{
		Splittings:  a.Splittings,
		Documents:   a.Documents,
		Chunks:      a.Chunks,
		Embeddings:  a.Embeddings,
		Registries:  a.Registries,
		Collections: a.Collections,
		Profiles:    a.Profiles,
		Indexes:     a.Indexes,
		Sessions:    a.Sessions,
		Stats:       a.Store,
		Metrics:     a.Metrics,
	}
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   []byte
	err       error
}

func (m *mockDocumentService) GetOrCreate(_ context.Context, _ domain.DocumentIdentity) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) AddMany(_ context.Context, _ []domain.DocumentIdentity) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ int64) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) ListByCollection(_ context.Context, _ int64) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Content(_ context.Context, _ int64) ([]byte, error) {
	return m.content, m.err
}

// mockStats is a mock StatsProvider.
type mockStats struct {
	stats map[string]int64
	err   error
}

func (m *mockStats) Stats(_ context.Context) (map[string]int64, error) {
	return m.stats, m.err
}
