package cli

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestRegistryCmd_AddAndList(t *testing.T) {
	a := setupTestApp(t)

	out, err := execute(t, "registry", "add", "embeddings_client", "local", "ollama", "--meta", `{"url":"http://localhost:11434"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Added embeddings_client")

	entries, err := a.Registries[domain.RegistryEmbeddingsClients].List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http://localhost:11434", entries[0].Meta["url"])

	out, err = execute(t, "registry", "list", "embeddings_client", "--type", "ollama")
	require.NoError(t, err)
	assert.Contains(t, out, "local (ollama)")

	out, err = execute(t, "registry", "list", "embeddings_client", "--type", "openai")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found.")
}

func TestRegistryCmd_Rejects(t *testing.T) {
	setupTestApp(t)

	_, err := execute(t, "registry", "list", "llm_client")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown registry")

	_, err = execute(t, "registry", "add", "vector_db_client", "q", "qdrant", "--meta", "{broken")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --meta")
}

func addEntry(t *testing.T, kind string) string {
	t.Helper()
	_, err := execute(t, "registry", "add", kind, kind, "t")
	require.NoError(t, err)
	return "1"
}

func TestIndexCmd_ProfileIndexStatusMissing(t *testing.T) {
	a := setupTestApp(t)
	ctx := context.Background()

	ids := make([]string, 0, 4)
	for _, kind := range domain.AllRegistryKinds() {
		ids = append(ids, addEntry(t, string(kind)))
	}

	out, err := execute(t, append([]string{"index", "profile", "default", "--size", "4", "--overlap", "0"}, ids...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created index profile")

	profiles, err := a.Profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	doc, err := a.Documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "a.txt", Content: []byte("abcdefgh")})
	require.NoError(t, err)
	col, err := a.Collections.Create(ctx, "c", []int64{doc.ID})
	require.NoError(t, err)

	out, err = execute(t, "index", "create", "main",
		strconv.FormatInt(col.ID, 10), strconv.FormatInt(profiles[0].ID, 10))
	require.NoError(t, err)
	indexID := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(out, "Created index "), ":", 2)[0])

	out, err = execute(t, "index", "status", indexID)
	require.NoError(t, err)
	assert.Contains(t, out, "To index:  1")
	assert.Contains(t, out, "a.txt")

	require.NoError(t, a.Indexes.UpsertDocuments(ctx, indexID, []int64{doc.ID}))
	out, err = execute(t, "index", "status", indexID)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	_, err = a.Chunks.SplitDocument(ctx, doc.ID, domain.SplittingByConfig(4, 0))
	require.NoError(t, err)

	out, err = execute(t, "index", "missing", "1", strconv.FormatInt(doc.ID, 10), "--size", "4", "--overlap", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Missing: 2")

	_, err = execute(t, "index", "status", "no-such-index")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
