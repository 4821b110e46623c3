package cli

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestCollectionCmd_Lifecycle(t *testing.T) {
	a := setupTestApp(t)
	ctx := context.Background()
	d1, err := a.Documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "1.txt", Content: []byte("1")})
	require.NoError(t, err)
	d2, err := a.Documents.GetOrCreate(ctx, domain.DocumentIdentity{Filename: "2.txt", Content: []byte("2")})
	require.NoError(t, err)
	doc1, doc2 := strconv.FormatInt(d1.ID, 10), strconv.FormatInt(d2.ID, 10)

	out, err := execute(t, "collection", "create", "papers", doc1)
	require.NoError(t, err)
	assert.Contains(t, out, "papers")

	cols, err := a.Collections.List(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	colID := strconv.FormatInt(cols[0].ID, 10)

	out, err = execute(t, "collection", "add", colID, doc2)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 documents")

	members, err := a.Documents.ListByCollection(ctx, cols[0].ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	out, err = execute(t, "collection", "remove", colID, doc1, doc2)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 documents")

	_, err = execute(t, "collection", "rename", colID, "articles")
	require.NoError(t, err)

	out, err = execute(t, "collection", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "articles")

	_, err = execute(t, "collection", "delete", colID)
	require.NoError(t, err)

	_, err = execute(t, "collection", "delete", colID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionCmd_BadArgs(t *testing.T) {
	setupTestApp(t)

	_, err := execute(t, "collection", "add", "1")
	assert.Error(t, err)

	_, err = execute(t, "collection", "create", "x", "nope")
	assert.Error(t, err)
}
