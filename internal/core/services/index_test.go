package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestIndexProfileService_CreateAndDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.addProfile(t)
	assert.Positive(t, p.ID)

	sp, err := env.splittings.Get(ctx, p.SplittingID)
	require.NoError(t, err)
	assert.Equal(t, 500, sp.ChunkSize)
	assert.Equal(t, 50, sp.ChunkOverlap)

	details, err := env.profiles.GetDetails(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, *p, details.IndexProfile)
	assert.Equal(t, *sp, details.Splitting)
	assert.Equal(t, "client", details.EmbeddingsClient.Name)
	assert.Equal(t, "config", details.EmbeddingsConfig.Name)
	assert.Equal(t, "vclient", details.VectorDbClient.Name)
	assert.Equal(t, "vconfig", details.VectorDbConfig.Name)

	list, err := env.profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIndexProfileService_Create_DanglingReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.Create(ctx, domain.IndexProfileInput{
		Name:               "broken",
		Splitting:          domain.SplittingByConfig(100, 10),
		EmbeddingsClientID: 1,
		EmbeddingsConfigID: 1,
		VectorDbClientID:   1,
		VectorDbConfigID:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(0), env.count(t, "index_profiles"))

	_, err = env.profiles.Create(ctx, domain.IndexProfileInput{Splitting: domain.SplittingByConfig(100, 10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexProfileService_Missing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.profiles.Get(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, p)

	d, err := env.profiles.GetDetails(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestCollectionIndexService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addProfile(t)
	a := env.addDoc(t, "a.txt", "a")
	b := env.addDoc(t, "b.txt", "b")

	col, err := env.collections.Create(ctx, "col", []int64{a.ID, b.ID})
	require.NoError(t, err)

	idx, err := env.indexes.Create(ctx, "main", col.ID, p.ID)
	require.NoError(t, err)
	_, err = uuid.Parse(idx.ID)
	assert.NoError(t, err)

	require.NoError(t, env.indexes.UpsertDocuments(ctx, idx.ID, []int64{b.ID, a.ID, b.ID}))
	require.NoError(t, env.indexes.UpsertDocuments(ctx, idx.ID, []int64{a.ID}))

	got, err := env.indexes.Get(ctx, idx.ID)
	require.NoError(t, err)
	assert.Equal(t, "main", got.Name)
	assert.Equal(t, []int64{a.ID, b.ID}, got.IndexedDocumentIDs)

	n, err := env.indexes.RemoveDocuments(ctx, idx.ID, []int64{a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := env.indexes.ListByCollection(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, idx.ID, list[0].ID)

	missing, err := env.indexes.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCollectionIndexService_Create_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addProfile(t)

	_, err := env.indexes.Create(ctx, "idx", 999, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.indexes.Create(ctx, "", 1, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectionIndexService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addProfile(t)

	col, err := env.collections.Create(ctx, "col", nil)
	require.NoError(t, err)
	first, err := env.indexes.Create(ctx, "first", col.ID, p.ID)
	require.NoError(t, err)
	second, err := env.indexes.Create(ctx, "second", col.ID, p.ID)
	require.NoError(t, err)
	_, err = env.sessions.Create(ctx, "s1", first.ID, "")
	require.NoError(t, err)
	_, err = env.sessions.Create(ctx, "s2", second.ID, "")
	require.NoError(t, err)

	n, err := env.indexes.Delete(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = env.indexes.Delete(ctx, []string{first.ID, first.ID, "", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, int64(1), env.count(t, "collection_indexes"))
	sessions, err := env.sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, second.ID, sessions[0].IndexID)
}

func TestCollectionIndexService_SyncStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addProfile(t)
	a := env.addDoc(t, "a.txt", "a")
	b := env.addDoc(t, "b.txt", "b")
	c := env.addDoc(t, "c.txt", "c")

	col, err := env.collections.Create(ctx, "col", []int64{a.ID, b.ID})
	require.NoError(t, err)
	idx, err := env.indexes.Create(ctx, "idx", col.ID, p.ID)
	require.NoError(t, err)
	require.NoError(t, env.indexes.UpsertDocuments(ctx, idx.ID, []int64{b.ID, c.ID}))

	status, err := env.indexes.SyncStatus(ctx, idx.ID)
	require.NoError(t, err)
	assert.Equal(t, idx.ID, status.IndexID)
	require.Len(t, status.ToIndex, 1)
	assert.Equal(t, a.ID, status.ToIndex[0].ID)
	assert.Equal(t, []int64{c.ID}, status.ToDelete)
	assert.Len(t, status.All, 2)
	assert.False(t, status.Clean())

	require.NoError(t, env.indexes.UpsertDocuments(ctx, idx.ID, []int64{a.ID}))
	_, err = env.indexes.RemoveDocuments(ctx, idx.ID, status.ToDelete)
	require.NoError(t, err)

	status, err = env.indexes.SyncStatus(ctx, idx.ID)
	require.NoError(t, err)
	assert.True(t, status.Clean())

	_, err = env.indexes.SyncStatus(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
