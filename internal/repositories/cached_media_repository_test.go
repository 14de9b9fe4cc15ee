package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/cache"
	"tunevault/internal/models"
	"tunevault/internal/testutil"
)

func newCachedMediaFixture(t *testing.T) (*CachedMediaRepository, *testutil.DocStore[models.DocMedia, *models.DocMedia]) {
	t.Helper()
	store := testutil.NewDocStore[models.DocMedia, *models.DocMedia]()
	repo := NewCachedMediaRepository(store, cache.NewMemoryCache(), testutil.DiscardLogger())
	return repo, store
}

func TestCachedFindByIDServesFromCache(t *testing.T) {
	repo, store := newCachedMediaFixture(t)
	ctx := context.Background()

	media := testutil.SeedDocMedia(t, store, "intro", primitive.NilObjectID)

	first, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, first)

	// mutate the store behind the cache; the cached copy must win
	media.Title = "changed underneath"
	require.NoError(t, store.ReplaceOne(ctx, media))

	second, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "intro", second.Title)
}

func TestCachedReplaceInvalidates(t *testing.T) {
	repo, store := newCachedMediaFixture(t)
	ctx := context.Background()

	media := testutil.SeedDocMedia(t, store, "intro", primitive.NilObjectID)

	_, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)

	media.Title = "remaster"
	require.NoError(t, repo.ReplaceOne(ctx, media))

	got, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "remaster", got.Title)
}

func TestCachedDeleteInvalidates(t *testing.T) {
	repo, store := newCachedMediaFixture(t)
	ctx := context.Background()

	media := testutil.SeedDocMedia(t, store, "intro", primitive.NilObjectID)

	_, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, media.ID.Hex()))

	got, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedMissPassesThrough(t *testing.T) {
	repo, store := newCachedMediaFixture(t)

	media := testutil.SeedDocMedia(t, store, "intro", primitive.NilObjectID)
	require.NoError(t, store.DeleteByID(context.Background(), media.ID.Hex()))

	got, err := repo.FindByID(context.Background(), media.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedFindByIDKeepsLinkLists(t *testing.T) {
	repo, store := newCachedMediaFixture(t)
	ctx := context.Background()

	media := testutil.SeedDocMedia(t, store, "intro", primitive.NilObjectID)
	liker := primitive.NewObjectID()
	media.LikedUsers = append(media.LikedUsers, liker)
	media.VisitedUsers = append(media.VisitedUsers, liker)
	require.NoError(t, store.ReplaceOne(ctx, media))

	_, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)

	// second read is a cache hit; the link lists must survive the round trip
	hit, err := repo.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{liker}, hit.LikedUsers)
	assert.Equal(t, []primitive.ObjectID{liker}, hit.VisitedUsers)
}
