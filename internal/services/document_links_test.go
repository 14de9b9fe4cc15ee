package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunevault/internal/apperr"
	"tunevault/internal/cache"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/rules"
	"tunevault/internal/testutil"
)

type docLinkFixture struct {
	svc     *DocumentLinkService
	users   *testutil.DocStore[models.DocUser, *models.DocUser]
	artists *testutil.DocStore[models.DocArtist, *models.DocArtist]
	medias  *testutil.DocStore[models.DocMedia, *models.DocMedia]
}

func newDocLinkFixture(t *testing.T) *docLinkFixture {
	t.Helper()
	f := &docLinkFixture{
		users:   testutil.NewDocStore[models.DocUser, *models.DocUser](),
		artists: testutil.NewDocStore[models.DocArtist, *models.DocArtist](),
		medias:  testutil.NewDocStore[models.DocMedia, *models.DocMedia](),
	}
	f.svc = NewDocumentLinkService(f.users, f.artists, f.medias, testutil.DiscardLogger())
	return f
}

func (f *docLinkFixture) reload(t *testing.T, userID, artistID string) (*models.DocUser, *models.DocArtist) {
	t.Helper()
	user, err := f.users.FindByID(context.Background(), userID)
	require.NoError(t, err)
	artist, err := f.artists.FindByID(context.Background(), artistID)
	require.NoError(t, err)
	return user, artist
}

func TestFollowLinksBothSides(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))

	storedUser, storedArtist := f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.True(t, rules.ContainsID(storedUser.FollowingArtists, artist.ID))
	assert.True(t, rules.ContainsID(storedArtist.Followers, user.ID))
}

func TestFollowTwiceIsLogicError(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))

	err := f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.LogicError))
	assert.Equal(t, rules.MsgAlreadyFollowing, apperr.MessageOf(err))
}

func TestUnfollowRemovesBothSides(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))
	require.NoError(t, f.svc.Unfollow(ctx, user.ID.Hex(), artist.ID.Hex()))

	storedUser, storedArtist := f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.Empty(t, storedUser.FollowingArtists)
	assert.Empty(t, storedArtist.Followers)

	err := f.svc.Unfollow(ctx, user.ID.Hex(), artist.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgNotFollowing, apperr.MessageOf(err))
}

func TestFollowMissingArtistIsNotFound(t *testing.T) {
	f := newDocLinkFixture(t)
	user := testutil.SeedDocUser(t, f.users, "ali")
	ghost := testutil.SeedDocArtist(t, f.artists, "ghost")
	require.NoError(t, f.artists.DeleteByID(context.Background(), ghost.ID.Hex()))

	err := f.svc.Follow(context.Background(), user.ID.Hex(), ghost.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestFollowRetryRepairsHalfWrite(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	// first attempt: artist write lands, user write fails
	f.users.ReplaceErr = errors.New("connection reset")
	err := f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex())
	require.Error(t, err)

	storedUser, storedArtist := f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.True(t, rules.ContainsID(storedArtist.Followers, user.ID))
	assert.False(t, rules.ContainsID(storedUser.FollowingArtists, artist.ID))

	// retry: duplicate check passes (user list is clean), artist add is a
	// no-op, and the link ends symmetric with no double entry
	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))

	storedUser, storedArtist = f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.Len(t, storedArtist.Followers, 1)
	assert.Len(t, storedUser.FollowingArtists, 1)
}

func TestLikeAndDislike(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	media := testutil.SeedDocMedia(t, f.medias, "intro", user.ID)

	require.NoError(t, f.svc.Like(ctx, user.ID.Hex(), media.ID.Hex()))

	err := f.svc.Like(ctx, user.ID.Hex(), media.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlreadyLiked, apperr.MessageOf(err))

	require.NoError(t, f.svc.Dislike(ctx, user.ID.Hex(), media.ID.Hex()))

	err = f.svc.Dislike(ctx, user.ID.Hex(), media.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgNotLiked, apperr.MessageOf(err))
}

func TestRepeatVisitIsNoOp(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	media := testutil.SeedDocMedia(t, f.medias, "intro", user.ID)

	require.NoError(t, f.svc.Visit(ctx, user.ID.Hex(), media.ID.Hex()))
	require.NoError(t, f.svc.Visit(ctx, user.ID.Hex(), media.ID.Hex()))

	storedUser, err := f.users.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	storedMedia, err := f.medias.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, storedUser.VisitedMedias, 1)
	assert.Len(t, storedMedia.VisitedUsers, 1)
}

func TestFollowingsSkipsVanishedArtists(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	kept := testutil.SeedDocArtist(t, f.artists, "kept")
	doomed := testutil.SeedDocArtist(t, f.artists, "doomed")

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), kept.ID.Hex()))
	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), doomed.ID.Hex()))

	// the artist vanishes without its followers being cleaned up
	require.NoError(t, f.artists.DeleteByID(ctx, doomed.ID.Hex()))

	artists, err := f.svc.Followings(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "kept", artists[0].ArtisticName)
}

func TestFollowersResolvesUsers(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	a := testutil.SeedDocUser(t, f.users, "ali")
	b := testutil.SeedDocUser(t, f.users, "sara")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	require.NoError(t, f.svc.Follow(ctx, a.ID.Hex(), artist.ID.Hex()))
	require.NoError(t, f.svc.Follow(ctx, b.ID.Hex(), artist.ID.Hex()))

	followers, err := f.svc.Followers(ctx, artist.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, followers, 2)
}

func TestLikeThroughCachedRepositoryKeepsEarlierLikes(t *testing.T) {
	// the link service reads medias before mutating them; a cache hit must
	// hand back the full document or the second like erases the first
	f := newDocLinkFixture(t)
	cached := repositories.NewCachedMediaRepository(f.medias, cache.NewMemoryCache(), testutil.DiscardLogger())
	svc := NewDocumentLinkService(f.users, f.artists, cached, testutil.DiscardLogger())
	ctx := context.Background()

	alice := testutil.SeedDocUser(t, f.users, "alice")
	bob := testutil.SeedDocUser(t, f.users, "bob")
	media := testutil.SeedDocMedia(t, f.medias, "intro", alice.ID)

	require.NoError(t, svc.Like(ctx, alice.ID.Hex(), media.ID.Hex()))
	// warm the cache the way a catalog read would
	_, err := cached.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	require.NoError(t, svc.Like(ctx, bob.ID.Hex(), media.ID.Hex()))

	stored, err := f.medias.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.True(t, rules.ContainsID(stored.LikedUsers, alice.ID))
	assert.True(t, rules.ContainsID(stored.LikedUsers, bob.ID))
}

func TestLikedUsersResolvesFromMediaSide(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	a := testutil.SeedDocUser(t, f.users, "ali")
	b := testutil.SeedDocUser(t, f.users, "sara")
	media := testutil.SeedDocMedia(t, f.medias, "intro", a.ID)

	require.NoError(t, f.svc.Like(ctx, a.ID.Hex(), media.ID.Hex()))
	require.NoError(t, f.svc.Like(ctx, b.ID.Hex(), media.ID.Hex()))
	require.NoError(t, f.svc.Visit(ctx, a.ID.Hex(), media.ID.Hex()))

	likers, err := f.svc.LikedUsers(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, likers, 2)

	visitors, err := f.svc.VisitedUsers(ctx, media.ID.Hex())
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "ali", visitors[0].Username)
}

func TestStaleReplaceLastWriteWins(t *testing.T) {
	// whole-document replaces have no versioning: a writer holding a stale
	// copy silently erases a link made in between. The user-side check still
	// lets a repeat follow rebuild it.
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	stale, err := f.users.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))
	require.NoError(t, f.users.ReplaceOne(ctx, stale))

	storedUser, storedArtist := f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.False(t, rules.ContainsID(storedUser.FollowingArtists, artist.ID))
	assert.True(t, rules.ContainsID(storedArtist.Followers, user.ID))

	require.NoError(t, f.svc.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))

	storedUser, storedArtist = f.reload(t, user.ID.Hex(), artist.ID.Hex())
	assert.Len(t, storedUser.FollowingArtists, 1)
	assert.Len(t, storedArtist.Followers, 1)
}

func TestLikedMediasResolvesInOrder(t *testing.T) {
	f := newDocLinkFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	first := testutil.SeedDocMedia(t, f.medias, "first", user.ID)
	second := testutil.SeedDocMedia(t, f.medias, "second", user.ID)

	require.NoError(t, f.svc.Like(ctx, user.ID.Hex(), first.ID.Hex()))
	require.NoError(t, f.svc.Like(ctx, user.ID.Hex(), second.ID.Hex()))

	medias, err := f.svc.LikedMedias(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, medias, 2)
	assert.Equal(t, "first", medias[0].Title)
	assert.Equal(t, "second", medias[1].Title)
}
