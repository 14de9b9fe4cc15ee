package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/rules"
	"tunevault/internal/storage"
	"tunevault/internal/testutil"
)

type docCatalogFixture struct {
	svc     *DocumentCatalogService
	users   *testutil.DocStore[models.DocUser, *models.DocUser]
	artists *testutil.DocStore[models.DocArtist, *models.DocArtist]
	albums  *testutil.DocStore[models.DocAlbum, *models.DocAlbum]
	medias  *testutil.DocStore[models.DocMedia, *models.DocMedia]
	links   *DocumentLinkService
}

func newDocCatalogFixture(t *testing.T) *docCatalogFixture {
	t.Helper()
	f := &docCatalogFixture{
		users:   testutil.NewDocStore[models.DocUser, *models.DocUser](),
		artists: testutil.NewDocStore[models.DocArtist, *models.DocArtist](),
		albums:  testutil.NewDocStore[models.DocAlbum, *models.DocAlbum](),
		medias:  testutil.NewDocStore[models.DocMedia, *models.DocMedia](),
	}
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	log := testutil.DiscardLogger()
	f.svc = NewDocumentCatalogService(f.users, f.artists, f.albums, f.medias, files, log)
	f.links = NewDocumentLinkService(f.users, f.artists, f.medias, log)
	return f
}

func TestCreateAlbumRequiresArtist(t *testing.T) {
	f := newDocCatalogFixture(t)

	album := models.NewDocAlbum("Silent City")
	album.Genre = "classical"
	err := f.svc.CreateAlbum(context.Background(), album, nil)
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumNeedsArtist, apperr.MessageOf(err))
}

func TestCreateAlbumLinksArtists(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	album := models.NewDocAlbum("Silent City")
	album.Genre = "classical"
	require.NoError(t, f.svc.CreateAlbum(ctx, album, []string{artist.ID.Hex()}))

	stored, err := f.artists.FindByID(ctx, artist.ID.Hex())
	require.NoError(t, err)
	assert.True(t, rules.ContainsID(stored.Albums, album.ID))
	assert.True(t, rules.ContainsID(album.Artists, artist.ID))
}

func TestCreateMediaRespectsAlbumRules(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	single := testutil.SeedDocAlbum(t, f.albums, "One Track", artist.ID)
	single.IsSingle = true
	require.NoError(t, f.albums.ReplaceOne(ctx, single))

	first := models.NewDocMedia("only track", models.MediaTypeMusic)
	first.FilePath = "media_files/only.mp3"
	first.TrackNumber = 1
	first.AlbumID = single.ID
	require.NoError(t, f.svc.CreateMedia(ctx, first))

	storedAlbum, err := f.albums.FindByID(ctx, single.ID.Hex())
	require.NoError(t, err)
	assert.True(t, rules.ContainsID(storedAlbum.Medias, first.ID))

	second := models.NewDocMedia("one too many", models.MediaTypeMusic)
	second.FilePath = "media_files/extra.mp3"
	second.TrackNumber = 2
	second.AlbumID = single.ID
	err = f.svc.CreateMedia(ctx, second)
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumIsSingle, apperr.MessageOf(err))
}

func TestCreateMediaRejectsCompletedAlbum(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	album := testutil.SeedDocAlbum(t, f.albums, "Done", artist.ID)
	album.IsComplete = true
	require.NoError(t, f.albums.ReplaceOne(ctx, album))

	media := models.NewDocMedia("late arrival", models.MediaTypeMusic)
	media.FilePath = "media_files/late.mp3"
	media.TrackNumber = 1
	media.AlbumID = album.ID
	err := f.svc.CreateMedia(ctx, media)
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumIsComplete, apperr.MessageOf(err))
}

func TestDeleteArtistBlockedByAlbums(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")

	album := models.NewDocAlbum("Silent City")
	album.Genre = "classical"
	require.NoError(t, f.svc.CreateAlbum(ctx, album, []string{artist.ID.Hex()}))

	err := f.svc.DeleteArtist(ctx, artist.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgArtistHasAlbums, apperr.MessageOf(err))
}

func TestDeleteArtistStripsFollowers(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	require.NoError(t, f.links.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))

	require.NoError(t, f.svc.DeleteArtist(ctx, artist.ID.Hex()))

	stored, err := f.users.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.FollowingArtists)
	assert.Equal(t, 0, f.artists.Len())
}

func TestDeleteAlbumBlockedByMedias(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	album := testutil.SeedDocAlbum(t, f.albums, "Silent City", artist.ID)

	media := models.NewDocMedia("intro", models.MediaTypeMusic)
	media.FilePath = "media_files/intro.mp3"
	media.TrackNumber = 1
	media.AlbumID = album.ID
	require.NoError(t, f.svc.CreateMedia(ctx, media))

	err := f.svc.DeleteAlbum(ctx, album.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumHasMedias, apperr.MessageOf(err))

	// delete the media first, then the album goes and the artist is unlinked
	require.NoError(t, f.svc.DeleteMedia(ctx, media.ID.Hex()))
	require.NoError(t, f.svc.DeleteAlbum(ctx, album.ID.Hex()))

	stored, err := f.artists.FindByID(ctx, artist.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.Albums)
}

func TestDeleteMediaScrubsUserLists(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	album := testutil.SeedDocAlbum(t, f.albums, "Silent City", artist.ID)
	media := testutil.SeedDocMedia(t, f.medias, "intro", album.ID)

	require.NoError(t, f.links.Like(ctx, user.ID.Hex(), media.ID.Hex()))
	require.NoError(t, f.links.Visit(ctx, user.ID.Hex(), media.ID.Hex()))

	require.NoError(t, f.svc.DeleteMedia(ctx, media.ID.Hex()))

	stored, err := f.users.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.LikedMedias)
	assert.Empty(t, stored.VisitedMedias)
	assert.Equal(t, 0, f.medias.Len())
}

func TestDeleteUserScrubsReferences(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	user := testutil.SeedDocUser(t, f.users, "ali")
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	media := testutil.SeedDocMedia(t, f.medias, "intro", artist.ID)

	require.NoError(t, f.links.Follow(ctx, user.ID.Hex(), artist.ID.Hex()))
	require.NoError(t, f.links.Like(ctx, user.ID.Hex(), media.ID.Hex()))
	require.NoError(t, f.links.Visit(ctx, user.ID.Hex(), media.ID.Hex()))

	require.NoError(t, f.svc.DeleteUser(ctx, user.ID.Hex()))

	storedArtist, err := f.artists.FindByID(ctx, artist.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, storedArtist.Followers)

	storedMedia, err := f.medias.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, storedMedia.LikedUsers)
	assert.Empty(t, storedMedia.VisitedUsers)
	assert.Equal(t, 0, f.users.Len())
}

func TestDeleteLastAdminUserRefused(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()

	admin := testutil.SeedDocUser(t, f.users, "boss")
	admin.Roles = append(admin.Roles, models.RoleAdmin)
	require.NoError(t, f.users.ReplaceOne(ctx, admin))

	err := f.svc.DeleteUser(ctx, admin.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.LogicError))
	assert.Equal(t, rules.MsgLastAdmin, apperr.MessageOf(err))

	backup := testutil.SeedDocUser(t, f.users, "backup")
	backup.Roles = append(backup.Roles, models.RoleAdmin)
	require.NoError(t, f.users.ReplaceOne(ctx, backup))

	require.NoError(t, f.svc.DeleteUser(ctx, admin.ID.Hex()))
	assert.Equal(t, 1, f.users.Len())
}

func TestRemoveAlbumArtistKeepsLastOwner(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	a := testutil.SeedDocArtist(t, f.artists, "first")
	b := testutil.SeedDocArtist(t, f.artists, "second")

	album := models.NewDocAlbum("Duet")
	album.Genre = "jazz"
	require.NoError(t, f.svc.CreateAlbum(ctx, album, []string{a.ID.Hex(), b.ID.Hex()}))

	require.NoError(t, f.svc.RemoveAlbumArtist(ctx, album.ID.Hex(), b.ID.Hex()))

	err := f.svc.RemoveAlbumArtist(ctx, album.ID.Hex(), a.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumNeedsArtist, apperr.MessageOf(err))
}

func TestMoveMediaBetweenAlbums(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	source := testutil.SeedDocAlbum(t, f.albums, "Source", artist.ID)
	target := testutil.SeedDocAlbum(t, f.albums, "Target", artist.ID)

	media := models.NewDocMedia("wanderer", models.MediaTypeMusic)
	media.FilePath = "media_files/wanderer.mp3"
	media.TrackNumber = 1
	media.AlbumID = source.ID
	require.NoError(t, f.svc.CreateMedia(ctx, media))

	require.NoError(t, f.svc.MoveMedia(ctx, media.ID.Hex(), target.ID.Hex()))

	storedSource, err := f.albums.FindByID(ctx, source.ID.Hex())
	require.NoError(t, err)
	storedTarget, err := f.albums.FindByID(ctx, target.ID.Hex())
	require.NoError(t, err)
	storedMedia, err := f.medias.FindByID(ctx, media.ID.Hex())
	require.NoError(t, err)

	assert.False(t, rules.ContainsID(storedSource.Medias, media.ID))
	assert.True(t, rules.ContainsID(storedTarget.Medias, media.ID))
	assert.Equal(t, target.ID, storedMedia.AlbumID)

	// moving again to the same album is a no-op
	require.NoError(t, f.svc.MoveMedia(ctx, media.ID.Hex(), target.ID.Hex()))
	storedTarget, err = f.albums.FindByID(ctx, target.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, storedTarget.Medias, 1)
}

func TestMoveMediaRejectsFullSingle(t *testing.T) {
	f := newDocCatalogFixture(t)
	ctx := context.Background()
	artist := testutil.SeedDocArtist(t, f.artists, "Kayhan Kalhor")
	source := testutil.SeedDocAlbum(t, f.albums, "Source", artist.ID)
	single := testutil.SeedDocAlbum(t, f.albums, "One Track", artist.ID)
	single.IsSingle = true
	require.NoError(t, f.albums.ReplaceOne(ctx, single))

	occupant := models.NewDocMedia("occupant", models.MediaTypeMusic)
	occupant.FilePath = "media_files/occupant.mp3"
	occupant.TrackNumber = 1
	occupant.AlbumID = single.ID
	require.NoError(t, f.svc.CreateMedia(ctx, occupant))

	media := models.NewDocMedia("hopeful", models.MediaTypeMusic)
	media.FilePath = "media_files/hopeful.mp3"
	media.TrackNumber = 1
	media.AlbumID = source.ID
	require.NoError(t, f.svc.CreateMedia(ctx, media))

	err := f.svc.MoveMedia(ctx, media.ID.Hex(), single.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlbumIsSingle, apperr.MessageOf(err))
}

func TestListEmptyCollections(t *testing.T) {
	f := newDocCatalogFixture(t)

	_, err := f.svc.ListArtists(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ListEmpty))
}
