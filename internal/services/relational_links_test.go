package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/rules"
	"tunevault/internal/testutil"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateRelational(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, FullName: username + " full", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedArtist(t *testing.T, db *gorm.DB, name string) *models.Artist {
	t.Helper()
	artist := &models.Artist{ArtisticName: name}
	require.NoError(t, db.Create(artist).Error)
	return artist
}

func seedMedia(t *testing.T, db *gorm.DB, title string) *models.Media {
	t.Helper()
	album := &models.Album{Title: title + " album", Genre: "rock", ReleaseDate: time.Now()}
	require.NoError(t, db.Create(album).Error)
	media := &models.Media{
		Title: title, Type: models.MediaTypeMusic,
		FilePath: "media_files/" + title + ".mp3", TrackNumber: 1, AlbumID: album.ID,
	}
	require.NoError(t, db.Create(media).Error)
	return media
}

func TestRelationalFollowAndUnfollow(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")
	artist := seedArtist(t, db, "Kayhan Kalhor")

	require.NoError(t, svc.Follow(ctx, user.ID, artist.ID))

	err := svc.Follow(ctx, user.ID, artist.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.LogicError))
	assert.Equal(t, rules.MsgAlreadyFollowing, apperr.MessageOf(err))

	artists, err := svc.Followings(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Kayhan Kalhor", artists[0].ArtisticName)

	followers, err := svc.Followers(ctx, artist.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "ali", followers[0].Username)

	require.NoError(t, svc.Unfollow(ctx, user.ID, artist.ID))

	err = svc.Unfollow(ctx, user.ID, artist.ID)
	require.Error(t, err)
	assert.Equal(t, rules.MsgNotFollowing, apperr.MessageOf(err))
}

func TestRelationalFollowMissingEntities(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")

	err := svc.Follow(ctx, user.ID, 9999)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = svc.Follow(ctx, 9999, 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestRelationalLikeAndDislike(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")
	media := seedMedia(t, db, "intro")

	require.NoError(t, svc.Like(ctx, user.ID, media.ID))

	err := svc.Like(ctx, user.ID, media.ID)
	require.Error(t, err)
	assert.Equal(t, rules.MsgAlreadyLiked, apperr.MessageOf(err))

	liked, err := svc.LikedMedias(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "intro", liked[0].Title)

	require.NoError(t, svc.Dislike(ctx, user.ID, media.ID))

	err = svc.Dislike(ctx, user.ID, media.ID)
	require.Error(t, err)
	assert.Equal(t, rules.MsgNotLiked, apperr.MessageOf(err))
}

func TestRelationalRevisitRefreshesTimestamp(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")
	media := seedMedia(t, db, "intro")

	require.NoError(t, svc.Visit(ctx, user.ID, media.ID))

	var first models.VisitedMedia
	require.NoError(t, db.Where("user_id = ? AND media_id = ?", user.ID, media.ID).First(&first).Error)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, svc.Visit(ctx, user.ID, media.ID))

	var rows []models.VisitedMedia
	require.NoError(t, db.Where("user_id = ? AND media_id = ?", user.ID, media.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Timestamp.After(first.Timestamp))
}

func TestRelationalVisitedMediasOrdered(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")
	first := seedMedia(t, db, "first")
	second := seedMedia(t, db, "second")

	require.NoError(t, svc.Visit(ctx, user.ID, first.ID))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, svc.Visit(ctx, user.ID, second.ID))

	visited, err := svc.VisitedMedias(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, visited, 2)
	assert.Equal(t, "first", visited[0].Title)
	assert.Equal(t, "second", visited[1].Title)
}

func TestRelationalLikedAndVisitedUsers(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	a := seedUser(t, db, "ali")
	b := seedUser(t, db, "sara")
	media := seedMedia(t, db, "intro")

	require.NoError(t, svc.Like(ctx, a.ID, media.ID))
	require.NoError(t, svc.Like(ctx, b.ID, media.ID))
	require.NoError(t, svc.Visit(ctx, a.ID, media.ID))

	likers, err := svc.LikedUsers(ctx, media.ID)
	require.NoError(t, err)
	assert.Len(t, likers, 2)

	visitors, err := svc.VisitedUsers(ctx, media.ID)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "ali", visitors[0].Username)

	_, err = svc.LikedUsers(ctx, media.ID+1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestRelationalUnlinkMissingEntitiesIsNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewRelationalLinkService(db, testutil.DiscardLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ali")
	artist := seedArtist(t, db, "Kayhan Kalhor")
	media := seedMedia(t, db, "intro")

	// a nonexistent party is a 404, matching the create path, not a
	// "not following" rule violation
	err := svc.Unfollow(ctx, user.ID+99, artist.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = svc.Unfollow(ctx, user.ID, artist.ID+99)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = svc.Dislike(ctx, user.ID+99, media.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
