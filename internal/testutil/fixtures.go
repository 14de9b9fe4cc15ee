package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/models"
)

// SeedDocUser inserts a document user and returns it.
func SeedDocUser(t *testing.T, store *DocStore[models.DocUser, *models.DocUser], username string) *models.DocUser {
	t.Helper()
	user := models.NewDocUser(username, username+" full")
	user.PasswordHash = "irrelevant"
	if err := store.InsertOne(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedDocArtist inserts a document artist and returns it.
func SeedDocArtist(t *testing.T, store *DocStore[models.DocArtist, *models.DocArtist], name string) *models.DocArtist {
	t.Helper()
	artist := models.NewDocArtist(name)
	if err := store.InsertOne(context.Background(), artist); err != nil {
		t.Fatalf("seed artist: %v", err)
	}
	return artist
}

// SeedDocAlbum inserts a document album owned by the given artists.
func SeedDocAlbum(t *testing.T, store *DocStore[models.DocAlbum, *models.DocAlbum], title string, artistIDs ...primitive.ObjectID) *models.DocAlbum {
	t.Helper()
	album := models.NewDocAlbum(title)
	album.Genre = "rock"
	album.ReleaseDate = time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	album.Artists = append(album.Artists, artistIDs...)
	if err := store.InsertOne(context.Background(), album); err != nil {
		t.Fatalf("seed album: %v", err)
	}
	return album
}

// SeedDocMedia inserts a document media belonging to the given album.
func SeedDocMedia(t *testing.T, store *DocStore[models.DocMedia, *models.DocMedia], title string, albumID primitive.ObjectID) *models.DocMedia {
	t.Helper()
	media := models.NewDocMedia(title, models.MediaTypeMusic)
	media.FilePath = "media_files/" + title + ".mp3"
	media.TrackNumber = 1
	media.AlbumID = albumID
	if err := store.InsertOne(context.Background(), media); err != nil {
		t.Fatalf("seed media: %v", err)
	}
	return media
}
