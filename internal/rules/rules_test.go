package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/apperr"
)

func TestAddIDIsIdempotent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	list, changed := AddID(nil, a)
	assert.True(t, changed)
	assert.Equal(t, []primitive.ObjectID{a}, list)

	list, changed = AddID(list, a)
	assert.False(t, changed)
	assert.Len(t, list, 1)

	list, changed = AddID(list, b)
	assert.True(t, changed)
	assert.Len(t, list, 2)
}

func TestRemoveID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	list := []primitive.ObjectID{a, b}

	list, changed := RemoveID(list, a)
	assert.True(t, changed)
	assert.Equal(t, []primitive.ObjectID{b}, list)

	list, changed = RemoveID(list, a)
	assert.False(t, changed)
	assert.Len(t, list, 1)
}

func TestContainsID(t *testing.T) {
	a := primitive.NewObjectID()
	assert.False(t, ContainsID(nil, a))
	assert.True(t, ContainsID([]primitive.ObjectID{a}, a))
	assert.True(t, ContainsID([]string{"Admin", "User"}, "Admin"))
}

func TestAlbumAccepts(t *testing.T) {
	tests := []struct {
		name       string
		isSingle   bool
		isComplete bool
		mediaCount int
		wantMsg    string
	}{
		{"empty open album", false, false, 0, ""},
		{"open album with tracks", false, false, 7, ""},
		{"empty single", true, false, 0, ""},
		{"full single", true, false, 1, MsgAlbumIsSingle},
		{"completed album", false, true, 3, MsgAlbumIsComplete},
		{"completed empty album", false, true, 0, MsgAlbumIsComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AlbumAccepts(tt.isSingle, tt.isComplete, tt.mediaCount)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantMsg)
			assert.True(t, apperr.Is(err, apperr.BadRequest))
		})
	}
}

func TestDeletionPreconditions(t *testing.T) {
	assert.NoError(t, CanDeleteAlbum(0))
	assert.EqualError(t, CanDeleteAlbum(2), MsgAlbumHasMedias)

	assert.NoError(t, CanDeleteArtist(0))
	assert.EqualError(t, CanDeleteArtist(1), MsgArtistHasAlbums)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateUser("ali", "Ali Rezaei"))
	assert.Error(t, ValidateUser("", "Ali"))
	assert.Error(t, ValidateUser("a-very-long-username-over-20", "Ali"))
	assert.Error(t, ValidateUser("ali", ""))

	assert.NoError(t, ValidateArtist("Kayhan Kalhor"))
	assert.Error(t, ValidateArtist(""))

	assert.NoError(t, ValidateAlbum("Silent City", "classical"))
	assert.Error(t, ValidateAlbum("", "classical"))
	assert.Error(t, ValidateAlbum("Silent City", ""))

	assert.NoError(t, ValidateMedia("Intro", "media_files/intro.mp3", 1))
	assert.Error(t, ValidateMedia("", "media_files/intro.mp3", 1))
	assert.Error(t, ValidateMedia("Intro", "", 1))
	assert.Error(t, ValidateMedia("Intro", "media_files/intro.mp3", 0))
}
