// Package rules holds the catalog's business rules as pure functions, written
// once and consumed by both storage backends. The backends differ in how they
// persist a decision; they must never differ in the decision itself.
package rules

import (
	"tunevault/internal/apperr"
)

// User-visible rule-violation messages.
const (
	MsgAlreadyFollowing  = "you are already following this artist"
	MsgNotFollowing      = "you are not following this artist"
	MsgAlreadyLiked      = "this media has already been liked"
	MsgNotLiked          = "this media has not been liked"
	MsgAlbumIsSingle     = "this album is a single and cannot accept another media"
	MsgAlbumIsComplete   = "this album is complete and cannot accept new medias"
	MsgAlbumHasMedias    = "cannot delete: the album still has medias"
	MsgArtistHasAlbums   = "cannot delete: the artist still has albums"
	MsgAlbumNeedsArtist  = "an album requires at least one artist"
	MsgUsernameTaken     = "username is already taken"
	MsgWrongCredentials  = "username or password is incorrect"
	MsgWrongOldPassword  = "the current password is incorrect"
	MsgAccountDisabled   = "this account has been deactivated"
	MsgLastAdmin         = "the last admin account cannot be removed"
)

// AddID appends id to list unless it is already present. The second return
// reports whether the list changed, so retried writes self-heal instead of
// duplicating links.
func AddID[T comparable](list []T, id T) ([]T, bool) {
	if ContainsID(list, id) {
		return list, false
	}
	return append(list, id), true
}

// RemoveID removes id from list. The second return reports whether the list
// changed.
func RemoveID[T comparable](list []T, id T) ([]T, bool) {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// ContainsID reports whether id is present in list.
func ContainsID[T comparable](list []T, id T) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// AlbumAccepts decides whether an album can take one more media. A single
// holds at most one media; a completed album accepts none.
func AlbumAccepts(isSingle, isComplete bool, mediaCount int) error {
	if isSingle && mediaCount > 0 {
		return apperr.BadRequestf(MsgAlbumIsSingle)
	}
	if isComplete {
		return apperr.BadRequestf(MsgAlbumIsComplete)
	}
	return nil
}

// CanRemoveAdmin rejects removing or deactivating an admin account when no
// other admin would remain.
func CanRemoveAdmin(otherAdmins int) error {
	if otherAdmins == 0 {
		return apperr.NewMessage(apperr.LogicError, MsgLastAdmin)
	}
	return nil
}

// CanDeleteAlbum rejects deletion while the album still owns medias.
func CanDeleteAlbum(mediaCount int) error {
	if mediaCount > 0 {
		return apperr.BadRequestf(MsgAlbumHasMedias)
	}
	return nil
}

// CanDeleteArtist rejects deletion while the artist still owns albums.
func CanDeleteArtist(albumCount int) error {
	if albumCount > 0 {
		return apperr.BadRequestf(MsgArtistHasAlbums)
	}
	return nil
}

// ValidateUser checks required account fields.
func ValidateUser(username, fullName string) error {
	if username == "" {
		return apperr.BadRequestf("username is required")
	}
	if len(username) > 20 {
		return apperr.BadRequestf("username must be at most 20 characters")
	}
	if fullName == "" {
		return apperr.BadRequestf("full name is required")
	}
	return nil
}

// ValidateArtist checks required artist fields.
func ValidateArtist(artisticName string) error {
	if artisticName == "" {
		return apperr.BadRequestf("artistic name is required")
	}
	return nil
}

// ValidateAlbum checks required album fields.
func ValidateAlbum(title, genre string) error {
	if title == "" {
		return apperr.BadRequestf("album title is required")
	}
	if genre == "" {
		return apperr.BadRequestf("album genre is required")
	}
	return nil
}

// ValidateMedia checks required media fields.
func ValidateMedia(title, filePath string, trackNumber int) error {
	if title == "" {
		return apperr.BadRequestf("media title is required")
	}
	if filePath == "" {
		return apperr.BadRequestf("media file is required")
	}
	if trackNumber <= 0 {
		return apperr.BadRequestf("track number must be positive")
	}
	return nil
}
