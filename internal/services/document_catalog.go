package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/rules"
	"tunevault/internal/storage"
)

// DocumentCatalogService owns catalog CRUD on the document backend. Deleting
// an entity must also erase its id from every document still referencing it;
// with no secondary index of back-references that is a scan over the
// referencing collection, filtered to documents whose link list contains the
// id.
type DocumentCatalogService struct {
	users   repositories.DocumentRepository[*models.DocUser]
	artists repositories.DocumentRepository[*models.DocArtist]
	albums  repositories.DocumentRepository[*models.DocAlbum]
	medias  repositories.DocumentRepository[*models.DocMedia]
	files   *storage.FileStore
	log     *slog.Logger
}

func NewDocumentCatalogService(
	users repositories.DocumentRepository[*models.DocUser],
	artists repositories.DocumentRepository[*models.DocArtist],
	albums repositories.DocumentRepository[*models.DocAlbum],
	medias repositories.DocumentRepository[*models.DocMedia],
	files *storage.FileStore,
	log *slog.Logger,
) *DocumentCatalogService {
	return &DocumentCatalogService{
		users: users, artists: artists, albums: albums,
		medias: medias, files: files, log: log,
	}
}

// Users

func (s *DocumentCatalogService) ListUsers(ctx context.Context) ([]*models.DocUser, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return users, nil
}

func (s *DocumentCatalogService) GetUser(ctx context.Context, id string) (*models.DocUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return user, nil
}

func (s *DocumentCatalogService) UpdateUserProfile(ctx context.Context, id, fullName, bio string) (*models.DocUser, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName
	user.Bio = bio
	if err := rules.ValidateUser(user.Username, user.FullName); err != nil {
		return nil, err
	}
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DocumentCatalogService) SetUserAvatar(ctx context.Context, id, avatarPath string) (*models.DocUser, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	old := user.AvatarPath
	user.AvatarPath = avatarPath
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		return nil, err
	}
	if old != "" && old != avatarPath {
		if err := s.files.Delete(old); err != nil {
			s.log.Warn("failed to delete replaced avatar", "path", old, "error", err)
		}
	}
	return user, nil
}

// DeleteUser removes the account and scrubs its id out of every artist and
// media that still lists it. The last admin cannot be deleted.
func (s *DocumentCatalogService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if rules.ContainsID(user.Roles, models.RoleAdmin) {
		admins, err := s.users.Filter(ctx, bson.M{"roles": models.RoleAdmin})
		if err != nil {
			return err
		}
		others := 0
		for _, admin := range admins {
			if admin.ID != user.ID {
				others++
			}
		}
		if err := rules.CanRemoveAdmin(others); err != nil {
			return err
		}
	}

	artists, err := s.artists.Filter(ctx, bson.M{"followers": user.ID})
	if err != nil {
		return err
	}
	for _, artist := range artists {
		artist.Followers, _ = rules.RemoveID(artist.Followers, user.ID)
		if err := s.artists.ReplaceOne(ctx, artist); err != nil {
			return err
		}
	}

	medias, err := s.medias.Filter(ctx, bson.M{"$or": []bson.M{
		{"liked_users": user.ID},
		{"visited_users": user.ID},
	}})
	if err != nil {
		return err
	}
	for _, media := range medias {
		media.LikedUsers, _ = rules.RemoveID(media.LikedUsers, user.ID)
		media.VisitedUsers, _ = rules.RemoveID(media.VisitedUsers, user.ID)
		if err := s.medias.ReplaceOne(ctx, media); err != nil {
			return err
		}
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.files.Delete(user.AvatarPath); err != nil {
		s.log.Warn("failed to delete user avatar", "path", user.AvatarPath, "error", err)
	}
	return nil
}

// Artists

func (s *DocumentCatalogService) CreateArtist(ctx context.Context, artist *models.DocArtist) error {
	return s.artists.InsertOne(ctx, artist)
}

func (s *DocumentCatalogService) ListArtists(ctx context.Context) ([]*models.DocArtist, error) {
	artists, err := s.artists.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return artists, nil
}

func (s *DocumentCatalogService) GetArtist(ctx context.Context, id string) (*models.DocArtist, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, apperr.NotFoundf("artist not found")
	}
	return artist, nil
}

func (s *DocumentCatalogService) UpdateArtist(ctx context.Context, artist *models.DocArtist) error {
	if err := rules.ValidateArtist(artist.ArtisticName); err != nil {
		return err
	}
	return s.artists.ReplaceOne(ctx, artist)
}

// DeleteArtist removes an artist with no remaining albums and strips the
// artist from every follower's list.
func (s *DocumentCatalogService) DeleteArtist(ctx context.Context, id string) error {
	artist, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.CanDeleteArtist(len(artist.Albums)); err != nil {
		return err
	}

	followers, err := s.users.Filter(ctx, bson.M{"following_artists": artist.ID})
	if err != nil {
		return err
	}
	for _, user := range followers {
		user.FollowingArtists, _ = rules.RemoveID(user.FollowingArtists, artist.ID)
		if err := s.users.ReplaceOne(ctx, user); err != nil {
			return err
		}
	}

	if err := s.artists.DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.files.Delete(artist.AvatarPath); err != nil {
		s.log.Warn("failed to delete artist avatar", "path", artist.AvatarPath, "error", err)
	}
	return nil
}

// Albums

// CreateAlbum inserts the album and links it into each owning artist's album
// list. At least one artist is required.
func (s *DocumentCatalogService) CreateAlbum(ctx context.Context, album *models.DocAlbum, artistIDs []string) error {
	if len(artistIDs) == 0 {
		return apperr.BadRequestf(rules.MsgAlbumNeedsArtist)
	}
	if err := rules.ValidateAlbum(album.Title, album.Genre); err != nil {
		return err
	}

	artists := make([]*models.DocArtist, 0, len(artistIDs))
	for _, id := range artistIDs {
		artist, err := s.GetArtist(ctx, id)
		if err != nil {
			return err
		}
		artists = append(artists, artist)
		album.Artists, _ = rules.AddID(album.Artists, artist.ID)
	}

	if err := s.albums.InsertOne(ctx, album); err != nil {
		return err
	}
	for _, artist := range artists {
		artist.Albums, _ = rules.AddID(artist.Albums, album.ID)
		if err := s.artists.ReplaceOne(ctx, artist); err != nil {
			return err
		}
	}
	return nil
}

func (s *DocumentCatalogService) ListAlbums(ctx context.Context) ([]*models.DocAlbum, error) {
	albums, err := s.albums.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(albums) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return albums, nil
}

func (s *DocumentCatalogService) GetAlbum(ctx context.Context, id string) (*models.DocAlbum, error) {
	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, apperr.NotFoundf("album not found")
	}
	return album, nil
}

func (s *DocumentCatalogService) UpdateAlbum(ctx context.Context, album *models.DocAlbum) error {
	if err := rules.ValidateAlbum(album.Title, album.Genre); err != nil {
		return err
	}
	return s.albums.ReplaceOne(ctx, album)
}

// AddAlbumArtist links one more artist to the album, album side first so a
// retry repairs a half-written link.
func (s *DocumentCatalogService) AddAlbumArtist(ctx context.Context, albumID, artistID string) error {
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	artist, err := s.GetArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if rules.ContainsID(album.Artists, artist.ID) {
		return apperr.BadRequestf("artist is already linked to this album")
	}

	album.Artists, _ = rules.AddID(album.Artists, artist.ID)
	if err := s.albums.ReplaceOne(ctx, album); err != nil {
		return err
	}
	artist.Albums, _ = rules.AddID(artist.Albums, album.ID)
	return s.artists.ReplaceOne(ctx, artist)
}

// RemoveAlbumArtist unlinks an artist, refusing to leave the album unowned.
func (s *DocumentCatalogService) RemoveAlbumArtist(ctx context.Context, albumID, artistID string) error {
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	artist, err := s.GetArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if !rules.ContainsID(album.Artists, artist.ID) {
		return apperr.NotFoundf("artist is not linked to this album")
	}
	if len(album.Artists) <= 1 {
		return apperr.BadRequestf(rules.MsgAlbumNeedsArtist)
	}

	album.Artists, _ = rules.RemoveID(album.Artists, artist.ID)
	if err := s.albums.ReplaceOne(ctx, album); err != nil {
		return err
	}
	artist.Albums, _ = rules.RemoveID(artist.Albums, album.ID)
	return s.artists.ReplaceOne(ctx, artist)
}

// DeleteAlbum removes an album with no remaining medias, strips it from its
// artists and deletes the artwork file.
func (s *DocumentCatalogService) DeleteAlbum(ctx context.Context, id string) error {
	album, err := s.GetAlbum(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.CanDeleteAlbum(len(album.Medias)); err != nil {
		return err
	}

	owners, err := s.artists.Filter(ctx, bson.M{"albums": album.ID})
	if err != nil {
		return err
	}
	for _, artist := range owners {
		artist.Albums, _ = rules.RemoveID(artist.Albums, album.ID)
		if err := s.artists.ReplaceOne(ctx, artist); err != nil {
			return err
		}
	}

	if err := s.albums.DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.files.Delete(album.ArtworkPath); err != nil {
		s.log.Warn("failed to delete album artwork", "path", album.ArtworkPath, "error", err)
	}
	return nil
}

// Medias

// CreateMedia inserts a media after the album agrees to take it, then links
// the media into the album's list.
func (s *DocumentCatalogService) CreateMedia(ctx context.Context, media *models.DocMedia) error {
	album, err := s.GetAlbum(ctx, media.AlbumID.Hex())
	if err != nil {
		return err
	}
	if err := rules.AlbumAccepts(album.IsSingle, album.IsComplete, len(album.Medias)); err != nil {
		return err
	}

	if err := s.medias.InsertOne(ctx, media); err != nil {
		return err
	}
	album.Medias, _ = rules.AddID(album.Medias, media.ID)
	return s.albums.ReplaceOne(ctx, album)
}

func (s *DocumentCatalogService) ListMedias(ctx context.Context) ([]*models.DocMedia, error) {
	medias, err := s.medias.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(medias) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return medias, nil
}

func (s *DocumentCatalogService) GetMedia(ctx context.Context, id string) (*models.DocMedia, error) {
	media, err := s.medias.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFoundf("media not found")
	}
	return media, nil
}

func (s *DocumentCatalogService) UpdateMedia(ctx context.Context, media *models.DocMedia) error {
	if err := rules.ValidateMedia(media.Title, media.FilePath, media.TrackNumber); err != nil {
		return err
	}
	return s.medias.ReplaceOne(ctx, media)
}

// MoveMedia reassigns a media to another album: add to the new album's list,
// strip from the old one, then repoint the media itself. The media is written
// last so a retry after a partial failure finds the album lists already
// settled and the idempotent set operations finish the move.
func (s *DocumentCatalogService) MoveMedia(ctx context.Context, mediaID, albumID string) error {
	media, err := s.GetMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	target, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if media.AlbumID == target.ID {
		return nil
	}
	// a retried move may have already placed the media in the target list;
	// only a genuinely new placement is held to the capacity rules
	if !rules.ContainsID(target.Medias, media.ID) {
		if err := rules.AlbumAccepts(target.IsSingle, target.IsComplete, len(target.Medias)); err != nil {
			return err
		}
		target.Medias, _ = rules.AddID(target.Medias, media.ID)
		if err := s.albums.ReplaceOne(ctx, target); err != nil {
			return err
		}
	}

	old, err := s.albums.FindByID(ctx, media.AlbumID.Hex())
	if err != nil {
		return err
	}
	if old != nil {
		old.Medias, _ = rules.RemoveID(old.Medias, media.ID)
		if err := s.albums.ReplaceOne(ctx, old); err != nil {
			return err
		}
	}

	media.AlbumID = target.ID
	if err := s.medias.ReplaceOne(ctx, media); err != nil {
		s.log.Warn("media move left half-applied, retry will repair",
			"media_id", mediaID, "album_id", albumID, "error", err)
		return err
	}
	return nil
}

// DeleteMedia removes the media, strips it from its album and from every
// user's like and visit lists, and deletes its files.
func (s *DocumentCatalogService) DeleteMedia(ctx context.Context, id string) error {
	media, err := s.GetMedia(ctx, id)
	if err != nil {
		return err
	}

	album, err := s.albums.FindByID(ctx, media.AlbumID.Hex())
	if err != nil {
		return err
	}
	if album != nil {
		album.Medias, _ = rules.RemoveID(album.Medias, media.ID)
		if err := s.albums.ReplaceOne(ctx, album); err != nil {
			return err
		}
	}

	users, err := s.users.Filter(ctx, bson.M{"$or": []bson.M{
		{"liked_medias": media.ID},
		{"visited_medias": media.ID},
	}})
	if err != nil {
		return err
	}
	for _, user := range users {
		user.LikedMedias, _ = rules.RemoveID(user.LikedMedias, media.ID)
		user.VisitedMedias, _ = rules.RemoveID(user.VisitedMedias, media.ID)
		if err := s.users.ReplaceOne(ctx, user); err != nil {
			return err
		}
	}

	if err := s.medias.DeleteByID(ctx, id); err != nil {
		return err
	}
	for _, path := range []string{media.FilePath, media.ArtworkPath} {
		if err := s.files.Delete(path); err != nil {
			s.log.Warn("failed to delete media file", "path", path, "error", err)
		}
	}
	return nil
}
