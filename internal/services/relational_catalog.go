package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/rules"
	"tunevault/internal/storage"
)

// RelationalCatalogService owns catalog CRUD on the relational backend:
// artists, albums and medias, plus the constraints tying them together. File
// paths stored on entities are owned by the entity; deleting the entity
// deletes its files.
type RelationalCatalogService struct {
	db      *gorm.DB
	users   *repositories.UserRepository
	artists repositories.Repository[models.Artist]
	albums  repositories.Repository[models.Album]
	medias  repositories.Repository[models.Media]
	files   *storage.FileStore
	log     *slog.Logger
}

func NewRelationalCatalogService(
	db *gorm.DB,
	users *repositories.UserRepository,
	artists repositories.Repository[models.Artist],
	albums repositories.Repository[models.Album],
	medias repositories.Repository[models.Media],
	files *storage.FileStore,
	log *slog.Logger,
) *RelationalCatalogService {
	return &RelationalCatalogService{
		db: db, users: users, artists: artists, albums: albums,
		medias: medias, files: files, log: log,
	}
}

// Users

func (s *RelationalCatalogService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return users, nil
}

func (s *RelationalCatalogService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id, "Roles")
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return user, nil
}

// UpdateUserProfile replaces the caller-editable profile fields.
func (s *RelationalCatalogService) UpdateUserProfile(ctx context.Context, id uint, fullName, bio string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName
	user.Bio = bio
	if err := rules.ValidateUser(user.Username, user.FullName); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserAvatar stores the new avatar path, deleting the previous file.
func (s *RelationalCatalogService) SetUserAvatar(ctx context.Context, id uint, avatarPath string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	old := user.AvatarPath
	user.AvatarPath = avatarPath
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if old != "" && old != avatarPath {
		if err := s.files.Delete(old); err != nil {
			s.log.Warn("failed to delete replaced avatar", "path", old, "error", err)
		}
	}
	return user, nil
}

// DeactivateUser disables the account without destroying its history. The
// last active admin cannot be deactivated.
func (s *RelationalCatalogService) DeactivateUser(ctx context.Context, id uint) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if hasRole(user.Roles, models.RoleAdmin) {
		var others int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("roles.name = ? AND users.is_active = ? AND users.id <> ?", models.RoleAdmin, true, id).
			Count(&others).Error
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if err := rules.CanRemoveAdmin(int(others)); err != nil {
			return err
		}
	}
	user.IsActive = false
	return s.users.Update(ctx, user)
}

func hasRole(roles []models.Role, name string) bool {
	for _, r := range roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Artists

func (s *RelationalCatalogService) CreateArtist(ctx context.Context, artist *models.Artist) error {
	return s.artists.Add(ctx, artist)
}

func (s *RelationalCatalogService) ListArtists(ctx context.Context) ([]models.Artist, error) {
	artists, err := s.artists.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return artists, nil
}

func (s *RelationalCatalogService) GetArtist(ctx context.Context, id uint) (*models.Artist, error) {
	artist, err := s.artists.GetByID(ctx, id, "Albums")
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, apperr.NotFoundf("artist not found")
	}
	return artist, nil
}

func (s *RelationalCatalogService) UpdateArtist(ctx context.Context, artist *models.Artist) error {
	if err := rules.ValidateArtist(artist.ArtisticName); err != nil {
		return err
	}
	return s.artists.Update(ctx, artist)
}

// DeleteArtist removes an artist with no remaining albums, along with their
// follow links and avatar file.
func (s *RelationalCatalogService) DeleteArtist(ctx context.Context, id uint) error {
	artist, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.CanDeleteArtist(len(artist.Albums)); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", id).Delete(&models.Following{}).Error; err != nil {
			return fmt.Errorf("failed to delete follow links: %w", err)
		}
		if err := tx.Delete(&models.Artist{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete artist: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.files.Delete(artist.AvatarPath); err != nil {
		s.log.Warn("failed to delete artist avatar", "path", artist.AvatarPath, "error", err)
	}
	return nil
}

// Albums

// CreateAlbum inserts the album linked to its artists. At least one artist is
// required; an album can never exist unowned.
func (s *RelationalCatalogService) CreateAlbum(ctx context.Context, album *models.Album, artistIDs []uint) error {
	if len(artistIDs) == 0 {
		return apperr.BadRequestf(rules.MsgAlbumNeedsArtist)
	}
	if err := rules.ValidateAlbum(album.Title, album.Genre); err != nil {
		return err
	}

	var artists []models.Artist
	if err := s.db.WithContext(ctx).Find(&artists, artistIDs).Error; err != nil {
		return fmt.Errorf("failed to load artists: %w", err)
	}
	if len(artists) != len(artistIDs) {
		return apperr.NotFoundf("artist not found")
	}

	album.Artists = artists
	return s.albums.Add(ctx, album)
}

func (s *RelationalCatalogService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	albums, err := s.albums.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(albums) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return albums, nil
}

func (s *RelationalCatalogService) GetAlbum(ctx context.Context, id uint) (*models.Album, error) {
	album, err := s.albums.GetByID(ctx, id, "Artists", "Medias")
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, apperr.NotFoundf("album not found")
	}
	return album, nil
}

func (s *RelationalCatalogService) UpdateAlbum(ctx context.Context, album *models.Album) error {
	if err := rules.ValidateAlbum(album.Title, album.Genre); err != nil {
		return err
	}
	return s.albums.Update(ctx, album)
}

// AddAlbumArtist links one more artist to the album.
func (s *RelationalCatalogService) AddAlbumArtist(ctx context.Context, albumID, artistID uint) error {
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	artist, err := s.artists.GetByIDReadOnly(ctx, artistID)
	if err != nil {
		return err
	}
	if artist == nil {
		return apperr.NotFoundf("artist not found")
	}
	if err := s.db.WithContext(ctx).Model(album).Association("Artists").Append(artist); err != nil {
		return fmt.Errorf("failed to link artist: %w", err)
	}
	return nil
}

// RemoveAlbumArtist unlinks an artist, refusing to leave the album unowned.
func (s *RelationalCatalogService) RemoveAlbumArtist(ctx context.Context, albumID, artistID uint) error {
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if !containsArtist(album.Artists, artistID) {
		return apperr.NotFoundf("artist is not linked to this album")
	}
	if len(album.Artists) <= 1 {
		return apperr.BadRequestf(rules.MsgAlbumNeedsArtist)
	}
	if err := s.db.WithContext(ctx).Model(album).Association("Artists").Delete(&models.Artist{ID: artistID}); err != nil {
		return fmt.Errorf("failed to unlink artist: %w", err)
	}
	return nil
}

// DeleteAlbum removes an album with no remaining medias, plus its artist
// links and artwork file.
func (s *RelationalCatalogService) DeleteAlbum(ctx context.Context, id uint) error {
	album, err := s.GetAlbum(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.CanDeleteAlbum(len(album.Medias)); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(album).Association("Artists").Clear(); err != nil {
			return fmt.Errorf("failed to clear artist links: %w", err)
		}
		if err := tx.Delete(&models.Album{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete album: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.files.Delete(album.ArtworkPath); err != nil {
		s.log.Warn("failed to delete album artwork", "path", album.ArtworkPath, "error", err)
	}
	return nil
}

// Medias

// CreateMedia inserts a media after the album agrees to take it: a single
// holds one media at most and a completed album takes none.
func (s *RelationalCatalogService) CreateMedia(ctx context.Context, media *models.Media) error {
	album, err := s.GetAlbum(ctx, media.AlbumID)
	if err != nil {
		return err
	}
	if err := rules.AlbumAccepts(album.IsSingle, album.IsComplete, len(album.Medias)); err != nil {
		return err
	}
	return s.medias.Add(ctx, media)
}

func (s *RelationalCatalogService) ListMedias(ctx context.Context) ([]models.Media, error) {
	medias, err := s.medias.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(medias) == 0 {
		return nil, apperr.New(apperr.ListEmpty)
	}
	return medias, nil
}

func (s *RelationalCatalogService) GetMedia(ctx context.Context, id uint) (*models.Media, error) {
	media, err := s.medias.GetByID(ctx, id, "Album")
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFoundf("media not found")
	}
	return media, nil
}

func (s *RelationalCatalogService) UpdateMedia(ctx context.Context, media *models.Media) error {
	if err := rules.ValidateMedia(media.Title, media.FilePath, media.TrackNumber); err != nil {
		return err
	}
	return s.medias.Update(ctx, media)
}

// MoveMedia reassigns a media to another album. The target album must agree
// to take it under the same rules as creation.
func (s *RelationalCatalogService) MoveMedia(ctx context.Context, mediaID, albumID uint) error {
	media, err := s.GetMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	if media.AlbumID == albumID {
		return nil
	}
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if err := rules.AlbumAccepts(album.IsSingle, album.IsComplete, len(album.Medias)); err != nil {
		return err
	}
	media.AlbumID = albumID
	media.Album = nil
	return s.medias.Update(ctx, media)
}

// DeleteMedia removes the media, its like and visit links, and its files.
func (s *RelationalCatalogService) DeleteMedia(ctx context.Context, id uint) error {
	media, err := s.GetMedia(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", id).Delete(&models.LikedMedia{}).Error; err != nil {
			return fmt.Errorf("failed to delete like links: %w", err)
		}
		if err := tx.Where("media_id = ?", id).Delete(&models.VisitedMedia{}).Error; err != nil {
			return fmt.Errorf("failed to delete visit links: %w", err)
		}
		if err := tx.Delete(&models.Media{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete media: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range []string{media.FilePath, media.ArtworkPath} {
		if err := s.files.Delete(path); err != nil {
			s.log.Warn("failed to delete media file", "path", path, "error", err)
		}
	}
	return nil
}

func containsArtist(artists []models.Artist, id uint) bool {
	for _, a := range artists {
		if a.ID == id {
			return true
		}
	}
	return false
}
