package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/rules"
)

// RelationalLinkService maintains follow, like and visit relationships on the
// relational backend. Every link is a join row with a composite primary key,
// so storage itself rejects duplicates; the explicit existence checks exist
// to return the domain message instead of a driver error.
type RelationalLinkService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewRelationalLinkService(db *gorm.DB, log *slog.Logger) *RelationalLinkService {
	return &RelationalLinkService{db: db, log: log}
}

func (s *RelationalLinkService) requireUser(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return apperr.NotFoundf("user not found")
	}
	return nil
}

func (s *RelationalLinkService) requireArtist(tx *gorm.DB, artistID uint) error {
	var count int64
	if err := tx.Model(&models.Artist{}).Where("id = ?", artistID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check artist: %w", err)
	}
	if count == 0 {
		return apperr.NotFoundf("artist not found")
	}
	return nil
}

func (s *RelationalLinkService) requireMedia(tx *gorm.DB, mediaID uint) error {
	var count int64
	if err := tx.Model(&models.Media{}).Where("id = ?", mediaID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check media: %w", err)
	}
	if count == 0 {
		return apperr.NotFoundf("media not found")
	}
	return nil
}

// Follow records a (user, artist) follow. Following twice is a logic error.
func (s *RelationalLinkService) Follow(ctx context.Context, userID, artistID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		if err := s.requireArtist(tx, artistID); err != nil {
			return err
		}

		var existing models.Following
		err := tx.Where("user_id = ? AND artist_id = ?", userID, artistID).First(&existing).Error
		if err == nil {
			return apperr.NewMessage(apperr.LogicError, rules.MsgAlreadyFollowing)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check following: %w", err)
		}

		if err := tx.Create(&models.Following{UserID: userID, ArtistID: artistID}).Error; err != nil {
			return fmt.Errorf("failed to create following: %w", err)
		}
		return nil
	})
}

// Unfollow removes a (user, artist) follow.
func (s *RelationalLinkService) Unfollow(ctx context.Context, userID, artistID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		if err := s.requireArtist(tx, artistID); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND artist_id = ?", userID, artistID).
			Delete(&models.Following{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete following: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NewMessage(apperr.LogicError, rules.MsgNotFollowing)
		}
		return nil
	})
}

// Like records a (user, media) like. Liking twice is a logic error.
func (s *RelationalLinkService) Like(ctx context.Context, userID, mediaID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		if err := s.requireMedia(tx, mediaID); err != nil {
			return err
		}

		var existing models.LikedMedia
		err := tx.Where("user_id = ? AND media_id = ?", userID, mediaID).First(&existing).Error
		if err == nil {
			return apperr.NewMessage(apperr.LogicError, rules.MsgAlreadyLiked)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check like: %w", err)
		}

		if err := tx.Create(&models.LikedMedia{UserID: userID, MediaID: mediaID}).Error; err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		return nil
	})
}

// Dislike removes a (user, media) like.
func (s *RelationalLinkService) Dislike(ctx context.Context, userID, mediaID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		if err := s.requireMedia(tx, mediaID); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND media_id = ?", userID, mediaID).
			Delete(&models.LikedMedia{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete like: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NewMessage(apperr.LogicError, rules.MsgNotLiked)
		}
		return nil
	})
}

// Visit records a (user, media) visit. A repeat visit replaces the existing
// row so its timestamp reflects the most recent play.
func (s *RelationalLinkService) Visit(ctx context.Context, userID, mediaID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		if err := s.requireMedia(tx, mediaID); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND media_id = ?", userID, mediaID).
			Delete(&models.VisitedMedia{})
		if result.Error != nil {
			return fmt.Errorf("failed to refresh visit: %w", result.Error)
		}

		if err := tx.Create(&models.VisitedMedia{UserID: userID, MediaID: mediaID}).Error; err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		return nil
	})
}

// Followings lists the artists a user follows.
func (s *RelationalLinkService) Followings(ctx context.Context, userID uint) ([]models.Artist, error) {
	if err := s.requireUser(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var artists []models.Artist
	err := s.db.WithContext(ctx).
		Joins("JOIN followings ON followings.artist_id = artists.id").
		Where("followings.user_id = ?", userID).
		Order("followings.timestamp").
		Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followings: %w", err)
	}
	return artists, nil
}

// Followers lists the users following an artist.
func (s *RelationalLinkService) Followers(ctx context.Context, artistID uint) ([]models.User, error) {
	if err := s.requireArtist(s.db.WithContext(ctx), artistID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN followings ON followings.user_id = users.id").
		Where("followings.artist_id = ?", artistID).
		Order("followings.timestamp").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// LikedMedias lists the medias a user has liked.
func (s *RelationalLinkService) LikedMedias(ctx context.Context, userID uint) ([]models.Media, error) {
	if err := s.requireUser(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var medias []models.Media
	err := s.db.WithContext(ctx).
		Joins("JOIN liked_medias ON liked_medias.media_id = medias.id").
		Where("liked_medias.user_id = ?", userID).
		Order("liked_medias.timestamp").
		Find(&medias).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list liked medias: %w", err)
	}
	return medias, nil
}

// LikedUsers lists the users who liked a media.
func (s *RelationalLinkService) LikedUsers(ctx context.Context, mediaID uint) ([]models.User, error) {
	if err := s.requireMedia(s.db.WithContext(ctx), mediaID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN liked_medias ON liked_medias.user_id = users.id").
		Where("liked_medias.media_id = ?", mediaID).
		Order("liked_medias.timestamp").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list liking users: %w", err)
	}
	return users, nil
}

// VisitedUsers lists the users who visited a media.
func (s *RelationalLinkService) VisitedUsers(ctx context.Context, mediaID uint) ([]models.User, error) {
	if err := s.requireMedia(s.db.WithContext(ctx), mediaID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN visited_medias ON visited_medias.user_id = users.id").
		Where("visited_medias.media_id = ?", mediaID).
		Order("visited_medias.timestamp").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list visiting users: %w", err)
	}
	return users, nil
}

// VisitedMedias lists the medias a user has visited, most recent last.
func (s *RelationalLinkService) VisitedMedias(ctx context.Context, userID uint) ([]models.Media, error) {
	if err := s.requireUser(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var medias []models.Media
	err := s.db.WithContext(ctx).
		Joins("JOIN visited_medias ON visited_medias.media_id = medias.id").
		Where("visited_medias.user_id = ?", userID).
		Order("visited_medias.timestamp").
		Find(&medias).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list visited medias: %w", err)
	}
	return medias, nil
}
