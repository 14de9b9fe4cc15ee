package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/rules"
)

// DocumentLinkService maintains follow, like and visit relationships on the
// document backend. Each link lives as an id on both related documents, and
// the store has no transactions, so every mutation is two independent
// whole-document replaces. The far side is written first and the owning user
// last: if the second write fails, a client retry passes the duplicate check
// (taken on the user's list) and the idempotent set operations repair the
// half-written link instead of doubling it. Between the two writes the sides
// disagree; they are only eventually symmetric.
type DocumentLinkService struct {
	users   repositories.DocumentRepository[*models.DocUser]
	artists repositories.DocumentRepository[*models.DocArtist]
	medias  repositories.DocumentRepository[*models.DocMedia]
	log     *slog.Logger
}

func NewDocumentLinkService(
	users repositories.DocumentRepository[*models.DocUser],
	artists repositories.DocumentRepository[*models.DocArtist],
	medias repositories.DocumentRepository[*models.DocMedia],
	log *slog.Logger,
) *DocumentLinkService {
	return &DocumentLinkService{users: users, artists: artists, medias: medias, log: log}
}

func (s *DocumentLinkService) getUser(ctx context.Context, id string) (*models.DocUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return user, nil
}

func (s *DocumentLinkService) getArtist(ctx context.Context, id string) (*models.DocArtist, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, apperr.NotFoundf("artist not found")
	}
	return artist, nil
}

func (s *DocumentLinkService) getMedia(ctx context.Context, id string) (*models.DocMedia, error) {
	media, err := s.medias.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFoundf("media not found")
	}
	return media, nil
}

// Follow links a user to an artist on both documents.
func (s *DocumentLinkService) Follow(ctx context.Context, userID, artistID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	artist, err := s.getArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if rules.ContainsID(user.FollowingArtists, artist.ID) {
		return apperr.NewMessage(apperr.LogicError, rules.MsgAlreadyFollowing)
	}

	artist.Followers, _ = rules.AddID(artist.Followers, user.ID)
	if err := s.artists.ReplaceOne(ctx, artist); err != nil {
		return err
	}

	user.FollowingArtists, _ = rules.AddID(user.FollowingArtists, artist.ID)
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		s.log.Warn("follow left half-linked, retry will repair",
			"user_id", userID, "artist_id", artistID, "error", err)
		return err
	}
	return nil
}

// Unfollow removes the link from both documents.
func (s *DocumentLinkService) Unfollow(ctx context.Context, userID, artistID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	artist, err := s.getArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if !rules.ContainsID(user.FollowingArtists, artist.ID) {
		return apperr.NewMessage(apperr.LogicError, rules.MsgNotFollowing)
	}

	artist.Followers, _ = rules.RemoveID(artist.Followers, user.ID)
	if err := s.artists.ReplaceOne(ctx, artist); err != nil {
		return err
	}

	user.FollowingArtists, _ = rules.RemoveID(user.FollowingArtists, artist.ID)
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		s.log.Warn("unfollow left half-unlinked, retry will repair",
			"user_id", userID, "artist_id", artistID, "error", err)
		return err
	}
	return nil
}

// Like links a user to a media on both documents.
func (s *DocumentLinkService) Like(ctx context.Context, userID, mediaID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	media, err := s.getMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	if rules.ContainsID(user.LikedMedias, media.ID) {
		return apperr.NewMessage(apperr.LogicError, rules.MsgAlreadyLiked)
	}

	media.LikedUsers, _ = rules.AddID(media.LikedUsers, user.ID)
	if err := s.medias.ReplaceOne(ctx, media); err != nil {
		return err
	}

	user.LikedMedias, _ = rules.AddID(user.LikedMedias, media.ID)
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		s.log.Warn("like left half-linked, retry will repair",
			"user_id", userID, "media_id", mediaID, "error", err)
		return err
	}
	return nil
}

// Dislike removes the like from both documents.
func (s *DocumentLinkService) Dislike(ctx context.Context, userID, mediaID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	media, err := s.getMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	if !rules.ContainsID(user.LikedMedias, media.ID) {
		return apperr.NewMessage(apperr.LogicError, rules.MsgNotLiked)
	}

	media.LikedUsers, _ = rules.RemoveID(media.LikedUsers, user.ID)
	if err := s.medias.ReplaceOne(ctx, media); err != nil {
		return err
	}

	user.LikedMedias, _ = rules.RemoveID(user.LikedMedias, media.ID)
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		s.log.Warn("dislike left half-unlinked, retry will repair",
			"user_id", userID, "media_id", mediaID, "error", err)
		return err
	}
	return nil
}

// Visit records that a user played a media. This backend has no per-link
// timestamp, so a repeat visit is a no-op rather than a refresh.
func (s *DocumentLinkService) Visit(ctx context.Context, userID, mediaID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	media, err := s.getMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	if rules.ContainsID(user.VisitedMedias, media.ID) {
		return nil
	}

	media.VisitedUsers, _ = rules.AddID(media.VisitedUsers, user.ID)
	if err := s.medias.ReplaceOne(ctx, media); err != nil {
		return err
	}

	user.VisitedMedias, _ = rules.AddID(user.VisitedMedias, media.ID)
	if err := s.users.ReplaceOne(ctx, user); err != nil {
		s.log.Warn("visit left half-linked, retry will repair",
			"user_id", userID, "media_id", mediaID, "error", err)
		return err
	}
	return nil
}

// Followings resolves the artists a user follows, one fetch per id. An id
// whose artist has vanished is skipped; deletions clean the lists eventually
// but a stale reference must not fail the whole read.
func (s *DocumentLinkService) Followings(ctx context.Context, userID string) ([]*models.DocArtist, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	artists := make([]*models.DocArtist, 0, len(user.FollowingArtists))
	for _, id := range user.FollowingArtists {
		artist, err := s.artists.FindByID(ctx, id.Hex())
		if err != nil {
			return nil, err
		}
		if artist != nil {
			artists = append(artists, artist)
		}
	}
	return artists, nil
}

// Followers resolves the users following an artist.
func (s *DocumentLinkService) Followers(ctx context.Context, artistID string) ([]*models.DocUser, error) {
	artist, err := s.getArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, artist.Followers)
}

// LikedMedias resolves the medias a user has liked.
func (s *DocumentLinkService) LikedMedias(ctx context.Context, userID string) ([]*models.DocMedia, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveMedias(ctx, user.LikedMedias)
}

// LikedUsers resolves the users who liked a media.
func (s *DocumentLinkService) LikedUsers(ctx context.Context, mediaID string) ([]*models.DocUser, error) {
	media, err := s.getMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, media.LikedUsers)
}

// VisitedUsers resolves the users who visited a media.
func (s *DocumentLinkService) VisitedUsers(ctx context.Context, mediaID string) ([]*models.DocUser, error) {
	media, err := s.getMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, media.VisitedUsers)
}

// VisitedMedias resolves the medias a user has visited.
func (s *DocumentLinkService) VisitedMedias(ctx context.Context, userID string) ([]*models.DocMedia, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveMedias(ctx, user.VisitedMedias)
}

func (s *DocumentLinkService) resolveUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.DocUser, error) {
	users := make([]*models.DocUser, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id.Hex())
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *DocumentLinkService) resolveMedias(ctx context.Context, ids []primitive.ObjectID) ([]*models.DocMedia, error) {
	medias := make([]*models.DocMedia, 0, len(ids))
	for _, id := range ids {
		media, err := s.medias.FindByID(ctx, id.Hex())
		if err != nil {
			return nil, err
		}
		if media != nil {
			medias = append(medias, media)
		}
	}
	return medias, nil
}
