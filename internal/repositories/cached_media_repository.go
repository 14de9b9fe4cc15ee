package repositories

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"tunevault/internal/cache"
	"tunevault/internal/models"
)

const mediaCacheTTL = 15 * time.Minute

// CachedMediaRepository wraps the document media repository with a
// read-through cache on FindByID. Medias are the hottest documents (every
// play records a visit), so single-document reads are worth caching; list
// and filter reads pass straight through. Cache failures degrade to the
// store and are logged, never surfaced.
type CachedMediaRepository struct {
	inner DocumentRepository[*models.DocMedia]
	cache cache.Cache
	log   *slog.Logger
}

func NewCachedMediaRepository(inner DocumentRepository[*models.DocMedia], c cache.Cache, log *slog.Logger) *CachedMediaRepository {
	return &CachedMediaRepository{inner: inner, cache: c, log: log}
}

func mediaCacheKey(id string) string { return "media:" + id }

func (r *CachedMediaRepository) All(ctx context.Context) ([]*models.DocMedia, error) {
	return r.inner.All(ctx)
}

func (r *CachedMediaRepository) FindByID(ctx context.Context, id string) (*models.DocMedia, error) {
	key := mediaCacheKey(id)
	if data, err := r.cache.Get(ctx, key); err != nil {
		r.log.Warn("media cache get failed", "key", key, "error", err)
	} else if data != nil {
		// cached entries are bson: the json tags shape API responses and hide
		// the link lists, which must survive the round trip
		var media models.DocMedia
		if err := bson.Unmarshal(data, &media); err == nil {
			return &media, nil
		}
		r.log.Warn("media cache entry corrupt, dropping", "key", key)
		_ = r.cache.Delete(ctx, key)
	}

	media, err := r.inner.FindByID(ctx, id)
	if err != nil || media == nil {
		return media, err
	}

	if data, err := bson.Marshal(media); err == nil {
		if err := r.cache.Set(ctx, key, data, mediaCacheTTL); err != nil {
			r.log.Warn("media cache set failed", "key", key, "error", err)
		}
	}
	return media, nil
}

func (r *CachedMediaRepository) FindOne(ctx context.Context, filter bson.M) (*models.DocMedia, error) {
	return r.inner.FindOne(ctx, filter)
}

func (r *CachedMediaRepository) Filter(ctx context.Context, filter bson.M) ([]*models.DocMedia, error) {
	return r.inner.Filter(ctx, filter)
}

func (r *CachedMediaRepository) InsertOne(ctx context.Context, doc *models.DocMedia) error {
	if err := r.inner.InsertOne(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx, doc.ID.Hex())
	return nil
}

func (r *CachedMediaRepository) ReplaceOne(ctx context.Context, doc *models.DocMedia) error {
	if err := r.inner.ReplaceOne(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx, doc.ID.Hex())
	return nil
}

func (r *CachedMediaRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedMediaRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, mediaCacheKey(id)); err != nil {
		r.log.Warn("media cache invalidation failed", "id", id, "error", err)
	}
}

var _ DocumentRepository[*models.DocMedia] = (*CachedMediaRepository)(nil)
