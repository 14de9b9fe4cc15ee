package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tunevault/internal/apperr"
)

// GormRepository implements Repository on the relational backend. Writes go
// through gorm's statement pipeline, so the registered text-normalization
// callbacks run on every create and update before the row is written.
type GormRepository[T any] struct {
	db       *gorm.DB
	validate func(*T) error
}

// NewGormRepository creates a repository for T. validate may be nil; when set
// it runs before every Add and rejects entities missing required fields.
func NewGormRepository[T any](db *gorm.DB, validate func(*T) error) *GormRepository[T] {
	return &GormRepository[T]{db: db, validate: validate}
}

// DB exposes the underlying handle for callers composing larger queries
// inside a single transaction.
func (r *GormRepository[T]) DB() *gorm.DB { return r.db }

func (r *GormRepository[T]) All(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

func (r *GormRepository[T]) GetByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	tx := r.db.WithContext(ctx)
	for _, preload := range preloads {
		tx = tx.Preload(preload)
	}

	var entity T
	if err := tx.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entity by id: %w", err)
	}
	return &entity, nil
}

func (r *GormRepository[T]) GetByIDReadOnly(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Session(&gorm.Session{QueryFields: true}).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entity by id: %w", err)
	}
	return &entity, nil
}

func (r *GormRepository[T]) Add(ctx context.Context, entity *T) error {
	if r.validate != nil {
		if err := r.validate(entity); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to insert entity: %w", err)
	}
	return nil
}

func (r *GormRepository[T]) Update(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

func (r *GormRepository[T]) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entity by id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}
	return nil
}

var _ Repository[struct{}] = (*GormRepository[struct{}])(nil)
