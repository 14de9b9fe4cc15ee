package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"tunevault/internal/models"
)

// Repository is the relational data-access contract, generic over the entity
// type. Reads come in two flavors: GetByID returns an entity intended for
// mutation and a later Update call, optionally with association preloads;
// GetByIDReadOnly is the cheaper projection-only read used for responses.
type Repository[T any] interface {
	// All returns every row.
	All(ctx context.Context) ([]T, error)

	// GetByID returns the entity for mutation, or nil when absent.
	GetByID(ctx context.Context, id uint, preloads ...string) (*T, error)

	// GetByIDReadOnly returns the entity for projection only, or nil when
	// absent. Mutating the result and calling Update is a caller bug.
	GetByIDReadOnly(ctx context.Context, id uint) (*T, error)

	// Add validates and inserts the entity.
	Add(ctx context.Context, entity *T) error

	// Update persists the full entity state.
	Update(ctx context.Context, entity *T) error

	// Delete removes the entity.
	Delete(ctx context.Context, entity *T) error

	// DeleteByID removes the row with the given id, failing with NotFound
	// when it does not exist.
	DeleteByID(ctx context.Context, id uint) error
}

// DocumentRepository is the document data-access contract. There is no unit
// of work: InsertOne and ReplaceOne each hit the store immediately, and
// ReplaceOne is a whole-document replace keyed by id — callers must hold the
// full, freshly fetched document before mutating.
type DocumentRepository[PT models.Document] interface {
	// All returns every document in the collection.
	All(ctx context.Context) ([]PT, error)

	// FindByID returns the document, or nil when absent.
	FindByID(ctx context.Context, id string) (PT, error)

	// FindOne returns the first document matching filter, or nil.
	FindOne(ctx context.Context, filter bson.M) (PT, error)

	// Filter returns every document matching filter.
	Filter(ctx context.Context, filter bson.M) ([]PT, error)

	// InsertOne validates the document, assigns a time-ordered id when none
	// is set, and inserts it.
	InsertOne(ctx context.Context, doc PT) error

	// ReplaceOne replaces the stored document with doc, keyed by its id.
	ReplaceOne(ctx context.Context, doc PT) error

	// DeleteByID removes the document, failing with NotFound when absent.
	DeleteByID(ctx context.Context, id string) error
}
