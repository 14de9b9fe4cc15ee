package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
)

// docPtr constrains PT to a pointer to T that satisfies models.Document, so
// the repository can allocate fresh documents for decoding.
type docPtr[T any] interface {
	*T
	models.Document
}

// MongoRepository implements DocumentRepository for one collection. Identifier
// generation uses a timestamp-seeded ObjectID so ids sort by creation time.
type MongoRepository[T any, PT docPtr[T]] struct {
	collection *mongo.Collection
	validate   func(PT) error
}

// NewMongoRepository creates a repository bound to the document's collection.
// validate may be nil; when set it runs before every InsertOne.
func NewMongoRepository[T any, PT docPtr[T]](db *models.Database, validate func(PT) error) *MongoRepository[T, PT] {
	var zero PT = PT(new(T))
	return &MongoRepository[T, PT]{
		collection: db.DB.Collection(zero.CollectionName()),
		validate:   validate,
	}
}

func (r *MongoRepository[T, PT]) All(ctx context.Context) ([]PT, error) {
	return r.Filter(ctx, bson.M{})
}

func (r *MongoRepository[T, PT]) FindByID(ctx context.Context, id string) (PT, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, "invalid object id", err)
	}
	return r.FindOne(ctx, bson.M{"_id": objectID})
}

func (r *MongoRepository[T, PT]) FindOne(ctx context.Context, filter bson.M) (PT, error) {
	doc := PT(new(T))
	if err := r.collection.FindOne(ctx, filter).Decode(doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return doc, nil
}

func (r *MongoRepository[T, PT]) Filter(ctx context.Context, filter bson.M) ([]PT, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []PT
	for cursor.Next(ctx) {
		doc := PT(new(T))
		if err := cursor.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, cursor.Err()
}

func (r *MongoRepository[T, PT]) InsertOne(ctx context.Context, doc PT) error {
	if r.validate != nil {
		if err := r.validate(doc); err != nil {
			return err
		}
	}
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectIDFromTimestamp(time.Now()))
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *MongoRepository[T, PT]) ReplaceOne(ctx context.Context, doc PT) error {
	if doc.GetID().IsZero() {
		return apperr.NewMessage(apperr.BadRequest, "document id is required for replace")
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.GetID()}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound)
	}
	return nil
}

func (r *MongoRepository[T, PT]) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Wrap(apperr.BadRequest, "invalid object id", err)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound)
	}
	return nil
}

var _ DocumentRepository[*models.DocUser] = (*MongoRepository[models.DocUser, *models.DocUser])(nil)
