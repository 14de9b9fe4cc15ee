// Package testutil holds test doubles shared across packages. The document
// store fake keeps documents as marshaled bson so reads hand back deep
// copies, the same isolation a real driver gives.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
)

type docPtr[T any] interface {
	*T
	models.Document
}

// DocStore is an in-memory DocumentRepository. Filters support the subset the
// services actually use: _id and field equality, list containment, and $or.
// ReplaceErr, when set, fails the next ReplaceOne and then clears itself, so
// tests can provoke the half-written second write.
type DocStore[T any, PT docPtr[T]] struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID][]byte

	ReplaceErr error
}

func NewDocStore[T any, PT docPtr[T]]() *DocStore[T, PT] {
	return &DocStore[T, PT]{docs: make(map[primitive.ObjectID][]byte)}
}

// Len reports the number of stored documents.
func (s *DocStore[T, PT]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *DocStore[T, PT]) decode(data []byte) (PT, error) {
	doc := PT(new(T))
	if err := bson.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func (s *DocStore[T, PT]) All(_ context.Context) ([]PT, error) {
	return s.Filter(context.Background(), bson.M{})
}

func (s *DocStore[T, PT]) FindByID(_ context.Context, id string) (PT, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, "invalid object id", err)
	}
	s.mu.Lock()
	data, ok := s.docs[objectID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return s.decode(data)
}

func (s *DocStore[T, PT]) FindOne(ctx context.Context, filter bson.M) (PT, error) {
	docs, err := s.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (s *DocStore[T, PT]) Filter(_ context.Context, filter bson.M) ([]PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []PT
	for _, data := range s.docs {
		var raw bson.M
		if err := bson.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if !matches(raw, filter) {
			continue
		}
		doc, err := s.decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *DocStore[T, PT]) InsertOne(_ context.Context, doc PT) error {
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectIDFromTimestamp(time.Now()))
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[doc.GetID()] = data
	s.mu.Unlock()
	return nil
}

func (s *DocStore[T, PT]) ReplaceOne(_ context.Context, doc PT) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReplaceErr != nil {
		err := s.ReplaceErr
		s.ReplaceErr = nil
		return err
	}
	if _, ok := s.docs[doc.GetID()]; !ok {
		return apperr.New(apperr.NotFound)
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[doc.GetID()] = data
	return nil
}

func (s *DocStore[T, PT]) DeleteByID(_ context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Wrap(apperr.BadRequest, "invalid object id", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[objectID]; !ok {
		return apperr.New(apperr.NotFound)
	}
	delete(s.docs, objectID)
	return nil
}

// matches evaluates the filter subset the services use against a raw
// document. A filter value against an array field means containment.
func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		if key == "$or" {
			if !matchesAny(doc, want) {
				return false
			}
			continue
		}
		got, ok := doc[key]
		if !ok {
			return false
		}
		if arr, isArr := got.(primitive.A); isArr {
			if !contains(arr, want) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func matchesAny(doc bson.M, want any) bool {
	branches, ok := want.([]bson.M)
	if !ok {
		return false
	}
	for _, branch := range branches {
		if matches(doc, branch) {
			return true
		}
	}
	return false
}

func contains(arr primitive.A, want any) bool {
	for _, v := range arr {
		if reflect.DeepEqual(v, want) {
			return true
		}
	}
	return false
}

// DiscardLogger returns a logger for wiring services under test.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
