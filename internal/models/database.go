package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database represents the document-backend connection
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, mongoURL, dbName string) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetMaxPoolSize(20).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &Database{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// CreateIndexes creates the indexes the document repositories rely on.
// Usernames are unique; link-list membership is indexed so the bulk
// scan-and-strip passes on deletion stay off collection scans where the
// server can avoid them.
func (d *Database) CreateIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "following_artists", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "liked_medias", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "visited_medias", Value: 1}},
		},
	}
	if _, err := d.DB.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	artistIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "artistic_name", Value: 1}},
		},
	}
	if _, err := d.DB.Collection("artists").Indexes().CreateMany(ctx, artistIndexes); err != nil {
		return err
	}

	mediaIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "album_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "title", Value: 1}},
		},
	}
	if _, err := d.DB.Collection("medias").Indexes().CreateMany(ctx, mediaIndexes); err != nil {
		return err
	}

	albumIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "title", Value: 1}},
		},
	}
	_, err := d.DB.Collection("albums").Indexes().CreateMany(ctx, albumIndexes)
	return err
}
