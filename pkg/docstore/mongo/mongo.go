// Package mongo provides a MongoDB-backed docstore.Driver.
//
// Keys are stored as the documents' _id so insert-if-absent is a single
// upsert with $setOnInsert rather than a racy find-then-insert pair.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
)

const (
	usersCollection    = "users"
	memoriesCollection = "memories"

	connectTimeout = 10 * time.Second
)

// Driver implements docstore.Driver using MongoDB.
type Driver struct {
	client *mongo.Client
	db     *mongo.Database
}

// Config holds configuration for the MongoDB driver.
type Config struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name.
	Database string
}

// NewDriver connects to MongoDB and returns a document store.
func NewDriver(ctx context.Context, cfg Config) (*Driver, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", docstore.ErrConnection, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %v", docstore.ErrConnection, err)
	}

	return &Driver{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// insertIfAbsent upserts a document keyed by _id, returning true when the
// document was newly created.
func (d *Driver) insertIfAbsent(ctx context.Context, collection, id string) (bool, error) {
	res, err := d.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("upserting into %s: %w", collection, err)
	}
	return res.UpsertedCount > 0, nil
}

func (d *Driver) exists(ctx context.Context, collection, id string) (bool, error) {
	err := d.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", collection, err)
	}
	return true, nil
}

// AddUser inserts a user record if absent.
func (d *Driver) AddUser(ctx context.Context, userID string) (bool, error) {
	return d.insertIfAbsent(ctx, usersCollection, userID)
}

// HasUser checks whether a user record exists.
func (d *Driver) HasUser(ctx context.Context, userID string) (bool, error) {
	return d.exists(ctx, usersCollection, userID)
}

// DeleteUser removes a user record and its memory blob.
func (d *Driver) DeleteUser(ctx context.Context, userID string) (bool, error) {
	res, err := d.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}

	if _, err := d.db.Collection(memoriesCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return false, fmt.Errorf("deleting memory: %w", err)
	}
	return true, nil
}

// MarkIngested inserts a source key into the named collection if absent.
func (d *Driver) MarkIngested(ctx context.Context, collection, key string) (bool, error) {
	return d.insertIfAbsent(ctx, collection, key)
}

// HasIngested checks whether a source key is recorded.
func (d *Driver) HasIngested(ctx context.Context, collection, key string) (bool, error) {
	return d.exists(ctx, collection, key)
}

// Unmark removes a source key from the named collection.
func (d *Driver) Unmark(ctx context.Context, collection, key string) error {
	if _, err := d.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("deleting from %s: %w", collection, err)
	}
	return nil
}

// memoryDoc is the stored shape of a user's memory blob.
type memoryDoc struct {
	ID        string    `bson:"_id"`
	Blob      []byte    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// LoadMemory returns the user's memory blob.
func (d *Driver) LoadMemory(ctx context.Context, userID string) ([]byte, error) {
	var doc memoryDoc
	err := d.db.Collection(memoriesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, docstore.ErrNoMemory
	}
	if err != nil {
		return nil, fmt.Errorf("loading memory: %w", err)
	}
	return doc.Blob, nil
}

// SaveMemory upserts the user's memory blob.
func (d *Driver) SaveMemory(ctx context.Context, userID string, blob []byte) error {
	doc := memoryDoc{ID: userID, Blob: blob, UpdatedAt: time.Now().UTC()}
	_, err := d.db.Collection(memoriesCollection).ReplaceOne(ctx,
		bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving memory: %w", err)
	}
	return nil
}

// DeleteMemory removes the user's memory blob.
func (d *Driver) DeleteMemory(ctx context.Context, userID string) error {
	if _, err := d.db.Collection(memoriesCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("deleting memory: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (d *Driver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}
