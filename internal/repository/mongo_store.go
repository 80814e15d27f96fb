package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoStore struct {
	collection *mongo.Collection
}

func NewMongo(db *mongo.Database) port.KeyValueStore {
	return &mongoStore{
		collection: db.Collection("storage_entries"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Join(
			fmt.Errorf("client.Ping: %w", err),
			client.Disconnect(ctx),
		)
	}

	return client.Database(database), nil
}

func (s *mongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var entry mongoEntry
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, port.ErrNotFound
		}
		return nil, fmt.Errorf("collection.FindOne: %w", err)
	}

	return entry.Value, nil
}

func (s *mongoStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	entry := mongoEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("collection.ReplaceOne: %w", err)
	}

	return nil
}

func (s *mongoStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("collection.DeleteOne: %w", err)
	}

	return nil
}
