package cache

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCache is an ArtifactCache backed by mongo-driver: a thin
// client/database wrapper plus one collection handler.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type artifactDoc struct {
	Fingerprint string    `bson:"_id"`
	Bytecode    []byte    `bson:"bytecode"`
	ExpiresAt   time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and returns a MongoCache storing artifacts
// in dbName's "artifacts" collection.
func NewMongoCache(uri, dbName string) (*MongoCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cache: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("cache: mongo ping: %w", err)
	}

	return &MongoCache{
		client: client,
		coll:   client.Database(dbName).Collection("artifacts"),
	}, nil
}

func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc artifactDoc
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: mongo get: %w", err)
	}
	if !doc.ExpiresAt.IsZero() && time.Now().After(doc.ExpiresAt) {
		return nil, false, nil
	}
	return doc.Bytecode, true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, bytecode []byte, ttl time.Duration) error {
	doc := artifactDoc{Fingerprint: key, Bytecode: bytecode}
	if ttl > 0 {
		doc.ExpiresAt = time.Now().Add(ttl)
	}
	opts := options.Replace().SetUpsert(true)
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	if err != nil {
		return fmt.Errorf("cache: mongo set: %w", err)
	}
	return nil
}

func (c *MongoCache) Close() error {
	return c.client.Disconnect(context.Background())
}
