package store

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/babyurl/internal/shortener"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "associations"

// MongoStore is a MongoDB implementation of shortener.Repository.
// A TTL index on createdAt lets the server reap expired documents.
type MongoStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

type mongoAssociation struct {
	Code        string    `bson:"code"`
	OriginalURL string    `bson:"originalUrl"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// NewMongoStore creates a new MongoDB-backed association store.
func NewMongoStore(db *mongo.Database, ttl time.Duration) *MongoStore {
	return &MongoStore{
		collection: db.Collection(mongoCollection),
		ttl:        ttl,
	}
}

// EnsureIndexes creates the unique code index and the createdAt TTL index.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(m.ttl.Seconds())),
		},
	})

	return err
}

// Insert upserts over an expired holder of the code; a live holder makes the
// upsert hit the unique index, which is reported as a collision.
func (m *MongoStore) Insert(ctx context.Context, association *shortener.Association) error {
	filter := bson.M{
		"code":      string(association.Code),
		"createdAt": bson.M{"$lte": association.CreatedAt.Add(-m.ttl)},
	}
	update := bson.M{
		"$set": bson.M{
			"originalUrl": association.OriginalURL,
			"createdAt":   association.CreatedAt,
		},
	}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shortener.ErrCollision
		}

		return err
	}

	return nil
}

func (m *MongoStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Association, error) {
	var doc mongoAssociation

	err := m.collection.FindOne(ctx, bson.M{"code": string(code)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &shortener.Association{
		Code:        shortener.Code(doc.Code),
		OriginalURL: doc.OriginalURL,
		CreatedAt:   doc.CreatedAt.UTC(),
	}, nil
}

// Shutdown is a no-op for MongoStore (client managed externally).
func (m *MongoStore) Shutdown() error {
	return nil
}

var _ shortener.Repository = (*MongoStore)(nil)
