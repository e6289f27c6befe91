package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/babyurl/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository.
// Keys expire natively after the configured TTL.
type RedisStore struct {
	client *redis.Client
	prefix string // "url:" for code -> record
	ttl    time.Duration
}

type redisRecord struct {
	OriginalURL string `json:"url"`
	CreatedAt   int64  `json:"createdAt"`
}

// NewRedisStore creates a new Redis-backed association store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "url:",
		ttl:    ttl,
	}
}

// Insert writes the association only if the code is free (SET NX with expiry).
func (r *RedisStore) Insert(ctx context.Context, association *shortener.Association) error {
	payload, err := json.Marshal(redisRecord{
		OriginalURL: association.OriginalURL,
		CreatedAt:   association.CreatedAt.UnixNano(),
	})
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.key(association.Code), payload, r.ttl).Result()
	if err != nil {
		return err
	}

	if !ok {
		return shortener.ErrCollision
	}

	return nil
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Association, error) {
	payload, err := r.client.Get(ctx, r.key(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	var record redisRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode association %q: %w", code, err)
	}

	return &shortener.Association{
		Code:        code,
		OriginalURL: record.OriginalURL,
		CreatedAt:   time.Unix(0, record.CreatedAt).UTC(),
	}, nil
}

func (r *RedisStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

// Shutdown is a no-op for RedisStore (client managed externally).
func (r *RedisStore) Shutdown() error {
	return nil
}

var _ shortener.Repository = (*RedisStore)(nil)
