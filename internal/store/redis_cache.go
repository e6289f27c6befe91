package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/babyurl/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
type RedisCacheRepository struct {
	store    shortener.Repository
	client   *redis.Client
	prefix   string
	cacheTTL time.Duration
	ttl      time.Duration
	now      func() time.Time
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
// Entries live for cacheTTL but never past the association's own expiry.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, cacheTTL, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:    store,
		client:   client,
		prefix:   "cache:url:",
		cacheTTL: cacheTTL,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Insert stores an association in the underlying store and updates the cache.
func (r *RedisCacheRepository) Insert(ctx context.Context, association *shortener.Association) error {
	if err := r.store.Insert(ctx, association); err != nil {
		return err
	}

	// Write-through: update cache after successful insert
	r.cache(ctx, association)

	return nil
}

// GetByCode retrieves an association by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Association, error) {
	if association, err := r.getFromCache(ctx, code); err == nil {
		return association, nil
	}

	association, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, association)

	return association, nil
}

// DeleteExpired delegates to the underlying store when it sweeps.
func (r *RedisCacheRepository) DeleteExpired(ctx context.Context, cutoff time.Time) ([]shortener.Code, error) {
	sweeper, ok := r.store.(shortener.Sweeper)
	if !ok {
		return nil, nil
	}

	return sweeper.DeleteExpired(ctx, cutoff)
}

// Evict drops the cached entry for code.
func (r *RedisCacheRepository) Evict(ctx context.Context, code shortener.Code) error {
	return r.client.Del(ctx, r.prefix+string(code)).Err()
}

func (r *RedisCacheRepository) getFromCache(
	ctx context.Context, code shortener.Code,
) (*shortener.Association, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.Association{
		Code:        code,
		OriginalURL: result["original_url"],
		CreatedAt:   createdAt,
	}, nil
}

func (r *RedisCacheRepository) cache(ctx context.Context, association *shortener.Association) {
	expiry := min(r.cacheTTL, association.ExpiresAt(r.ttl).Sub(r.now()))
	if expiry <= 0 {
		return
	}

	key := r.prefix + string(association.Code)
	pipe := r.client.Pipeline()

	pipe.HSet(ctx, key, map[string]interface{}{
		"original_url": association.OriginalURL,
		"created_at":   association.CreatedAt.UnixNano(),
	})
	pipe.Expire(ctx, key, expiry)

	_, _ = pipe.Exec(ctx)
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var (
	_ shortener.Repository = (*RedisCacheRepository)(nil)
	_ shortener.Sweeper    = (*RedisCacheRepository)(nil)
)
