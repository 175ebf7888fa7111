// Package cache provides a Redis-backed image record cache. Records
// are immutable after creation, so cache entries never go stale; the
// TTL only bounds memory growth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"image-pipeline/internal/config"
	imgdomain "image-pipeline/internal/domain/image"
)

// ErrCacheMiss is returned when a record is not in the cache
var ErrCacheMiss = errors.New("record not found in cache")

// RedisClient wraps the Redis client with record caching.
// Works with both Redis and Valkey.
type RedisClient struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisClient creates a new Redis client with the provided configuration
func NewRedisClient(cfg config.CacheConfig) (*RedisClient, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("cache is disabled")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis/Valkey: %w", err)
	}

	return &RedisClient{
		client:     rdb,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

func recordKey(name string) string {
	return "image_record:" + name
}

// GetRecord retrieves a cached image record
func (r *RedisClient) GetRecord(ctx context.Context, name string) (*imgdomain.Record, error) {
	val, err := r.client.Get(ctx, recordKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMiss, name)
		}
		return nil, fmt.Errorf("failed to get record from cache: %w", err)
	}

	var record imgdomain.Record
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}

	return &record, nil
}

// SetRecord caches an image record with the default TTL
func (r *RedisClient) SetRecord(ctx context.Context, record *imgdomain.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := r.client.Set(ctx, recordKey(record.Name), data, r.defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache record: %w", err)
	}

	return nil
}

// DeleteRecord removes a record from the cache
func (r *RedisClient) DeleteRecord(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, recordKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete record from cache: %w", err)
	}

	return nil
}

// Health checks if the Redis/Valkey connection is healthy
func (r *RedisClient) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis/Valkey health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis/Valkey connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// FlushCache clears all cached data (use with caution)
func (r *RedisClient) FlushCache(ctx context.Context) error {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
