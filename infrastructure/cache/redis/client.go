// ABOUTME: Redis cache implementation using go-redis client
// ABOUTME: Provides distributed caching with TTL support and connection pooling

package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/pkg/config"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint for SCAN
const scanBatch = 100

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func connect(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, coreerrors.ErrCacheMiss
		}
		return nil, err
	}

	return val, nil
}

// Set stores a value in Redis with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Redis SET with 0 TTL means no expiration
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	// DEL on a missing key is not an error for our use case
	return c.client.Del(ctx, key).Err()
}

// Keys lists keys with the given prefix using SCAN
func (c *RedisCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	return scanKeys(ctx, c.client, prefix)
}

// Stats returns cache statistics
func (c *RedisCache) Stats() (map[string]interface{}, error) {
	return stats(c.client, "redis")
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func scanKeys(ctx context.Context, client *redis.Client, prefix string) ([]string, error) {
	var keys []string
	iter := client.Scan(ctx, 0, globEscaper.Replace(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func stats(client *redis.Client, backend string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size, err := client.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"backend":       backend,
		"total_entries": size,
		"address":       client.Options().Addr,
	}, nil
}
