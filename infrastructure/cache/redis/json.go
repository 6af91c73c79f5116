// ABOUTME: RedisJSON cache implementation storing values as JSON documents via go-rejson
// ABOUTME: Cached session pages stay inspectable with JSON.GET on the server

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/pkg/config"

	"github.com/nitishm/go-rejson/v4"
	"github.com/redis/go-redis/v9"
)

// JSONCache implements the Cache interface on the RedisJSON module.
// Values must be valid JSON.
type JSONCache struct {
	*RedisCache
	handler *rejson.Handler
}

// NewJSONCache creates a RedisJSON-backed cache
func NewJSONCache(cfg config.RedisConfig) (*JSONCache, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)

	return &JSONCache{
		RedisCache: &RedisCache{client: client},
		handler:    handler,
	}, nil
}

// Get returns the JSON document stored at key
func (c *JSONCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.handler.JSONGet(key, ".")
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, coreerrors.ErrCacheMiss
		}
		return nil, err
	}

	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected JSON.GET reply type %T", val)
	}
	return data, nil
}

// Set stores value as a JSON document and applies the TTL
func (c *JSONCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return errors.New("redisjson cache only stores JSON values")
	}

	if _, err := c.handler.JSONSet(key, ".", json.RawMessage(value)); err != nil {
		return err
	}

	if ttl > 0 {
		return c.client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

// Stats returns cache statistics
func (c *JSONCache) Stats() (map[string]interface{}, error) {
	return stats(c.client, "redisjson")
}
