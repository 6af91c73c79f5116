// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
//   - cache/memory: in-process cache on go-cache
//   - cache/redis: Redis cache on go-redis, plus a RedisJSON variant on go-rejson
//   - cache/sqlite: file-backed cache on go-sqlite3
//   - http/standard: retrying HTTP client on go-retryablehttp
//   - logger: structured logger on logrus with lumberjack file rotation
//
// # Cache
//
//	cache := memory.NewMemoryCache(10 * time.Minute)
//	err := cache.Set(ctx, "key", []byte(`{"a":1}`), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(standard.Options{Timeout: 10 * time.Second, RetryMax: 2})
//	resp, err := client.Get(ctx, "https://hacker-news.firebaseio.com/v0/topstories.json", nil)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	log := logger.New(config.LogConfig{Level: "info", Format: "json"})
//	log.Info("Session created", map[string]interface{}{"source": "hackernews"})
package infrastructure
