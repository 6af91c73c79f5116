// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration for server, logging, cache backends, sessions and sources

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Log contains logging configuration
	Log LogConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Session contains defaults applied to every source session
	Session SessionConfig

	// HTTP contains outbound HTTP client configuration
	HTTP HTTPConfig

	// Sources contains upstream credentials and per-source settings
	Sources SourcesConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RefreshInterval is how often active sessions are refreshed
	RefreshInterval time.Duration

	// RateLimit is the number of requests allowed per client per RateWindow
	RateLimit int

	// RateWindow is the rate limiting window
	RateWindow time.Duration

	// CORSOrigins lists allowed origins; empty allows all
	CORSOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is json or text
	Format string

	// File is an optional path for rotating file output
	File string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/redisjson/sqlite)
	Type string

	// MaxAge is the default staleness threshold for session cache reads
	MaxAge time.Duration

	// Horizon is the age after which the sweeper evicts entries
	Horizon time.Duration

	// SweepInterval is how often the sweeper runs
	SweepInterval time.Duration

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired items are purged
	CleanupInterval time.Duration
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// SessionConfig holds session controller defaults
type SessionConfig struct {
	MaxPages       int
	PageSize       int
	EndOnShortPage bool
	MinInterval    time.Duration
	RequestTimeout time.Duration
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
}

// SourcesConfig holds upstream credentials and per-source settings
type SourcesConfig struct {
	ProductHuntURL string
	ProductHuntKey string
	GitHubToken    string
	MediumTag      string

	// File is the optional YAML sources file
	File string

	// Settings are loaded from File, keyed by source id
	Settings map[string]SourceSettings
}

// Load reads envFile (if it exists) into the environment, then loads the
// configuration from the environment and the optional sources file
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.Sources.File != "" {
		settings, err := LoadSourcesFile(cfg.Sources.File)
		if err != nil {
			return nil, err
		}
		cfg.Sources.Settings = settings
	}

	return cfg, cfg.Validate()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8000"),
			RefreshInterval: getEnvAsDurationOrDefault("REFRESH_INTERVAL", 5*time.Minute),
			RateLimit:       getEnvAsIntOrDefault("RATE_LIMIT", 100),
			RateWindow:      getEnvAsDurationOrDefault("RATE_WINDOW", time.Minute),
			CORSOrigins:     getEnvAsListOrDefault("CORS_ORIGINS", nil),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
		Cache: CacheConfig{
			Type:          strings.ToLower(getEnvOrDefault("CACHE_TYPE", "memory")),
			MaxAge:        getEnvAsDurationOrDefault("CACHE_MAX_AGE", 5*time.Minute),
			Horizon:       getEnvAsDurationOrDefault("CACHE_HORIZON", 24*time.Hour),
			SweepInterval: getEnvAsDurationOrDefault("CACHE_SWEEP_INTERVAL", time.Hour),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				CleanupInterval: getEnvAsDurationOrDefault("MEMORY_CACHE_CLEANUP", 10*time.Minute),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "cache.db"),
			},
		},
		Session: SessionConfig{
			MaxPages:       getEnvAsIntOrDefault("SESSION_MAX_PAGES", 10),
			PageSize:       getEnvAsIntOrDefault("SESSION_PAGE_SIZE", 10),
			EndOnShortPage: getEnvAsBoolOrDefault("SESSION_END_ON_SHORT_PAGE", false),
			MinInterval:    getEnvAsDurationOrDefault("SESSION_MIN_INTERVAL", time.Second),
			RequestTimeout: getEnvAsDurationOrDefault("SESSION_REQUEST_TIMEOUT", 15*time.Second),
		},
		HTTP: HTTPConfig{
			Timeout:   getEnvAsDurationOrDefault("HTTP_TIMEOUT", 10*time.Second),
			RetryMax:  getEnvAsIntOrDefault("HTTP_RETRY_MAX", 2),
			UserAgent: getEnvOrDefault("HTTP_USER_AGENT", "HackerHome/1.0"),
		},
		Sources: SourcesConfig{
			ProductHuntURL: getEnvOrDefault("PRODUCTHUNT_API_URL", "https://api.producthunt.com/v2/api/graphql"),
			ProductHuntKey: getEnvOrDefault("PRODUCTHUNT_API_KEY", ""),
			GitHubToken:    getEnvOrDefault("GITHUB_TOKEN", ""),
			MediumTag:      getEnvOrDefault("MEDIUM_TAG", "programming"),
			File:           getEnvOrDefault("SOURCES_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RefreshInterval < time.Second {
		return errors.New("refresh interval must be at least 1 second")
	}

	switch c.Cache.Type {
	case "memory", "redis", "redisjson", "sqlite":
	default:
		return errors.New("cache type must be 'memory', 'redis', 'redisjson' or 'sqlite'")
	}

	if (c.Cache.Type == "redis" || c.Cache.Type == "redisjson") && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.Type == "sqlite" && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.Cache.MaxAge <= 0 || c.Cache.Horizon <= 0 || c.Cache.SweepInterval <= 0 {
		return errors.New("cache durations must be positive")
	}

	if c.Cache.Horizon < c.Cache.MaxAge {
		return errors.New("cache horizon cannot be shorter than cache max age")
	}

	if c.Session.MaxPages < 1 {
		return errors.New("session max pages must be at least 1")
	}

	if c.Session.RequestTimeout <= 0 {
		return errors.New("session request timeout must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	for id, s := range c.Sources.Settings {
		if s.MaxPages < 0 {
			return fmt.Errorf("source %s: max_pages cannot be negative", id)
		}
	}

	return nil
}
