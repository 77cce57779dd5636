// Package rendercache is an opt-in, env-gated Redis cache of rendered SVG
// map documents, keyed by a hash of the served network and render settings.
// It is a transient optimization the dispatcher may consult before
// re-rendering; it never substitutes for the in-memory catalogue and holds
// nothing the process needs to survive a restart.
//
// Adapted from the teacher's (passbi_core) internal/cache/redis.go
// (singleton client, GetRoute/SetRoute/AcquireLock/ReleaseLock/HealthCheck),
// renamed from route caching to map-document caching.
package rendercache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// Config holds the Redis connection and cache-lifetime configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
	MutexTTL time.Duration
}

// Enabled reports whether the cache should be wired in at all: it is
// strictly opt-in via ROUTESTAT_RENDER_CACHE=1.
func Enabled() bool {
	return getEnv("ROUTESTAT_RENDER_CACHE", "") == "1"
}

// LoadConfigFromEnv loads Redis configuration from environment variables.
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, _ := time.ParseDuration(getEnv("RENDER_CACHE_TTL", "10m"))
	mutexTTL, _ := time.ParseDuration(getEnv("RENDER_CACHE_MUTEX_TTL", "5s"))

	return &Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     port,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
		MutexTTL: mutexTTL,
	}
}

// GetClient returns the process-wide Redis client, connecting lazily on
// first use.
func GetClient() (*redis.Client, error) {
	clientOnce.Do(func() {
		config := LoadConfigFromEnv()

		opts := &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password:     config.Password,
			DB:           config.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		}

		if getEnv("REDIS_TLS_ENABLED", "false") == "true" {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}

		client = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			clientErr = fmt.Errorf("connect to redis: %w", err)
		}
	})

	return client, clientErr
}

// Close releases the process-wide Redis client.
func Close() {
	if client != nil {
		client.Close()
	}
}

// MapKey derives a deterministic cache key from a hash describing the
// served network and render settings (callers compute networkHash; see
// networkSignature in internal/dispatch for the concrete hash input).
func MapKey(networkHash string) string {
	sum := sha256.Sum256([]byte(networkHash))
	return fmt.Sprintf("map:%x", sum[:8])
}

func lockKey(mapKey string) string { return fmt.Sprintf("lock:%s", mapKey) }

// GetMap retrieves a cached rendered map document. A nil, nil return is a
// cache miss.
func GetMap(ctx context.Context, key string) (*string, error) {
	c, err := GetClient()
	if err != nil {
		return nil, err
	}

	doc, err := c.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// SetMap caches a rendered map document under key for ttl.
func SetMap(ctx context.Context, key, document string, ttl time.Duration) error {
	c, err := GetClient()
	if err != nil {
		return err
	}
	return c.Set(ctx, key, document, ttl).Err()
}

// AcquireLock attempts a distributed lock, returning true if it was
// acquired.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c, err := GetClient()
	if err != nil {
		return false, err
	}
	return c.SetNX(ctx, lockKey(key), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock previously acquired with
// AcquireLock.
func ReleaseLock(ctx context.Context, key string) error {
	c, err := GetClient()
	if err != nil {
		return err
	}
	return c.Del(ctx, lockKey(key)).Err()
}

// HealthCheck pings the Redis connection.
func HealthCheck(ctx context.Context) error {
	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("redis client not initialized: %w", err)
	}
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
