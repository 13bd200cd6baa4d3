package connect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CachedToken is a bearer token with its absolute expiry.
type CachedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenCache shares bearer tokens between token providers. Get returns
// (nil, nil) when no token is stored under key.
type TokenCache interface {
	Get(ctx context.Context, key string) (*CachedToken, error)
	Set(ctx context.Context, key string, tok CachedToken) error
	Delete(ctx context.Context, key string) error
}

// TokenCacheKey derives the cache key for a token endpoint and client id.
// The secret is not part of the key.
func TokenCacheKey(tokenURL, clientID string) string {
	sum := sha256.Sum256([]byte(tokenURL + "\x00" + clientID))
	return "connect:token:" + hex.EncodeToString(sum[:8])
}

// MemoryCache is an in-process TokenCache. Several clients built with the
// same credentials can share one MemoryCache to avoid redundant exchanges.
type MemoryCache struct {
	mu      sync.Mutex
	tokens  map[string]CachedToken
	nowFunc func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		tokens:  make(map[string]CachedToken),
		nowFunc: time.Now,
	}
}

// Get returns the token stored under key unless it has expired.
func (m *MemoryCache) Get(_ context.Context, key string) (*CachedToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, ok := m.tokens[key]
	if !ok {
		return nil, nil
	}
	if !m.nowFunc().Before(tok.ExpiresAt) {
		delete(m.tokens, key)
		return nil, nil
	}
	return &tok, nil
}

// Set stores tok under key.
func (m *MemoryCache) Set(_ context.Context, key string, tok CachedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = tok
	return nil
}

// Delete removes the token stored under key.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

// RedisCache is a TokenCache backed by Redis, for sharing one token
// between processes. Entries expire with the token.
type RedisCache struct {
	rdb     *redis.Client
	prefix  string
	nowFunc func() time.Time
}

// RedisCacheOption configures the RedisCache.
type RedisCacheOption func(*RedisCache)

// WithKeyPrefix prepends prefix to every cache key.
func WithKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithRedisNowFunc overrides the time function for testing.
func WithRedisNowFunc(f func() time.Time) RedisCacheOption {
	return func(c *RedisCache) {
		c.nowFunc = f
	}
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(rdb *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		rdb:     rdb,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRedisCacheFromURL parses a redis:// URL, connects and pings the
// server.
func NewRedisCacheFromURL(
	ctx context.Context,
	redisURL string,
	opts ...RedisCacheOption,
) (*RedisCache, error) {
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisCache(rdb, opts...), nil
}

// Get returns the token stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) (*CachedToken, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached token: %w", err)
	}

	var tok CachedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decoding cached token: %w", err)
	}
	return &tok, nil
}

// Set stores tok under key with a TTL matching its expiry. Already
// expired tokens are not stored.
func (c *RedisCache) Set(ctx context.Context, key string, tok CachedToken) error {
	ttl := tok.ExpiresAt.Sub(c.nowFunc())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("writing cached token: %w", err)
	}
	return nil
}

// Delete removes the token stored under key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("deleting cached token: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
