package connect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func newRedisCache(t *testing.T, opts ...connect.RedisCacheOption) (*connect.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return connect.NewRedisCache(rdb, opts...), mr
}

func TestTokenCacheKey(t *testing.T) {
	t.Parallel()

	a := connect.TokenCacheKey("https://api.example.com/oauth/token", "client-a")
	b := connect.TokenCacheKey("https://api.example.com/oauth/token", "client-b")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, connect.TokenCacheKey("https://api.example.com/oauth/token", "client-a"))
	assert.Contains(t, a, "connect:token:")
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := connect.NewMemoryCache()

	tok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tok)

	want := connect.CachedToken{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, "k", want))

	tok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.AccessToken)

	require.NoError(t, cache.Delete(ctx, "k"))
	tok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestMemoryCache_ExpiredEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := connect.NewMemoryCache()

	require.NoError(t, cache.Set(ctx, "k", connect.CachedToken{
		AccessToken: "old",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	tok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache, mr := newRedisCache(t, connect.WithKeyPrefix("test:"))

	expires := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	require.NoError(t, cache.Set(ctx, "k", connect.CachedToken{AccessToken: "abc", ExpiresAt: expires}))

	assert.True(t, mr.Exists("test:k"))
	ttl := mr.TTL("test:k")
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)

	tok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.True(t, expires.Equal(tok.ExpiresAt))

	require.NoError(t, cache.Delete(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))

	tok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisCache_ExpiresWithToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache, mr := newRedisCache(t)

	require.NoError(t, cache.Set(ctx, "k", connect.CachedToken{
		AccessToken: "abc",
		ExpiresAt:   time.Now().Add(time.Minute),
	}))

	mr.FastForward(2 * time.Minute)

	tok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisCache_SkipsExpiredToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache, mr := newRedisCache(t)

	require.NoError(t, cache.Set(ctx, "k", connect.CachedToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Second),
	}))
	assert.False(t, mr.Exists("k"))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	t.Parallel()

	cache, mr := newRedisCache(t)
	require.NoError(t, mr.Set("k", "not json"))

	_, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding cached token")
}

func TestRedisCache_ServerDown(t *testing.T) {
	t.Parallel()

	cache, mr := newRedisCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading cached token")
}

func TestNewRedisCacheFromURL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	cache, err := connect.NewRedisCacheFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	_, err = connect.NewRedisCacheFromURL(context.Background(), "://bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing redis URL")
}

func TestRedisCache_SharedBetweenProviders(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callCount.Add(1)
		_, _ = w.Write(tokenJSON("redis-token"))
	}))
	defer srv.Close()

	cache, _ := newRedisCache(t)

	first := connect.NewOAuthTokenProvider(srv.URL, "c", "s", connect.WithTokenCache(cache))
	second := connect.NewOAuthTokenProvider(srv.URL, "c", "s", connect.WithTokenCache(cache))

	tok1, err := first.Token(context.Background())
	require.NoError(t, err)
	tok2, err := second.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "redis-token", tok1)
	assert.Equal(t, tok1, tok2)
	assert.Equal(t, int32(1), callCount.Load())

	// Invalidating one provider removes the shared entry.
	require.NoError(t, second.Invalidate(context.Background()))
	_, err = second.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), callCount.Load())
}
