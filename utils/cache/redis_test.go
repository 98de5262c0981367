package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheFromClient(client), mr
}

func TestGetSet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Set(ctx, "greeting", "hello", time.Minute))
	val, err := cache.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
}

func TestJSONRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	type entry struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	in := []entry{{Name: "alice", Points: 30}, {Name: "bob", Points: 10}}
	require.NoError(t, cache.SetJSON(ctx, "ranking", in, time.Minute))

	var out []entry
	require.NoError(t, cache.GetJSON(ctx, "ranking", &out))
	assert.Equal(t, in, out)

	assert.ErrorIs(t, cache.GetJSON(ctx, "missing", &out), ErrNotFound)
}

func TestDeleteAndExists(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, cache.Set(ctx, "b", "2", time.Minute))

	exists, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "a", "b"))

	exists, err = cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIncrementAndExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	n, err := cache.Increment(ctx, "attempts")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = cache.Increment(ctx, "attempts")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, cache.Expire(ctx, "attempts", time.Minute))
	ttl, err := cache.TTL(ctx, "attempts")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// Past the expiry the counter resets.
	mr.FastForward(2 * time.Minute)
	n, err = cache.Increment(ctx, "attempts")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
