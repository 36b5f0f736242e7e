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

const testTTL = 5 * time.Minute

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "test:reports", testTTL), mr
}

func TestRedisCache_Remember(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	calls := 0
	compute := func() (payload, error) {
		calls++
		return payload{Total: calls}, nil
	}

	got, err := Remember(ctx, c, "summary", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)

	got, err = Remember(ctx, c, "summary", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("test:reports:v0:summary"))
	assert.Equal(t, testTTL, mr.TTL("test:reports:v0:summary"))
}

func TestRedisCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)
	calls := 0
	compute := func() (payload, error) {
		calls++
		return payload{Total: calls}, nil
	}

	_, err := Remember(ctx, c, "summary", compute)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))

	got, err := Remember(ctx, c, "summary", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, calls)
}

func TestRedisCache_InvalidateDuringCompute(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)

	stale, err := Remember(ctx, c, "summary", func() (payload, error) {
		// an attendance write lands while the report is being built
		require.NoError(t, c.Invalidate(ctx))
		return payload{Total: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stale.Total)

	fresh, err := Remember(ctx, c, "summary", func() (payload, error) {
		return payload{Total: 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Total, "value computed before the invalidation must not be served after it")
}

func TestRedisCache_CorruptEntryIsRecomputed(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	require.NoError(t, mr.Set("test:reports:v0:summary", "{not json"))

	got, err := Remember(ctx, c, "summary", func() (payload, error) {
		return payload{Total: 9}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 9, got.Total)

	raw, err := mr.Get("test:reports:v0:summary")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":9}`, raw)
}

func TestRedisCache_ServerErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	mr.SetError("LOADING server is loading")

	got, err := Remember(ctx, c, "summary", func() (payload, error) {
		return payload{Total: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)

	mr.SetError("")
	assert.Empty(t, mr.Keys())
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(ctx, RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(ctx, RedisConfig{Addr: addr})
	assert.Error(t, err)
}
