package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int `json:"total"`
}

func newCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestFetchJSON_Cachea(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls * 10}, nil
	}

	var got payload
	require.NoError(t, c.FetchJSON(ctx, "dashboard", &got, loader))
	assert.Equal(t, 10, got.Total)

	require.NoError(t, c.FetchJSON(ctx, "dashboard", &got, loader))
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, c.FetchJSON(ctx, "dashboard", &got, loader))
	assert.Equal(t, 20, got.Total)
}

func TestBump_Invalida(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls}, nil
	}

	var got payload
	require.NoError(t, c.FetchJSON(ctx, "dashboard", &got, loader))
	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.FetchJSON(ctx, "dashboard", &got, loader))
	assert.Equal(t, 2, got.Total)
}

func TestFetchJSON_SinRedis(t *testing.T) {
	c := NewRedisCache(nil, time.Minute)
	ctx := context.Background()

	var got payload
	require.NoError(t, c.FetchJSON(ctx, "x", &got, func(context.Context) (any, error) { return payload{Total: 7}, nil }))
	assert.Equal(t, 7, got.Total)
	assert.NoError(t, c.Bump(ctx))

	err := c.FetchJSON(ctx, "x", &got, func(context.Context) (any, error) { return nil, errors.New("falla") })
	assert.EqualError(t, err, "falla")
}

func TestFetchJSON_RedisCaidoUsaLoader(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var got payload
	require.NoError(t, c.FetchJSON(context.Background(), "x", &got, func(context.Context) (any, error) { return payload{Total: 3}, nil }))
	assert.Equal(t, 3, got.Total)
}
