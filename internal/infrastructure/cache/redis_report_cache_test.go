package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/internal/infrastructure/cache"
)

func newCache(t *testing.T) (*cache.RedisReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := cache.NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisReportCache(rdb, "field-assets"), mr
}

func TestRedisReportCache_GetMiss(t *testing.T) {
	c, _ := newCache(t)

	b, ok, err := c.Get(context.Background(), "reports:org:costs:1:2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestRedisReportCache_SetGetConPrefijo(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "reports:org:costs:1:2", []byte(`{"total_cost":"10"}`), time.Minute))

	b, ok, err := c.Get(ctx, "reports:org:costs:1:2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"total_cost":"10"}`, string(b))
	assert.True(t, mr.Exists("field-assets:reports:org:costs:1:2"))
}

func TestRedisReportCache_Expira(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 30*time.Second))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisReportCache_TTLInvalido(t *testing.T) {
	c, _ := newCache(t)
	assert.Error(t, c.Set(context.Background(), "k", []byte("v"), 0))
}

func TestRedisReportCache_ServidorCaido(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestNewRedis_URLInvalida(t *testing.T) {
	_, err := cache.NewRedis(context.Background(), "http://no-es-redis")
	assert.Error(t, err)
}
