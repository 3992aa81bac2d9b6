// Package cache implementa el puerto analytics.ReportCache sobre Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/field-assets-api/internal/application/analytics"
)

// NewRedis crea el cliente y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisReportCache guarda reportes serializados con expiración.
type RedisReportCache struct {
	rdb    *redis.Client
	prefix string
}

var _ analytics.ReportCache = (*RedisReportCache)(nil)

// NewRedisReportCache envuelve el cliente; prefix separa los espacios de claves entre servicios.
func NewRedisReportCache(rdb *redis.Client, prefix string) *RedisReportCache {
	return &RedisReportCache{rdb: rdb, prefix: prefix}
}

func (c *RedisReportCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get devuelve (nil, false, nil) si la clave no existe o expiró.
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Set guarda el reporte; ttl <= 0 no se admite para no dejar reportes eternos.
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis set %s: ttl debe ser positivo", key)
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping para el health check.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
