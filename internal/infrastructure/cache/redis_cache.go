// Package cache caché JSON con versión global sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "rentability:cache:version"

// RedisCache guarda respuestas JSON con TTL. Bump invalida todas las entradas de una vez
// incrementando la versión que forma parte de cada clave.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache construye la caché. Un cliente nil desactiva la caché: FetchJSON llama siempre al loader.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) enabled() bool { return c != nil && c.client != nil }

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	return ver, err
}

// key compone la clave con la versión vigente.
func (c *RedisCache) key(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rentability:%s:v%d", strings.Join(parts, ":"), ver), nil
}

// FetchJSON lee dest de la caché o lo llena con loader y lo guarda.
func (c *RedisCache) FetchJSON(ctx context.Context, name string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if !c.enabled() {
		return fill(ctx, dest, loader)
	}
	key, err := c.key(ctx, name)
	if err != nil {
		return fill(ctx, dest, loader)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fill(ctx, dest, loader)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalida todas las entradas.
func (c *RedisCache) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

func fill(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
