// Package cache guarda datos efímeros compartidos por las instancias de la API:
// sesiones revocadas y contadores del limitador de intentos de login.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client contrato de caché (DIP). Redis en producción, memoria en desarrollo y pruebas.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr incrementa el contador; la expiración se fija solo al crearlo (ventana fija).
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// ErrCacheMiss la clave no existe o expiró.
var ErrCacheMiss = errors.New("cache: clave no encontrada")

var _ Client = (*RedisClient)(nil)

// RedisClient implementación de Client sobre Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient conecta con Redis y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisClient{rdb: rdb}, nil
}

// Get recupera el valor de una clave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set define un valor con expiración (0 = sin expiración).
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete elimina la clave (sin error si no existe).
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Incr incrementa el contador y fija la ventana cuando la clave se crea.
func (c *RedisClient) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Close libera las conexiones.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
