package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tangobot/go-tangobot/config"
)

// Cache wraps the redis client with the hash-field primitives the counter and
// poll skills rely on. All mutation goes through redis' own atomic commands;
// nothing here adds locking.
type Cache struct {
	rdb *redis.Client
}

func New(cfg *config.Config) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{rdb: rdb}, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// IncrField atomically increments a hash field and returns the new value.
func (c *Cache) IncrField(ctx context.Context, key, field string, by int64) (int64, error) {
	return c.rdb.HIncrBy(ctx, key, field, by).Result()
}

// SetField writes a hash field.
func (c *Cache) SetField(ctx context.Context, key, field, value string) error {
	return c.rdb.HSet(ctx, key, field, value).Err()
}

// Fields returns every field of a hash. A missing key yields an empty map.
func (c *Cache) Fields(ctx context.Context, key string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, key).Result()
}

// Expire sets a key-level TTL.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

// TTL reports the remaining lifetime of a key. Negative when the key has no
// expiry or does not exist.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}
