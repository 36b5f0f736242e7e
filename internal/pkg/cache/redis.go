package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisCache namespaces keys with a generation counter. Invalidate bumps the
// counter so older entries are never read again and expire by TTL.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisCache) slot(ctx context.Context, key string) (Slot, error) {
	v, err := c.client.Get(ctx, c.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		v = "0"
	} else if err != nil {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		v = "0"
	}
	return Slot(c.prefix + ":v" + v + ":" + key), nil
}

// Get reads the current generation once and returns the slot a miss should
// be filled into.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (Slot, bool, error) {
	slot, err := c.slot(ctx, key)
	if err != nil {
		return "", false, err
	}

	data, err := c.client.Get(ctx, string(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return slot, false, fmt.Errorf("failed to get %s: %w", slot, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return slot, false, fmt.Errorf("failed to decode %s: %w", slot, err)
	}
	return slot, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slot Slot, value any) error {
	if slot == "" {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", slot, err)
	}

	if err := c.client.Set(ctx, string(slot), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", slot, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("failed to bump cache version: %w", err)
	}
	return nil
}
