package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NewRedisClient connects and pings redis.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisCache stores JSON values under prefix:key and keeps one redis set
// per tag listing the keys registered under it.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *RedisCache) tagKey(t Tag) string {
	return c.prefix + ":tag:" + string(t)
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A payload that no longer decodes is treated as a miss and dropped.
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, tags ...Tag) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	fullKey := c.key(key)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fullKey, data, c.ttl)
		for _, t := range tags {
			pipe.SAdd(ctx, c.tagKey(t), fullKey)
			pipe.Expire(ctx, c.tagKey(t), c.ttl)
		}
		return nil
	})
	return err
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, tags ...Tag) error {
	for _, t := range tags {
		tk := c.tagKey(t)
		members, err := c.rdb.SMembers(ctx, tk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to read tag %s: %w", t, err)
		}
		if err := c.rdb.Del(ctx, append(members, tk)...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate tag %s: %w", t, err)
		}
	}
	return nil
}

// Sweep removes tag set members whose entries have already expired.
func (c *RedisCache) Sweep(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+":tag:*", 100).Iterator()
	for iter.Next(ctx) {
		tk := iter.Val()
		members, err := c.rdb.SMembers(ctx, tk).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag set %s: %w", tk, err)
		}
		for _, m := range members {
			exists, err := c.rdb.Exists(ctx, m).Result()
			if err != nil {
				return fmt.Errorf("failed to check cache key %s: %w", m, err)
			}
			if exists == 0 {
				if err := c.rdb.SRem(ctx, tk, m).Err(); err != nil {
					return fmt.Errorf("failed to prune tag set %s: %w", tk, err)
				}
			}
		}
	}
	return iter.Err()
}
