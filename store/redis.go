package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart:"

// RedisStore persists snapshots as plain Redis strings under "cart:<key>".
// A zero TTL keeps snapshots until deleted.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects to the given address and verifies the connection
// with a ping before returning.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, key string) (string, error) {
	snap, err := r.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return snap, nil
}

func (r *RedisStore) Save(ctx context.Context, key, snapshot string) error {
	return r.rdb.Set(ctx, redisKeyPrefix+key, snapshot, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
