package store

import (
	"context"
	"errors"
	"time"

	perr "filterdetect/internal/platform/errors"

	"github.com/redis/go-redis/v9"
)

// redisCmd is the part of *redis.Client the adapter drives
type redisCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// redisAdapter implements KV with a key prefix
type redisAdapter struct {
	c      redisCmd
	prefix string
}

func newRedisAdapter(c redisCmd, prefix string) *redisAdapter {
	return &redisAdapter{c: c, prefix: prefix}
}

func (r *redisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis get")
	}
	return b, nil
}

func (r *redisAdapter) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := r.c.Set(ctx, r.prefix+key, val, ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis set")
	}
	return nil
}

func (r *redisAdapter) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *redisAdapter) Close() error { return r.c.Close() }
