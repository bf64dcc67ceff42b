package loaded

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "prefetch:loaded"

// RedisOption configures the Redis-backed loaded set.
type RedisOption func(*redisOptions)

type redisOptions struct {
	key string
}

// WithKey sets the Redis key holding the set.
// Default: "prefetch:loaded".
func WithKey(key string) RedisOption {
	return func(o *redisOptions) {
		if key != "" {
			o.key = key
		}
	}
}

// Redis is a loaded set backed by a Redis SET, letting multiple
// replicas of a gateway share warm-state bookkeeping.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// NewRedis creates a Redis-backed loaded set.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	set := loaded.NewRedis(client, loaded.WithKey("shop:prefetch"))
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := &redisOptions{key: defaultRedisKey}
	for _, opt := range opts {
		opt(o)
	}

	return &Redis{
		client: client,
		key:    o.key,
	}
}

// Has reports whether a route has already been loaded.
func (r *Redis) Has(ctx context.Context, path string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, path).Result()
	if err != nil {
		return false, errors.Join(ErrBackend, err)
	}
	return ok, nil
}

// Add marks a route as loaded.
func (r *Redis) Add(ctx context.Context, path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if err := r.client.SAdd(ctx, r.key, path).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

// Paths returns all loaded route paths.
func (r *Redis) Paths(ctx context.Context) ([]string, error) {
	paths, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	return paths, nil
}

var _ Set = (*Redis)(nil)
