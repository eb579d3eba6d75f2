package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisClient is what the aggregate cache needs from redis: plain reads and
// deletes, and Eval for the conditional write that keeps older aggregates
// from replacing newer ones.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
}

// RedisAdapter exposes a *redis.Client as a RedisClient, unwrapping each
// command into its result and error.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Get reports a missing key as redis.Nil; see isCacheMiss.
func (r *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisAdapter) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisAdapter) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	return r.client.Eval(ctx, script, keys, args...).Result()
}

func isCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
