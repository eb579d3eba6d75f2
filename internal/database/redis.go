package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDB is the shared redis connection. The write rate limiter keeps its
// per-user windows under ratelimit:writes: and the aggregator caches
// profile aggregates under aggregate:<user id>. Friend requests, blocks and
// ratings live only in postgres, so losing redis costs cache hits, not data.
type RedisDB struct {
	Client *redis.Client
}

var (
	newRedisClient = redis.NewClient
	redisPing      = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	closeRedisClient = func(client *redis.Client) error {
		return client.Close()
	}
)

// NewRedisDB connects and pings once so a bad REDIS_HOST fails startup
// instead of the first rate-limited write.
func NewRedisDB(addr, password string, db int) (*RedisDB, error) {
	client := newRedisClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisPing(ctx, client); err != nil {
		_ = closeRedisClient(client)
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() error {
	if r.Client != nil {
		return closeRedisClient(r.Client)
	}
	return nil
}

// Health backs the redis entry of the /health endpoint.
func (r *RedisDB) Health(ctx context.Context) error {
	return redisPing(ctx, r.Client)
}
