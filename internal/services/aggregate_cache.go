package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/models"
)

const DefaultAggregateCacheTTL = 5 * time.Minute

// storeIfNewerScript writes ARGV[1] unless the cached entry was computed from
// more ratings than ARGV[2]. Ratings are append-only, so ratings_count orders
// aggregates of one user. Unreadable entries are overwritten.
const storeIfNewerScript = `
local current = redis.call("GET", KEYS[1])
if current then
	local ok, decoded = pcall(cjson.decode, current)
	if ok and type(decoded) == "table" and tonumber(decoded.ratings_count) and tonumber(decoded.ratings_count) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`

// AggregateCache keeps read-side copies of aggregates in redis. Writes never
// replace an entry built from more ratings, so a slow reader or a late
// recompute cannot roll the cache back. Redis errors degrade to misses.
type AggregateCache struct {
	redis RedisClient
	ttl   time.Duration
}

func NewAggregateCache(client RedisClient, ttl time.Duration) *AggregateCache {
	if ttl <= 0 {
		ttl = DefaultAggregateCacheTTL
	}
	return &AggregateCache{redis: client, ttl: ttl}
}

func aggregateCacheKey(userID uuid.UUID) string {
	return "aggregate:" + userID.String()
}

func (c *AggregateCache) Get(ctx context.Context, userID uuid.UUID) (*models.Aggregate, bool) {
	raw, err := c.redis.Get(ctx, aggregateCacheKey(userID))
	if err != nil {
		if !isCacheMiss(err) {
			logging.Warn("Aggregate cache read failed", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
		return nil, false
	}

	var aggregate models.Aggregate
	if err := json.Unmarshal([]byte(raw), &aggregate); err != nil {
		logging.Warn("Discarding corrupt aggregate cache entry", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return &aggregate, true
}

// Store caches aggregate unless a newer one is already cached. It reports
// whether the write happened.
func (c *AggregateCache) Store(ctx context.Context, userID uuid.UUID, aggregate models.Aggregate) bool {
	data, err := json.Marshal(aggregate)
	if err != nil {
		return false
	}
	result, err := c.redis.Eval(ctx, storeIfNewerScript,
		[]string{aggregateCacheKey(userID)},
		string(data), aggregate.RatingsCount, c.ttl.Milliseconds(),
	)
	if err != nil {
		logging.Warn("Aggregate cache write failed", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		return false
	}
	stored, _ := result.(int64)
	if stored == 0 {
		logging.Debug("Skipped caching older aggregate", map[string]interface{}{
			"user_id":       userID.String(),
			"ratings_count": aggregate.RatingsCount,
		})
	}
	return stored == 1
}

func (c *AggregateCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.redis.Del(ctx, aggregateCacheKey(userID)); err != nil {
		logging.Warn("Aggregate cache invalidate failed", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
}
