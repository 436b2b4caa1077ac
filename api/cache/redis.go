/* redis.go
 * Contains the Redis backed SummaryCache. Summaries are stored as JSON strings with an expiry, next to a counter
 * key holding the pair's generation. The generation check and the write run as one script so they cannot interleave
 * with an invalidation
 * Authors: Zachary Bower
 */

package cache

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisCache stores summaries in redis. Any redis.Cmdable works, which lets tests use redismock
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ SummaryCache = (*RedisCache)(nil)

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient creates a client and checks the connection
// Preconditions: Receives context, address, password and db index
// Postconditions: Returns the connected client, or an error if the server cannot be reached
func NewRedisClient(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logrus.WithField("addr", addr).Info("redis cache connected")
	return rdb, nil
}

func (c *RedisCache) Get(ctx context.Context, userID string, gameType shared.GameType) (logic.MatchSummary, bool, error) {
	val, err := c.rdb.Get(ctx, Key(userID, gameType)).Result()
	if errors.Is(err, redis.Nil) {
		return logic.MatchSummary{}, false, nil
	}
	if err != nil {
		return logic.MatchSummary{}, false, fmt.Errorf("error reading summary from redis: %w", err)
	}

	var summary logic.MatchSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return logic.MatchSummary{}, false, fmt.Errorf("error decoding cached summary: %w", err)
	}
	return summary, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, userID string, gameType shared.GameType) (uint64, error) {
	generation, err := c.rdb.Get(ctx, GenerationKey(userID, gameType)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading summary generation from redis: %w", err)
	}
	return generation, nil
}

// KEYS[1] summary, KEYS[2] generation. ARGV[1] expected generation, ARGV[2] summary, ARGV[3] ttl in ms (0 = none)
const setIfGenerationScript = `
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`

// KEYS[1] summary, KEYS[2] generation
const invalidateScript = `
redis.call('DEL', KEYS[1])
return redis.call('INCR', KEYS[2])
`

func (c *RedisCache) Set(ctx context.Context, userID string, gameType shared.GameType, generation uint64, summary logic.MatchSummary) (bool, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return false, fmt.Errorf("error encoding summary: %w", err)
	}

	keys := []string{Key(userID, gameType), GenerationKey(userID, gameType)}
	stored, err := c.rdb.Eval(ctx, setIfGenerationScript, keys, strconv.FormatUint(generation, 10), string(data), c.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("error writing summary to redis: %w", err)
	}
	return stored == 1, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string, gameType shared.GameType) error {
	keys := []string{Key(userID, gameType), GenerationKey(userID, gameType)}
	if err := c.rdb.Eval(ctx, invalidateScript, keys).Err(); err != nil {
		return fmt.Errorf("error invalidating cached summary: %w", err)
	}
	return nil
}
