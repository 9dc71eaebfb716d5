package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordScript counts live entries in a sorted set keyed by request time,
// records the new request when under the limit, and refreshes the TTL. Runs
// atomically on the Redis server.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, count}
end

redis.call('ZADD', key, now, now .. '-' .. redis.call('INCR', key .. ':seq'))
redis.call('PEXPIRE', key, window)
redis.call('PEXPIRE', key .. ':seq', window)
return {1, count + 1}
`)

// RedisStore keeps sliding windows in Redis sorted sets so limits are shared
// across service replicas.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are namespaced under
// prefix; pass "" for the default "ratelimit".
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// RecordIfAllowed runs the atomic count-and-record script.
func (s *RedisStore) RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int64, error) {
	res, err := recordScript.Run(ctx, s.client,
		[]string{s.key(key)},
		now.UnixMilli(), window.Milliseconds(), limit,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: redis eval: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("ratelimit: unexpected script result: %v", res)
	}

	return res[0] == 1, res[1], nil
}

// Count returns the number of live entries for the key.
func (s *RedisStore) Count(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	rkey := s.key(key)
	cutoff := now.Add(-window).UnixMilli()

	if err := s.client.ZRemRangeByScore(ctx, rkey, "-inf", fmt.Sprintf("%d", cutoff)).Err(); err != nil {
		return 0, fmt.Errorf("ratelimit: redis zremrangebyscore: %w", err)
	}

	count, err := s.client.ZCard(ctx, rkey).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: redis zcard: %w", err)
	}
	return count, nil
}

// Reset removes the key's window.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key), s.key(key)+":seq").Err(); err != nil {
		return fmt.Errorf("ratelimit: redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}
