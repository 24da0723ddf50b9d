package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

const keyPrefix = "ratelimit:"

// hitScript keeps one sorted set per key, scored by attempt time in ms.
var hitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
  return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

// RedisStore runs the prune-count-record sequence as one Lua script.
type RedisStore struct {
	client redis.Scripter
}

// NewRedisStore wraps a Redis client.
func NewRedisStore(client redis.Scripter) *RedisStore {
	return &RedisStore{client: client}
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (bool, int, error) {
	member := fmt.Sprintf("%d-%s", now.UnixNano(), xid.New().String())
	res, err := hitScript.Run(ctx, s.client,
		[]string{keyPrefix + key},
		now.UnixMilli(), window.Milliseconds(), max, member,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: redis hit: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}
	return res[0] == 1, int(res[1]), nil
}
