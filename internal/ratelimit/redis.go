package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tasktrack/internal/crypto"
)

// RedisLimiter is a Redis-backed sliding-window rate limiter. The limit
// holds across multiple server instances sharing the same Redis.
type RedisLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	rate      int
	window    time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter allowing rate requests
// per window. Keys are namespaced under the given prefix; an empty
// prefix defaults to "ratelimit:".
func NewRedisLimiter(client redis.Cmdable, keyPrefix string, rate int, window time.Duration) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		rate:      rate,
		window:    window,
	}
}

// slidingWindow atomically trims expired entries, counts the rest, and
// records the new request when under the limit. The member carries a
// per-request nonce so concurrent requests in the same microsecond
// stay distinct entries.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local rate = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count + 1 > rate then
		return 0
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return 1
`)

// windowMember builds a unique sorted-set member for one request. The
// timestamp alone would collapse same-microsecond requests into a
// single entry and undercount them.
func windowMember(now time.Time) (string, error) {
	nonce, err := crypto.GenerateRandomHex(8)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMicro(), 10) + "-" + nonce, nil
}

// Allow checks if a request is allowed for the given key.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	member, err := windowMember(now)
	if err != nil {
		return false, fmt.Errorf("failed to build rate limit entry: %w", err)
	}

	result, err := slidingWindow.Run(ctx, r.client, []string{r.keyPrefix + key},
		now.Add(-r.window).UnixMicro(),
		now.UnixMicro(),
		r.rate,
		r.window.Milliseconds(),
		member,
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis rate limit script failed: %w", err)
	}

	return result == 1, nil
}

// Reset clears the rate limit state for the given key.
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyPrefix+key).Err()
}

// Close is a no-op; the Redis client is managed by the caller.
func (r *RedisLimiter) Close() error {
	return nil
}

// Ensure RedisLimiter implements Limiter.
var _ Limiter = (*RedisLimiter)(nil)
