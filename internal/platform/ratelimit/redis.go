// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/constants"
)

// admitScript increments the window counter unless it already reached the
// limit. Rejected calls do not count. Keys expire after two windows.
//
// KEYS[1] window key, ARGV[1] ttl in ms, ARGV[2] max.
var admitScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[2]) then
	return 0
end
redis.call('INCR', KEYS[1])
if current == 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return 1
`)

// RedisFixedWindow is a [Limiter] whose counters live in Redis.
type RedisFixedWindow struct {
	client  redis.Scripter
	options Options
	scope   string
}

var _ Limiter = (*RedisFixedWindow)(nil)

// NewRedisFixedWindow creates a Redis-backed limiter. scope separates the
// counters of independent limiters sharing one Redis ("generate").
func NewRedisFixedWindow(client redis.Scripter, scope string, options Options) *RedisFixedWindow {
	return &RedisFixedWindow{client: client, options: options, scope: scope}
}

// Key returns the Redis key holding actorID's counter for a window.
func (limiter *RedisFixedWindow) Key(actorID string, window int64) string {
	return constants.RedisPrefixRateLimit + limiter.scope + ":" + actorID + ":" + strconv.FormatInt(window, 10)
}

// Allow implements [Limiter].
func (limiter *RedisFixedWindow) Allow(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperr.Unauthenticated("")
	}

	window := limiter.options.windowIndex(limiter.options.now())
	ttl := 2 * limiter.options.windowMillis()

	admitted, err := admitScript.Run(ctx, limiter.client,
		[]string{limiter.Key(actorID, window)},
		ttl, limiter.options.Max,
	).Int()
	if err != nil {
		return apperr.Internal(fmt.Errorf("ratelimit_redis_admit_failed: %w", err))
	}

	if admitted == 0 {
		return apperr.RateLimitExceeded()
	}
	return nil
}
