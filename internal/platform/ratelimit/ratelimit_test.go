// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/ratelimit"
	"github.com/taibuivan/kigo/pkg/uuid"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

func newClock() *fakeClock {
	// Aligned to a minute boundary so a window starts exactly here.
	return &fakeClock{now: time.UnixMilli(60_000 * 29_000_000)}
}

func exerciseBoundary(t *testing.T, limiter ratelimit.Limiter, clock *fakeClock) {
	t.Helper()
	ctx := context.Background()
	actor := "actor-" + uuid.New()

	for i := 1; i <= 10; i++ {
		require.NoError(t, limiter.Allow(ctx, actor), "call %d should pass", i)
	}

	err := limiter.Allow(ctx, actor)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeRateLimitExceeded))
	assert.Equal(t, "Rate limit exceeded. Please try again later.", err.Error())

	// Other actors are unaffected.
	assert.NoError(t, limiter.Allow(ctx, "someone-else-"+actor))

	clock.Advance(time.Minute)
	assert.NoError(t, limiter.Allow(ctx, actor))
}

func TestFixedWindow_Boundary(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10, Now: clock.Now})

	exerciseBoundary(t, limiter, clock)
}

func TestFixedWindow_RequiresActor(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10})

	err := limiter.Allow(context.Background(), "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

func TestFixedWindow_EvictsOldWindows(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10, Now: clock.Now})
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "a"))
	require.NoError(t, limiter.Allow(ctx, "b"))
	assert.Equal(t, 2, limiter.Len())

	clock.Advance(3 * time.Minute)
	require.NoError(t, limiter.Allow(ctx, "c"))
	assert.Equal(t, 1, limiter.Len())
}

func TestFixedWindow_SubMillisecondWindow(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: 500 * time.Microsecond, Max: 1, Now: clock.Now})
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "a"))
	assert.True(t, apperr.HasCode(limiter.Allow(ctx, "a"), apperr.CodeRateLimitExceeded))

	clock.Advance(time.Millisecond)
	assert.NoError(t, limiter.Allow(ctx, "a"))
}

func TestFixedWindow_Concurrent(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10, Now: clock.Now})

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(context.Background(), "busy") == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), admitted.Load())
}

// TestRedisFixedWindow_Boundary runs against a real Redis when REDIS_URL is set.
func TestRedisFixedWindow_Boundary(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	options, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	clock := newClock()
	limiter := ratelimit.NewRedisFixedWindow(client, "test", ratelimit.Options{Window: time.Minute, Max: 10, Now: clock.Now})

	exerciseBoundary(t, limiter, clock)
}

func TestRedisFixedWindow_Key(t *testing.T) {
	limiter := ratelimit.NewRedisFixedWindow(nil, "generate", ratelimit.Options{Window: time.Minute, Max: 10})
	assert.Equal(t, "ratelimit:generate:u1:42", limiter.Key("u1", 42))
}
