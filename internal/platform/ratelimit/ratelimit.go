// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit throttles expensive per-actor operations (haiku generation)
with a fixed-window counter.

Windows are aligned to multiples of the window length since the Unix epoch.
An actor may make at most Max calls per window; the next window starts from
zero. Two implementations share the same contract:

  - [FixedWindow]: in-process, for a single API instance and for tests.
  - [RedisFixedWindow]: shared across instances through Redis.
*/
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
)

// Limiter admits or rejects one call for an actor.
type Limiter interface {
	// Allow returns nil when the call is admitted, apperr.RateLimitExceeded
	// when the actor has used up the current window, or
	// apperr.Unauthenticated when actorID is empty.
	Allow(ctx context.Context, actorID string) error
}

// Options configures a fixed-window limiter.
type Options struct {
	Window time.Duration
	Max    int
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

func (options Options) now() time.Time {
	if options.Now != nil {
		return options.Now()
	}
	return time.Now()
}

// windowMillis is the window length in milliseconds, never less than one.
func (options Options) windowMillis() int64 {
	return max(options.Window.Milliseconds(), 1)
}

// windowIndex returns the index of the window containing now.
func (options Options) windowIndex(now time.Time) int64 {
	return now.UnixMilli() / options.windowMillis()
}

type windowKey struct {
	actorID string
	window  int64
}

// FixedWindow is an in-memory [Limiter]. It is safe for concurrent use.
type FixedWindow struct {
	mu      sync.Mutex
	options Options
	counts  map[windowKey]int
}

var _ Limiter = (*FixedWindow)(nil)

// NewFixedWindow creates an in-memory limiter.
func NewFixedWindow(options Options) *FixedWindow {
	return &FixedWindow{
		options: options,
		counts:  make(map[windowKey]int),
	}
}

// Allow implements [Limiter].
//
// Entries more than two windows behind the current one are dropped on every
// call, so memory is bounded by the actors active in the last three windows.
func (limiter *FixedWindow) Allow(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperr.Unauthenticated("")
	}

	current := limiter.options.windowIndex(limiter.options.now())
	key := windowKey{actorID: actorID, window: current}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for existing := range limiter.counts {
		if existing.window < current-2 {
			delete(limiter.counts, existing)
		}
	}

	if limiter.counts[key] >= limiter.options.Max {
		return apperr.RateLimitExceeded()
	}

	limiter.counts[key]++
	return nil
}

// Len reports how many actor windows are currently tracked.
func (limiter *FixedWindow) Len() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.counts)
}
