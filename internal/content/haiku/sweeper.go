// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kigo/internal/platform/txn"
)

// sweepBatchSize bounds how many haiku one sweep transaction removes.
const sweepBatchSize = 200

// Sweeper deletes unsaved haiku older than the retention period.
type Sweeper struct {
	haikus     Repository
	transactor txn.Transactor
	retention  time.Duration
	interval   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewSweeper creates a [Sweeper] that runs every interval and removes
// unsaved haiku older than retention.
func NewSweeper(haikus Repository, transactor txn.Transactor, retention, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		haikus:     haikus,
		transactor: transactor,
		retention:  retention,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
	}
}

// Run sweeps once immediately, then every interval until ctx is cancelled.
func (sweeper *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	for {
		if _, err := sweeper.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			sweeper.logger.ErrorContext(ctx, "haiku_sweep_failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce removes every expired haiku in batches and returns the total.
func (sweeper *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := sweeper.now().Add(-sweeper.retention)
	total := 0

	for {
		var removed int
		err := sweeper.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
			var err error
			removed, err = sweeper.haikus.DeleteExpired(ctx, cutoff, sweepBatchSize)
			return err
		})
		if err != nil {
			return total, err
		}

		total += removed
		if removed < sweepBatchSize {
			break
		}
	}

	if total > 0 {
		sweeper.logger.InfoContext(ctx, "haiku_sweep_completed",
			slog.Int("deleted", total),
			slog.Time("cutoff", cutoff),
		)
	} else {
		sweeper.logger.DebugContext(ctx, "haiku_sweep_nothing_to_delete")
	}

	return total, nil
}
