// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/ctxkey"
	"github.com/taibuivan/kigo/internal/platform/txn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repositories run the
// same statements inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// Conn returns the transaction bound to ctx, or the pool when there is none.
func Conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(ctxkey.KeyTx).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// TxManager runs units of work at SERIALIZABLE isolation and retries the ones
// Postgres aborts because of a concurrent writer.
type TxManager struct {
	pool        *pgxpool.Pool
	maxAttempts int
	logger      *slog.Logger
}

var _ txn.Transactor = (*TxManager)(nil)

// NewTxManager creates a transaction runner over pool.
func NewTxManager(pool *pgxpool.Pool, maxAttempts int, logger *slog.Logger) *TxManager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TxManager{pool: pool, maxAttempts: maxAttempts, logger: logger}
}

/*
RunInTransaction executes fn inside one serializable transaction.

Description: A nested call joins the outer transaction. Serialization failures
and deadlocks are retried up to maxAttempts; exhaustion is reported as
apperr.TransactionConflict. Any other error from fn is returned unchanged.

Parameters:
  - ctx: context.Context
  - fn: txn.Func

Returns:
  - error: fn's error, commit failures, or TransactionConflict
*/
func (manager *TxManager) RunInTransaction(ctx context.Context, fn txn.Func) error {
	if _, nested := ctx.Value(ctxkey.KeyTx).(pgx.Tx); nested {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= manager.maxAttempts; attempt++ {
		lastErr = manager.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		manager.logger.DebugContext(ctx, "tx_conflict_retry",
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr),
		)
	}

	return apperr.TransactionConflict(lastErr)
}

// runOnce performs a single begin/fn/commit cycle.
func (manager *TxManager) runOnce(ctx context.Context, fn txn.Func) error {
	transaction, err := manager.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("postgres_begin_tx_failed: %w", err)
	}

	// Safe after a successful commit.
	defer func() {
		if rollbackErr := transaction.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			manager.logger.WarnContext(ctx, "tx_rollback_failed", slog.Any("error", rollbackErr))
		}
	}()

	if err := fn(context.WithValue(ctx, ctxkey.KeyTx, transaction)); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_commit_tx_failed: %w", err)
	}

	return nil
}

// IsRetryable reports whether err is a Postgres conflict worth retrying.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
