// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest opens a migrated PostgreSQL pool for integration tests.

Tests are skipped unless DATABASE_URL is set. Callers share one database, so
every test must use fresh identifiers ([ID], [Username]) instead of relying on
empty tables.
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/migration"
	"github.com/taibuivan/kigo/internal/platform/postgres"
	"github.com/taibuivan/kigo/pkg/uuid"
)

const migrationLockKey = 7_404_511

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open migrates the database named by DATABASE_URL and returns a pool that is
// closed when the test ends.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, Logger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Test binaries run in parallel; serialize the migration step across them.
	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey)
	require.NoError(t, err)
	defer func() { _, _ = conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrationLockKey) }()

	require.NoError(t, migration.RunUp(dsn, migrationsDir(), Logger()))
	return pool
}

// ID returns a fresh primary key.
func ID() string {
	return uuid.New()
}

// Username returns a fresh valid username.
func Username() string {
	return "t_" + strings.ReplaceAll(uuid.New(), "-", "")[:16]
}

// SeedAccount inserts a bare profile and returns its id.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := ID()
	_, err := pool.Exec(context.Background(), `INSERT INTO users.account (id) VALUES ($1)`, id)
	require.NoError(t, err)
	return id
}

// migrationsDir resolves data/migrations relative to this file.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
