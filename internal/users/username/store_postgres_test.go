// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package username_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/postgres"
	"github.com/taibuivan/kigo/internal/platform/postgres/pgtest"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
)

func TestPostgresRepository_Reservations(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := username.NewPostgresRepository(pool)
	owner := pgtest.SeedAccount(t, pool)
	name := pgtest.Username()

	found, err := repository.Find(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repository.Create(ctx, &username.Reservation{Username: name, OwnerID: owner, CreatedAt: time.Now()}))

	err = repository.Create(ctx, &username.Reservation{Username: name, OwnerID: pgtest.SeedAccount(t, pool), CreatedAt: time.Now()})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	found, err = repository.Find(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner, found.OwnerID)

	require.NoError(t, repository.Delete(ctx, name))
	require.NoError(t, repository.Delete(ctx, name), "deleting a free name is not an error")

	found, err = repository.Find(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPostgresRegistry_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	accounts := account.NewPostgresRepository(pool)
	registry := username.NewRegistry(
		username.NewPostgresRepository(pool), accounts,
		postgres.NewTxManager(pool, 10, pgtest.Logger()), pgtest.Logger(),
	)

	actors := make([]string, 4)
	for i := range actors {
		actors[i] = pgtest.SeedAccount(t, pool)
	}
	contested := pgtest.Username()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for _, id := range actors {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := registry.Claim(ctx, id, contested)
			if err == nil {
				mu.Lock()
				winners = append(winners, id)
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, username.ErrTaken)
		}(id)
	}
	wg.Wait()

	require.Len(t, winners, 1)

	reservation, err := registry.Lookup(ctx, contested)
	require.NoError(t, err)
	assert.Equal(t, winners[0], reservation.OwnerID)

	for _, id := range actors {
		current, err := accounts.CurrentUsername(ctx, id)
		require.NoError(t, err)
		if id == winners[0] {
			require.NotNil(t, current)
			assert.Equal(t, contested, *current)
		} else {
			assert.Nil(t, current)
		}
	}
}
