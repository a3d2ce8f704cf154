// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package username_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/memstore"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
)

func setup(t *testing.T, actors ...string) (*memstore.Store, *username.Registry) {
	t.Helper()
	store := memstore.New()
	for _, id := range actors {
		_, err := store.Accounts().Create(context.Background(), &account.Actor{ID: id})
		require.NoError(t, err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, username.NewRegistry(store.Usernames(), store.Accounts(), store, logger)
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"abc", "Alice_99", "a_b_c_d_e_f_g_h_i_j_"} {
		assert.NoError(t, username.Validate(ok), ok)
	}
	for _, bad := range []string{"", "ab", "has space", "dash-name", "abcdefghijklmnopqrstu", "émile"} {
		err := username.Validate(bad)
		require.Error(t, err, bad)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	}
}

func TestClaim_ReleasesPreviousName(t *testing.T) {
	ctx := context.Background()
	store, registry := setup(t, "a", "b")

	_, err := registry.Claim(ctx, "a", "alice")
	require.NoError(t, err)

	_, err = registry.Claim(ctx, "b", "alice")
	assert.ErrorIs(t, err, username.ErrTaken)

	_, err = registry.Claim(ctx, "a", "alice2")
	require.NoError(t, err)

	result, err := registry.Claim(ctx, "b", "alice")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	assert.Equal(t, map[string]string{"alice2": "a", "alice": "b"}, store.ReservationOwners())

	profile, err := store.Accounts().FindByID(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "alice", *profile.Username)
}

func TestClaim_SameNameIsNoop(t *testing.T) {
	ctx := context.Background()
	_, registry := setup(t, "a")

	_, err := registry.Claim(ctx, "a", "alice")
	require.NoError(t, err)

	result, err := registry.Claim(ctx, "a", "alice")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, "alice", result.Username)
}

func TestClaim_CaseSensitive(t *testing.T) {
	ctx := context.Background()
	_, registry := setup(t, "a", "b")

	_, err := registry.Claim(ctx, "a", "alice")
	require.NoError(t, err)
	_, err = registry.Claim(ctx, "b", "Alice")
	assert.NoError(t, err)
}

func TestClaim_Errors(t *testing.T) {
	ctx := context.Background()
	store, registry := setup(t, "a")

	_, err := registry.Claim(ctx, "", "alice")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))

	_, err = registry.Claim(ctx, "a", "no")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = registry.Claim(ctx, "ghost", "ghostly")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Empty(t, store.ReservationOwners())
}

func TestClaim_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	actors := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	store, registry := setup(t, actors...)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for _, id := range actors {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := registry.Claim(ctx, id, "contested")
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
	assert.Equal(t, winners[0], store.ReservationOwners()["contested"])
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	_, registry := setup(t, "a")

	_, err := registry.Lookup(ctx, "free_name")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = registry.Claim(ctx, "a", "taken_name")
	require.NoError(t, err)

	reservation, err := registry.Lookup(ctx, "taken_name")
	require.NoError(t, err)
	assert.Equal(t, "a", reservation.OwnerID)
}
