// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/postgres/pgtest"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/pkg/pointer"
)

func TestPostgresRepository_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repository := account.NewPostgresRepository(pgtest.Open(t))
	now := time.Now()
	id := pgtest.ID()

	created, err := repository.Create(ctx, &account.Actor{ID: id, DisplayName: "Basho", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repository.Create(ctx, &account.Actor{ID: id, DisplayName: "Other", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.False(t, created)

	actor, err := repository.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Basho", actor.DisplayName)
	assert.Nil(t, actor.Username)
	assert.Equal(t, account.Stats{}, actor.Stats)

	_, err = repository.FindByID(ctx, pgtest.ID())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgresRepository_ApplyPatch(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := account.NewPostgresRepository(pool)
	id := pgtest.SeedAccount(t, pool)

	require.NoError(t, repository.ApplyPatch(ctx, id, account.Patch{Bio: pointer.To("old pond")}, time.Now()))
	require.NoError(t, repository.ApplyPatch(ctx, id, account.Patch{
		DisplayName: pointer.To("Issa"),
		SocialLinks: &account.SocialLinks{Twitter: "issa"},
	}, time.Now()))

	actor, err := repository.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Issa", actor.DisplayName)
	assert.Equal(t, "old pond", actor.Bio)
	assert.Equal(t, account.SocialLinks{Twitter: "issa"}, actor.SocialLinks)

	err = repository.ApplyPatch(ctx, pgtest.ID(), account.Patch{Bio: pointer.To("x")}, time.Now())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgresRepository_IncrementStatClamps(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := account.NewPostgresRepository(pool)
	id := pgtest.SeedAccount(t, pool)

	require.NoError(t, repository.IncrementStat(ctx, id, account.StatTotalLikes, -1))
	require.NoError(t, repository.IncrementStat(ctx, id, account.StatTotalFollowers, 2))
	require.NoError(t, repository.IncrementStat(ctx, id, account.StatTotalFollowers, -1))

	actor, err := repository.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), actor.Stats.TotalLikes)
	assert.Equal(t, int64(1), actor.Stats.TotalFollowers)

	err = repository.IncrementStat(ctx, pgtest.ID(), account.StatTotalLikes, 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgresRepository_Username(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := account.NewPostgresRepository(pool)
	id := pgtest.SeedAccount(t, pool)

	current, err := repository.CurrentUsername(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, current)

	name := pgtest.Username()
	require.NoError(t, repository.AssignUsername(ctx, id, name, time.Now()))

	current, err = repository.CurrentUsername(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, name, *current)

	_, err = repository.CurrentUsername(ctx, pgtest.ID())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
