// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/postgres"
	"github.com/taibuivan/kigo/internal/platform/postgres/pgtest"
	"github.com/taibuivan/kigo/internal/social/engagement"
	"github.com/taibuivan/kigo/internal/users/account"
)

// Rows seeded in the distant past so the sweep only ever touches this test's data.
var epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

func seedPostgresHaiku(t *testing.T, repository *haiku.PostgresRepository, owner *string, createdAt time.Time, saved bool) string {
	t.Helper()
	id := pgtest.ID()
	require.NoError(t, repository.Create(context.Background(), &haiku.Haiku{
		ID: id, OwnerID: owner, Content: "old pond", IsSaved: saved, CreatedAt: createdAt,
	}))
	return id
}

func TestPostgresRepository_CreateAndCount(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := haiku.NewPostgresRepository(pool)
	owner := pgtest.SeedAccount(t, pool)

	id := seedPostgresHaiku(t, repository, &owner, time.Now(), true)
	require.NoError(t, repository.Create(ctx, &haiku.Haiku{ID: pgtest.ID(), OwnerID: &owner, Content: "frog", IsPublic: true, CreatedAt: time.Now()}))
	seedPostgresHaiku(t, repository, nil, time.Now(), false)

	found, err := repository.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, found.OwnedBy(owner))
	assert.Empty(t, found.LikedBy)

	for filter, want := range map[haiku.CountFilter]int64{haiku.CountAll: 2, haiku.CountSaved: 1, haiku.CountPublic: 1} {
		count, err := repository.CountByOwner(ctx, owner, filter)
		require.NoError(t, err)
		assert.Equal(t, want, count, "filter %d", filter)
	}

	ghost := pgtest.ID()
	err = repository.Create(ctx, &haiku.Haiku{ID: pgtest.ID(), OwnerID: &ghost, Content: "x", CreatedAt: time.Now()})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = repository.FindByID(ctx, pgtest.ID())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgresRepository_AdjustLikes(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := haiku.NewPostgresRepository(pool)
	id := seedPostgresHaiku(t, repository, nil, time.Now(), false)

	likeCount := func() (int64, []string) {
		found, err := repository.FindByID(ctx, id)
		require.NoError(t, err)
		return found.LikeCount, found.LikedBy
	}

	require.NoError(t, repository.AdjustLikes(ctx, id, "u1", 1))
	require.NoError(t, repository.AdjustLikes(ctx, id, "u2", 1))
	count, likedBy := likeCount()
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"u1", "u2"}, likedBy)

	require.NoError(t, repository.AdjustLikes(ctx, id, "u1", -1))
	count, likedBy = likeCount()
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []string{"u2"}, likedBy)

	require.NoError(t, repository.AdjustLikes(ctx, id, "u2", -1))
	require.NoError(t, repository.AdjustLikes(ctx, id, "u2", -1))
	count, likedBy = likeCount()
	assert.Equal(t, int64(0), count)
	assert.Empty(t, likedBy)

	err := repository.AdjustLikes(ctx, pgtest.ID(), "u1", 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, repository.MarkSaved(ctx, id))
	found, err := repository.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, found.IsSaved)
}

func TestPostgresRepository_DeleteExpiredCompensatesCounters(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Open(t)
	repository := haiku.NewPostgresRepository(pool)
	accounts := account.NewPostgresRepository(pool)
	likes := engagement.NewPostgresLikeRepository(pool)
	collections := collection.NewPostgresRepository(pool)
	manager := postgres.NewTxManager(pool, 3, pgtest.Logger())

	owner := pgtest.SeedAccount(t, pool)
	expired := seedPostgresHaiku(t, repository, &owner, epoch, false)
	saved := seedPostgresHaiku(t, repository, &owner, epoch, true)
	fresh := seedPostgresHaiku(t, repository, &owner, epoch.Add(48*time.Hour), false)
	require.NoError(t, accounts.IncrementStat(ctx, owner, account.StatTotalHaikus, 3))

	for _, fan := range []string{"f1", "f2"} {
		require.NoError(t, likes.Create(ctx, engagement.Like{ActorID: fan, HaikuID: expired, LikedAt: time.Now()}))
		require.NoError(t, repository.AdjustLikes(ctx, expired, fan, 1))
	}
	require.NoError(t, accounts.IncrementStat(ctx, owner, account.StatTotalLikes, 2))

	list := &collection.Collection{ID: pgtest.ID(), OwnerID: owner, Name: "Winter", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, collections.Create(ctx, list))
	for order, id := range []string{expired, saved} {
		require.NoError(t, collections.AddMembership(ctx, collection.Membership{CollectionID: list.ID, HaikuID: id, Order: int64(order), AddedAt: time.Now()}))
		require.NoError(t, collections.IncrementItemCount(ctx, list.ID, time.Now()))
	}

	var removed int
	err := manager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		removed, err = repository.DeleteExpired(ctx, epoch.Add(24*time.Hour), 1000)
		return err
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, 1)

	_, err = repository.FindByID(ctx, expired)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	for _, id := range []string{saved, fresh} {
		_, err := repository.FindByID(ctx, id)
		assert.NoError(t, err)
	}

	actor, err := accounts.FindByID(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), actor.Stats.TotalHaikus)
	assert.Equal(t, int64(0), actor.Stats.TotalLikes)

	liked, err := likes.Exists(ctx, "f1", expired)
	require.NoError(t, err)
	assert.False(t, liked)

	stored, err := collections.FindByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ItemCount)
	assert.Equal(t, int64(2), stored.NextOrder)

	items, total, err := collections.ListItems(ctx, list.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, saved, items[0].HaikuID)
}
