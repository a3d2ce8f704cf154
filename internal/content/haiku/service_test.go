// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/memstore"
	"github.com/taibuivan/kigo/internal/users/account"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, actors ...string) (*memstore.Store, *haiku.Service) {
	t.Helper()
	store := memstore.New()
	for _, id := range actors {
		_, err := store.Accounts().Create(context.Background(), &account.Actor{ID: id})
		require.NoError(t, err)
	}
	return store, haiku.NewService(store.Haikus(), store.Accounts(), store, discardLogger())
}

func totalHaikus(t *testing.T, store *memstore.Store, id string) int64 {
	t.Helper()
	actor, err := store.Accounts().FindByID(context.Background(), id)
	require.NoError(t, err)
	return actor.Stats.TotalHaikus
}

func TestCreate_IncrementsTotal(t *testing.T) {
	ctx := context.Background()
	store, service := newService(t, "u1")

	created, err := service.Create(ctx, "u1", haiku.CreateInput{Content: " old pond ", Theme: "frog", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "old pond", created.Content)
	assert.True(t, created.OwnedBy("u1"))
	assert.Zero(t, created.LikeCount)
	assert.Equal(t, int64(1), totalHaikus(t, store, "u1"))
}

func TestCreate_Errors(t *testing.T) {
	ctx := context.Background()
	store, service := newService(t, "u1")

	_, err := service.Create(ctx, "", haiku.CreateInput{Content: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))

	_, err = service.Create(ctx, "u1", haiku.CreateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, "u1", haiku.CreateInput{Content: strings.Repeat("a", haiku.MaxContentLength+1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, "ghost", haiku.CreateInput{Content: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.Equal(t, int64(0), totalHaikus(t, store, "u1"))
}

func TestGet_Visibility(t *testing.T) {
	ctx := context.Background()
	_, service := newService(t, "u1", "u2")

	private, err := service.Create(ctx, "u1", haiku.CreateInput{Content: "secret"})
	require.NoError(t, err)

	_, err = service.Get(ctx, "u1", private.ID)
	assert.NoError(t, err)

	_, err = service.Get(ctx, "u2", private.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Get(ctx, "", private.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestMarkSaved(t *testing.T) {
	ctx := context.Background()
	_, service := newService(t, "u1", "u2")

	item, err := service.Create(ctx, "u1", haiku.CreateInput{Content: "keep me"})
	require.NoError(t, err)

	_, err = service.MarkSaved(ctx, "u2", item.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	saved, err := service.MarkSaved(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsSaved)

	_, err = service.MarkSaved(ctx, "u1", "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	_, service := newService(t, "u1")

	inputs := []haiku.CreateInput{
		{Content: "a", IsPublic: true, IsSaved: true},
		{Content: "b", IsPublic: true},
		{Content: "c", IsSaved: true},
		{Content: "d"},
	}
	for _, input := range inputs {
		_, err := service.Create(ctx, "u1", input)
		require.NoError(t, err)
	}

	stats, err := service.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &haiku.UserStats{Total: 4, Saved: 2, Public: 2}, stats)
}

func TestHashtags_RequiresContent(t *testing.T) {
	_, service := newService(t)

	_, err := service.Hashtags("u1", "moon", "")
	require.Error(t, err)
	assert.Equal(t, "Content is required", err.Error())

	_, err = service.Hashtags("", "moon", "text")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}
