// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/apperr"
)

var errHaikuNotFound = apperr.NotFound("Haiku")

// HaikuRepository implements [haiku.Repository] in memory.
type HaikuRepository struct {
	store *Store
}

var _ haiku.Repository = (*HaikuRepository)(nil)

// FindByID implements [haiku.Repository].
func (repository *HaikuRepository) FindByID(ctx context.Context, id string) (*haiku.Haiku, error) {
	defer repository.store.access(ctx)()

	item, ok := repository.store.data.haikus[id]
	if !ok {
		return nil, errHaikuNotFound
	}
	found := copyHaiku(item)
	return &found, nil
}

// Create implements [haiku.Repository].
func (repository *HaikuRepository) Create(ctx context.Context, item *haiku.Haiku) error {
	defer repository.store.access(ctx)()

	if item.OwnerID != nil {
		if _, ok := repository.store.data.accounts[*item.OwnerID]; !ok {
			return errUserNotFound
		}
	}
	repository.store.data.haikus[item.ID] = copyHaiku(*item)
	return nil
}

// AdjustLikes implements [haiku.Repository].
func (repository *HaikuRepository) AdjustLikes(ctx context.Context, id, actorID string, delta int64) error {
	defer repository.store.access(ctx)()

	item, ok := repository.store.data.haikus[id]
	if !ok {
		return errHaikuNotFound
	}
	item.LikeCount = clampAdd(item.LikeCount, delta)
	if delta > 0 {
		item.LikedBy = append(item.LikedBy, actorID)
	} else {
		item.LikedBy = slices.DeleteFunc(item.LikedBy, func(liker string) bool { return liker == actorID })
	}
	repository.store.data.haikus[id] = item
	return nil
}

// MarkSaved implements [haiku.Repository].
func (repository *HaikuRepository) MarkSaved(ctx context.Context, id string) error {
	defer repository.store.access(ctx)()

	item, ok := repository.store.data.haikus[id]
	if !ok {
		return errHaikuNotFound
	}
	item.IsSaved = true
	repository.store.data.haikus[id] = item
	return nil
}

// CountByOwner implements [haiku.Repository].
func (repository *HaikuRepository) CountByOwner(ctx context.Context, ownerID string, filter haiku.CountFilter) (int64, error) {
	defer repository.store.access(ctx)()

	var count int64
	for _, item := range repository.store.data.haikus {
		if !item.OwnedBy(ownerID) {
			continue
		}
		switch {
		case filter == haiku.CountSaved && !item.IsSaved:
		case filter == haiku.CountPublic && !item.IsPublic:
		default:
			count++
		}
	}
	return count, nil
}

/*
DeleteExpired implements [haiku.Repository].

Description: Removes the oldest unsaved haiku first. For each one the owner's
totalHaikus and totalLikes are decremented, its like records are dropped and
every collection holding it loses the membership and one itemCount.
*/
func (repository *HaikuRepository) DeleteExpired(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	defer repository.store.access(ctx)()

	data := repository.store.data

	var doomed []haiku.Haiku
	for _, item := range data.haikus {
		if !item.IsSaved && item.CreatedAt.Before(cutoff) {
			doomed = append(doomed, item)
		}
	}
	sort.Slice(doomed, func(i, j int) bool { return doomed[i].CreatedAt.Before(doomed[j].CreatedAt) })
	if limit > 0 && len(doomed) > limit {
		doomed = doomed[:limit]
	}

	for _, item := range doomed {
		if item.OwnerID != nil {
			if owner, ok := data.accounts[*item.OwnerID]; ok {
				owner.Stats.TotalHaikus = clampAdd(owner.Stats.TotalHaikus, -1)
				owner.Stats.TotalLikes = clampAdd(owner.Stats.TotalLikes, -item.LikeCount)
				data.accounts[owner.ID] = owner
			}
		}

		for key := range data.likes {
			if key.right == item.ID {
				delete(data.likes, key)
			}
		}

		for collectionID, members := range data.items {
			kept := slices.DeleteFunc(members, func(m collection.Membership) bool { return m.HaikuID == item.ID })
			if removed := len(members) - len(kept); removed > 0 {
				c := data.collections[collectionID]
				c.ItemCount = clampAdd(c.ItemCount, -int64(removed))
				data.collections[collectionID] = c
			}
			data.items[collectionID] = kept
		}

		delete(data.haikus, item.ID)
	}

	return len(doomed), nil
}
