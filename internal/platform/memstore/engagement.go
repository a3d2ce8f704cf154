// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"context"
	"sort"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/social/engagement"
)

// # Likes

// LikeRepository implements [engagement.LikeRepository] in memory.
type LikeRepository struct {
	store *Store
}

var _ engagement.LikeRepository = (*LikeRepository)(nil)

// Exists implements [engagement.LikeRepository].
func (repository *LikeRepository) Exists(ctx context.Context, actorID, haikuID string) (bool, error) {
	defer repository.store.access(ctx)()

	_, ok := repository.store.data.likes[pairKey{left: actorID, right: haikuID}]
	return ok, nil
}

// Create implements [engagement.LikeRepository].
func (repository *LikeRepository) Create(ctx context.Context, like engagement.Like) error {
	defer repository.store.access(ctx)()

	if _, ok := repository.store.data.haikus[like.HaikuID]; !ok {
		return errHaikuNotFound
	}
	key := pairKey{left: like.ActorID, right: like.HaikuID}
	if _, ok := repository.store.data.likes[key]; ok {
		return apperr.Conflict("Haiku already liked")
	}
	repository.store.data.likes[key] = like
	return nil
}

// Delete implements [engagement.LikeRepository].
func (repository *LikeRepository) Delete(ctx context.Context, actorID, haikuID string) error {
	defer repository.store.access(ctx)()

	delete(repository.store.data.likes, pairKey{left: actorID, right: haikuID})
	return nil
}

// LikeCount returns the number of like records for a haiku.
func (store *Store) LikeCount(haikuID string) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	var count int64
	for key := range store.data.likes {
		if key.right == haikuID {
			count++
		}
	}
	return count
}

// # Follows

// FollowRepository implements [engagement.FollowRepository] in memory.
type FollowRepository struct {
	store *Store
}

var _ engagement.FollowRepository = (*FollowRepository)(nil)

// IsFollowing implements [engagement.FollowRepository].
func (repository *FollowRepository) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	defer repository.store.access(ctx)()

	_, ok := repository.store.data.following[pairKey{left: actorID, right: targetID}]
	return ok, nil
}

// Create implements [engagement.FollowRepository].
func (repository *FollowRepository) Create(ctx context.Context, edge engagement.Edge) error {
	defer repository.store.access(ctx)()

	data := repository.store.data
	if _, ok := data.accounts[edge.ActorID]; !ok {
		return errUserNotFound
	}
	if _, ok := data.accounts[edge.TargetID]; !ok {
		return errUserNotFound
	}
	data.following[pairKey{left: edge.ActorID, right: edge.TargetID}] = edge
	data.followers[pairKey{left: edge.TargetID, right: edge.ActorID}] = edge
	return nil
}

// Delete implements [engagement.FollowRepository].
func (repository *FollowRepository) Delete(ctx context.Context, actorID, targetID string) error {
	defer repository.store.access(ctx)()

	delete(repository.store.data.following, pairKey{left: actorID, right: targetID})
	delete(repository.store.data.followers, pairKey{left: targetID, right: actorID})
	return nil
}

// ListFollowers implements [engagement.FollowRepository].
func (repository *FollowRepository) ListFollowers(ctx context.Context, targetID string, limit, offset int) ([]engagement.Edge, int, error) {
	defer repository.store.access(ctx)()

	return listEdges(repository.store.data.followers, targetID, limit, offset)
}

// ListFollowing implements [engagement.FollowRepository].
func (repository *FollowRepository) ListFollowing(ctx context.Context, actorID string, limit, offset int) ([]engagement.Edge, int, error) {
	defer repository.store.access(ctx)()

	return listEdges(repository.store.data.following, actorID, limit, offset)
}

func listEdges(edges map[pairKey]engagement.Edge, owner string, limit, offset int) ([]engagement.Edge, int, error) {
	var matched []engagement.Edge
	for key, edge := range edges {
		if key.left == owner {
			matched = append(matched, edge)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FollowedAt.After(matched[j].FollowedAt) })
	return page(matched, limit, offset), len(matched), nil
}

// FollowMirrorsConsistent reports whether every actor-side follow record has
// its target-side twin and vice versa.
func (store *Store) FollowMirrorsConsistent() bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	if len(store.data.following) != len(store.data.followers) {
		return false
	}
	for key := range store.data.following {
		if _, ok := store.data.followers[pairKey{left: key.right, right: key.left}]; !ok {
			return false
		}
	}
	return true
}
