// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memstore is an in-process implementation of every Kigo repository.

It backs the server when STORE_DRIVER=memory and the service tests. A single
mutex serializes transactions; the state is snapshotted when a transaction
starts and restored if it fails, so a failed unit of work leaves no trace.

Usage:

	store := memstore.New()
	accounts := store.Accounts()
	transactor := store // implements txn.Transactor
*/
package memstore

import (
	"context"
	"sync"

	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/ctxkey"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/social/engagement"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
	"github.com/taibuivan/kigo/pkg/pointer"
)

type pairKey struct {
	left  string
	right string
}

// state is everything the store holds. clone produces a deep copy.
type state struct {
	accounts    map[string]account.Actor
	usernames   map[string]username.Reservation
	haikus      map[string]haiku.Haiku
	likes       map[pairKey]engagement.Like
	following   map[pairKey]engagement.Edge // actor -> target
	followers   map[pairKey]engagement.Edge // target -> actor
	collections map[string]collection.Collection
	items       map[string][]collection.Membership
}

func newState() *state {
	return &state{
		accounts:    map[string]account.Actor{},
		usernames:   map[string]username.Reservation{},
		haikus:      map[string]haiku.Haiku{},
		likes:       map[pairKey]engagement.Like{},
		following:   map[pairKey]engagement.Edge{},
		followers:   map[pairKey]engagement.Edge{},
		collections: map[string]collection.Collection{},
		items:       map[string][]collection.Membership{},
	}
}

func (s *state) clone() *state {
	next := newState()
	for id, actor := range s.accounts {
		next.accounts[id] = copyActor(actor)
	}
	for name, reservation := range s.usernames {
		next.usernames[name] = reservation
	}
	for id, item := range s.haikus {
		next.haikus[id] = copyHaiku(item)
	}
	for key, like := range s.likes {
		next.likes[key] = like
	}
	for key, edge := range s.following {
		next.following[key] = edge
	}
	for key, edge := range s.followers {
		next.followers[key] = edge
	}
	for id, c := range s.collections {
		next.collections[id] = c
	}
	for id, members := range s.items {
		next.items[id] = append([]collection.Membership(nil), members...)
	}
	return next
}

// Store holds the data of all repositories behind one lock.
type Store struct {
	mu   sync.Mutex
	data *state
}

var _ txn.Transactor = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{data: newState()}
}

func (store *Store) inTransaction(ctx context.Context) bool {
	owner, ok := ctx.Value(ctxkey.KeyTx).(*Store)
	return ok && owner == store
}

/*
RunInTransaction runs fn while holding the store lock.

Description: A nested call joins the outer transaction. When fn returns an
error every write it made is rolled back.

Parameters:
  - ctx: context.Context
  - fn: txn.Func

Returns:
  - error: fn's error unchanged
*/
func (store *Store) RunInTransaction(ctx context.Context, fn txn.Func) error {
	if store.inTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	snapshot := store.data.clone()
	if err := fn(context.WithValue(ctx, ctxkey.KeyTx, store)); err != nil {
		store.data = snapshot
		return err
	}
	return nil
}

// access locks the store for a single call made outside a transaction. Inside
// a transaction the lock is already held.
func (store *Store) access(ctx context.Context) func() {
	if store.inTransaction(ctx) {
		return func() {}
	}
	store.mu.Lock()
	return store.mu.Unlock
}

// # Repositories

// Accounts returns the actor profile repository.
func (store *Store) Accounts() *AccountRepository { return &AccountRepository{store: store} }

// Usernames returns the username reservation repository.
func (store *Store) Usernames() *UsernameRepository { return &UsernameRepository{store: store} }

// Haikus returns the haiku repository.
func (store *Store) Haikus() *HaikuRepository { return &HaikuRepository{store: store} }

// Likes returns the like record repository.
func (store *Store) Likes() *LikeRepository { return &LikeRepository{store: store} }

// Follows returns the follow edge repository.
func (store *Store) Follows() *FollowRepository { return &FollowRepository{store: store} }

// Collections returns the collection repository.
func (store *Store) Collections() *CollectionRepository { return &CollectionRepository{store: store} }

// # Helpers

func copyActor(actor account.Actor) account.Actor {
	if actor.Username != nil {
		actor.Username = pointer.To(*actor.Username)
	}
	return actor
}

func copyHaiku(item haiku.Haiku) haiku.Haiku {
	if item.OwnerID != nil {
		item.OwnerID = pointer.To(*item.OwnerID)
	}
	item.LikedBy = append([]string{}, item.LikedBy...)
	return item
}

func clampAdd(value, delta int64) int64 {
	if value+delta < 0 {
		return 0
	}
	return value + delta
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T{}, all[offset:end]...)
}
