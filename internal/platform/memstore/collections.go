// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"context"
	"time"

	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/apperr"
)

var errCollectionNotFound = apperr.NotFound("Collection")

// CollectionRepository implements [collection.Repository] in memory.
type CollectionRepository struct {
	store *Store
}

var _ collection.Repository = (*CollectionRepository)(nil)

// Create implements [collection.Repository].
func (repository *CollectionRepository) Create(ctx context.Context, c *collection.Collection) error {
	defer repository.store.access(ctx)()

	if _, ok := repository.store.data.accounts[c.OwnerID]; !ok {
		return errUserNotFound
	}
	stored := *c
	stored.ItemCount = 0
	stored.NextOrder = 0
	stored.FollowerCount = 0
	repository.store.data.collections[c.ID] = stored
	return nil
}

// FindByID implements [collection.Repository].
func (repository *CollectionRepository) FindByID(ctx context.Context, id string) (*collection.Collection, error) {
	defer repository.store.access(ctx)()

	c, ok := repository.store.data.collections[id]
	if !ok {
		return nil, errCollectionNotFound
	}
	return &c, nil
}

// MembershipExists implements [collection.Repository].
func (repository *CollectionRepository) MembershipExists(ctx context.Context, collectionID, haikuID string) (bool, error) {
	defer repository.store.access(ctx)()

	for _, member := range repository.store.data.items[collectionID] {
		if member.HaikuID == haikuID {
			return true, nil
		}
	}
	return false, nil
}

// AddMembership implements [collection.Repository].
func (repository *CollectionRepository) AddMembership(ctx context.Context, membership collection.Membership) error {
	defer repository.store.access(ctx)()

	data := repository.store.data
	if _, ok := data.collections[membership.CollectionID]; !ok {
		return errCollectionNotFound
	}
	if _, ok := data.haikus[membership.HaikuID]; !ok {
		return errHaikuNotFound
	}
	for _, member := range data.items[membership.CollectionID] {
		if member.HaikuID == membership.HaikuID {
			return apperr.Conflict("Haiku already in collection")
		}
	}
	data.items[membership.CollectionID] = append(data.items[membership.CollectionID], membership)
	return nil
}

// IncrementItemCount implements [collection.Repository].
func (repository *CollectionRepository) IncrementItemCount(ctx context.Context, collectionID string, updatedAt time.Time) error {
	defer repository.store.access(ctx)()

	c, ok := repository.store.data.collections[collectionID]
	if !ok {
		return errCollectionNotFound
	}
	c.ItemCount++
	c.NextOrder++
	c.UpdatedAt = updatedAt
	repository.store.data.collections[collectionID] = c
	return nil
}

// ListItems implements [collection.Repository]. Memberships are kept in
// insertion order, which is position order.
func (repository *CollectionRepository) ListItems(ctx context.Context, collectionID string, limit, offset int) ([]collection.Membership, int, error) {
	defer repository.store.access(ctx)()

	members := repository.store.data.items[collectionID]
	return page(members, limit, offset), len(members), nil
}
