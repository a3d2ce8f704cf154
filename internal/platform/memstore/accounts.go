// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
	"github.com/taibuivan/kigo/pkg/pointer"
)

var errUserNotFound = apperr.NotFound("User")

// AccountRepository implements [account.Repository] in memory.
type AccountRepository struct {
	store *Store
}

var _ account.Repository = (*AccountRepository)(nil)

// FindByID implements [account.Repository].
func (repository *AccountRepository) FindByID(ctx context.Context, id string) (*account.Actor, error) {
	defer repository.store.access(ctx)()

	actor, ok := repository.store.data.accounts[id]
	if !ok {
		return nil, errUserNotFound
	}
	found := copyActor(actor)
	return &found, nil
}

// Create implements [account.Repository].
func (repository *AccountRepository) Create(ctx context.Context, actor *account.Actor) (bool, error) {
	defer repository.store.access(ctx)()

	if _, exists := repository.store.data.accounts[actor.ID]; exists {
		return false, nil
	}
	repository.store.data.accounts[actor.ID] = copyActor(*actor)
	return true, nil
}

// ApplyPatch implements [account.Repository].
func (repository *AccountRepository) ApplyPatch(ctx context.Context, id string, patch account.Patch, updatedAt time.Time) error {
	defer repository.store.access(ctx)()

	actor, ok := repository.store.data.accounts[id]
	if !ok {
		return errUserNotFound
	}
	if patch.DisplayName != nil {
		actor.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		actor.Bio = *patch.Bio
	}
	if patch.Website != nil {
		actor.Website = *patch.Website
	}
	if patch.SocialLinks != nil {
		actor.SocialLinks = *patch.SocialLinks
	}
	actor.UpdatedAt = updatedAt
	repository.store.data.accounts[id] = actor
	return nil
}

// IncrementStat implements [account.Repository].
func (repository *AccountRepository) IncrementStat(ctx context.Context, id string, field account.StatField, delta int64) error {
	defer repository.store.access(ctx)()

	actor, ok := repository.store.data.accounts[id]
	if !ok {
		return errUserNotFound
	}
	switch field {
	case account.StatTotalHaikus:
		actor.Stats.TotalHaikus = clampAdd(actor.Stats.TotalHaikus, delta)
	case account.StatTotalLikes:
		actor.Stats.TotalLikes = clampAdd(actor.Stats.TotalLikes, delta)
	case account.StatTotalFollowers:
		actor.Stats.TotalFollowers = clampAdd(actor.Stats.TotalFollowers, delta)
	case account.StatTotalFollowing:
		actor.Stats.TotalFollowing = clampAdd(actor.Stats.TotalFollowing, delta)
	default:
		return apperr.Internal(fmt.Errorf("unknown stat field %q", field))
	}
	repository.store.data.accounts[id] = actor
	return nil
}

// CurrentUsername implements [username.ActorStore].
func (repository *AccountRepository) CurrentUsername(ctx context.Context, actorID string) (*string, error) {
	defer repository.store.access(ctx)()

	actor, ok := repository.store.data.accounts[actorID]
	if !ok {
		return nil, errUserNotFound
	}
	if actor.Username == nil {
		return nil, nil
	}
	name := *actor.Username
	return &name, nil
}

// AssignUsername implements [username.ActorStore].
func (repository *AccountRepository) AssignUsername(ctx context.Context, actorID, name string, updatedAt time.Time) error {
	defer repository.store.access(ctx)()

	actor, ok := repository.store.data.accounts[actorID]
	if !ok {
		return errUserNotFound
	}
	actor.Username = pointer.To(name)
	actor.UpdatedAt = updatedAt
	repository.store.data.accounts[actorID] = actor
	return nil
}

// UsernameRepository implements [username.Repository] in memory.
type UsernameRepository struct {
	store *Store
}

var _ username.Repository = (*UsernameRepository)(nil)

// Find implements [username.Repository].
func (repository *UsernameRepository) Find(ctx context.Context, name string) (*username.Reservation, error) {
	defer repository.store.access(ctx)()

	reservation, ok := repository.store.data.usernames[name]
	if !ok {
		return nil, nil
	}
	return &reservation, nil
}

// Create implements [username.Repository].
func (repository *UsernameRepository) Create(ctx context.Context, reservation *username.Reservation) error {
	defer repository.store.access(ctx)()

	if _, taken := repository.store.data.usernames[reservation.Username]; taken {
		return username.ErrTaken
	}
	if _, ok := repository.store.data.accounts[reservation.OwnerID]; !ok {
		return errUserNotFound
	}
	repository.store.data.usernames[reservation.Username] = *reservation
	return nil
}

// Delete implements [username.Repository].
func (repository *UsernameRepository) Delete(ctx context.Context, name string) error {
	defer repository.store.access(ctx)()

	delete(repository.store.data.usernames, name)
	return nil
}

// ReservationOwners returns a copy of every reservation keyed by username.
func (store *Store) ReservationOwners() map[string]string {
	store.mu.Lock()
	defer store.mu.Unlock()

	owners := make(map[string]string, len(store.data.usernames))
	for name, reservation := range store.data.usernames {
		owners[name] = reservation.OwnerID
	}
	return owners
}
