// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package username

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/txn"
)

// Registry assigns usernames to actors.
type Registry struct {
	reservations Repository
	actors       ActorStore
	transactor   txn.Transactor
	logger       *slog.Logger
	now          func() time.Time
}

// NewRegistry constructs a [Registry].
func NewRegistry(reservations Repository, actors ActorStore, transactor txn.Transactor, logger *slog.Logger) *Registry {
	return &Registry{
		reservations: reservations,
		actors:       actors,
		transactor:   transactor,
		logger:       logger,
		now:          time.Now,
	}
}

/*
Claim makes desired the actor's username.

Description: Inside one transaction the registry reads the actor's current
name, checks the reservation for desired, releases the old reservation,
creates the new one and writes the name to the profile. Claiming the name the
actor already holds is a no-op. When called inside an outer transaction the
claim joins it.

Parameters:
  - ctx: context.Context
  - actorID: string
  - desired: string

Returns:
  - *ClaimResult: The claimed name
  - error: Unauthenticated, ValidationError, NotFound, Conflict (ErrTaken)
*/
func (registry *Registry) Claim(ctx context.Context, actorID, desired string) (*ClaimResult, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	if err := Validate(desired); err != nil {
		return nil, err
	}

	var result *ClaimResult
	err := registry.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := registry.actors.CurrentUsername(ctx, actorID)
		if err != nil {
			return err
		}

		if current != nil && *current == desired {
			result = &ClaimResult{Username: desired}
			return nil
		}

		existing, err := registry.reservations.Find(ctx, desired)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrTaken
		}

		if current != nil {
			if err := registry.reservations.Delete(ctx, *current); err != nil {
				return err
			}
		}

		now := registry.now()
		err = registry.reservations.Create(ctx, &Reservation{Username: desired, OwnerID: actorID, CreatedAt: now})
		if apperr.HasCode(err, apperr.CodeConflict) {
			return ErrTaken
		}
		if err != nil {
			return err
		}

		if err := registry.actors.AssignUsername(ctx, actorID, desired, now); err != nil {
			return err
		}

		result = &ClaimResult{Username: desired, Changed: true}
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("username_registry_claim_failed: %w", err)
	}

	if result.Changed {
		registry.logger.InfoContext(ctx, "username_claimed",
			slog.String("user_id", actorID),
			slog.String("username", desired),
		)
	}

	return result, nil
}

// Lookup returns the reservation for name, or apperr.NotFound when free.
func (registry *Registry) Lookup(context context.Context, name string) (*Reservation, error) {
	reservation, err := registry.reservations.Find(context, name)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperr.NotFound("Username")
	}
	return reservation, nil
}
