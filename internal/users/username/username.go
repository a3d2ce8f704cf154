// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package username guarantees that every username belongs to at most one actor.

A reservation record keyed by the username is the source of truth. Claiming a
name creates its reservation and releases the actor's previous one in the same
transaction as the profile write, so the registry and the actor profile never
disagree.

# Architecture

  - Entities: Reservation.
  - Contracts: Repository (reservations), ActorStore (the profile side).
  - Service: Registry.
*/
package username

import (
	"context"
	"regexp"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/validate"
)

// # Domain Rules

// pattern accepts 3-20 ASCII letters, digits or underscores.
var pattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

const invalidMessage = "Username must be 3-20 characters, alphanumeric and underscore only"

// ErrTaken is returned when the desired username is reserved by someone.
var ErrTaken = apperr.Conflict("Username already taken")

// Validate checks the username format. Names are case-sensitive.
func Validate(name string) error {
	return (&validate.Validator{}).Match("username", name, pattern, invalidMessage).Err()
}

// # Domain Entities

// Reservation records that a username is owned by an actor.
// Reservations are created and deleted, never modified.
type Reservation struct {
	Username  string    `json:"username"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ClaimResult reports the outcome of [Registry.Claim].
type ClaimResult struct {
	Username string `json:"username"`
	// Changed is false when the actor already held the username.
	Changed bool `json:"-"`
}

// # Repository Contracts

// Repository persists reservations.
type Repository interface {
	// Find returns the reservation for name, or nil when it is free.
	Find(context context.Context, name string) (*Reservation, error)

	// Create inserts a reservation. It fails with apperr.Conflict if the
	// name is already reserved.
	Create(context context.Context, reservation *Reservation) error

	// Delete removes the reservation for name. Deleting a missing
	// reservation is not an error.
	Delete(context context.Context, name string) error
}

// ActorStore is the slice of the actor profile store the registry writes to.
type ActorStore interface {
	// CurrentUsername returns the actor's username, nil if unset, or
	// apperr.NotFound("User") if the actor has no profile.
	CurrentUsername(context context.Context, actorID string) (*string, error)

	// AssignUsername sets the actor's username and updatedAt.
	AssignUsername(context context.Context, actorID, name string, updatedAt time.Time) error
}
