// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages the actor profile: display data, social links and
the denormalized engagement counters.

Actors are created by the identity provider; the profile is registered on
first sign-in and from then on only patched. Counters are written exclusively
by the transactions that create or remove the underlying relationships
(likes, follows, haiku), through [Repository.IncrementStat].

# Architecture

  - Entities: Actor, Stats, SocialLinks.
  - Contracts: Repository.
  - Service: profile registration and patching, username changes through the
    username registry.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/kigo/internal/users/username"
)

// # Domain Limits

const (
	MaxDisplayNameLength = 50
	MaxBioLength         = 200
	MaxWebsiteLength     = 100
	MaxSocialLinkLength  = 50
)

// # Domain Entities

// Stats holds an actor's counters. Each one equals the number of
// relationship records it summarizes and is never negative.
type Stats struct {
	TotalHaikus    int64 `json:"total_haikus"`
	TotalLikes     int64 `json:"total_likes"`
	TotalFollowers int64 `json:"total_followers"`
	TotalFollowing int64 `json:"total_following"`
}

// SocialLinks are free-form handles shown on the profile.
type SocialLinks struct {
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
}

// Actor is the profile of an authenticated user.
type Actor struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Username    *string     `json:"username"`
	Bio         string      `json:"bio"`
	Website     string      `json:"website"`
	SocialLinks SocialLinks `json:"social_links"`
	Stats       Stats       `json:"stats"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// StatField names one of the [Stats] counters.
type StatField string

const (
	StatTotalHaikus    StatField = "total_haikus"
	StatTotalLikes     StatField = "total_likes"
	StatTotalFollowers StatField = "total_followers"
	StatTotalFollowing StatField = "total_following"
)

// Patch is an already normalized partial profile update. Nil fields are
// left untouched.
type Patch struct {
	DisplayName *string
	Bio         *string
	Website     *string
	SocialLinks *SocialLinks
}

// # Repository Contracts

// Repository persists actor profiles.
type Repository interface {
	/*
		FindByID retrieves an actor profile.

		Returns:
		  - *Actor: Hydrated profile
		  - error: apperr.NotFound("User") or storage failures
	*/
	FindByID(context context.Context, id string) (*Actor, error)

	/*
		Create inserts a profile unless one already exists for actor.ID.

		Returns:
		  - bool: true when a new row was written
		  - error: Storage failures
	*/
	Create(context context.Context, actor *Actor) (bool, error)

	// ApplyPatch writes the non-nil fields of patch and stamps updatedAt.
	// It fails with apperr.NotFound("User") if the actor has no profile.
	ApplyPatch(context context.Context, id string, patch Patch, updatedAt time.Time) error

	// IncrementStat adds delta to one counter, clamping at zero. It fails
	// with apperr.NotFound("User") if the actor has no profile.
	IncrementStat(context context.Context, id string, field StatField, delta int64) error

	username.ActorStore
}

// StatCounter is the write side of the counters, used by the domains that
// own the underlying relationships.
type StatCounter interface {
	IncrementStat(context context.Context, id string, field StatField, delta int64) error
}
