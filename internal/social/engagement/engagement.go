// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engagement owns the two toggleable relationships of Kigo: an actor
liking a haiku and an actor following another actor.

Every toggle reads the current state and writes the relationship records and
all affected counters in one serializable transaction, so the counters always
equal the number of records they summarize.

# Architecture

  - Entities: Like, Edge.
  - Contracts: LikeRepository, FollowRepository, HaikuLedger.
  - Service: ToggleLike, ToggleFollow, follower/following listings.
*/
package engagement

import (
	"context"
	"time"

	"github.com/taibuivan/kigo/internal/content/haiku"
)

// # Domain Entities

// Like records that an actor likes a haiku. At most one per pair.
type Like struct {
	ActorID string    `json:"actor_id"`
	HaikuID string    `json:"haiku_id"`
	LikedAt time.Time `json:"liked_at"`
}

// Edge is one follow relationship: ActorID follows TargetID. It is stored
// twice, once per direction, and both copies always exist together.
type Edge struct {
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id"`
	FollowedAt time.Time `json:"followed_at"`
}

// LikeResult is returned by [Service.ToggleLike].
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// FollowResult is returned by [Service.ToggleFollow].
type FollowResult struct {
	Following bool `json:"following"`
}

// # Repository Contracts

// LikeRepository persists like records.
type LikeRepository interface {
	Exists(context context.Context, actorID, haikuID string) (bool, error)
	Create(context context.Context, like Like) error
	Delete(context context.Context, actorID, haikuID string) error
}

// FollowRepository persists both directions of follow edges.
type FollowRepository interface {
	// IsFollowing reads the actor-side record.
	IsFollowing(context context.Context, actorID, targetID string) (bool, error)

	// Create writes the actor-side and target-side records.
	Create(context context.Context, edge Edge) error

	// Delete removes both records.
	Delete(context context.Context, actorID, targetID string) error

	// ListFollowers returns the actors following targetID, newest first.
	ListFollowers(context context.Context, targetID string, limit, offset int) ([]Edge, int, error)

	// ListFollowing returns the users actorID follows, newest first.
	ListFollowing(context context.Context, actorID string, limit, offset int) ([]Edge, int, error)
}

// HaikuLedger is the part of the haiku store a like toggle touches.
type HaikuLedger interface {
	FindByID(context context.Context, id string) (*haiku.Haiku, error)
	AdjustLikes(context context.Context, id, actorID string, delta int64) error
}
