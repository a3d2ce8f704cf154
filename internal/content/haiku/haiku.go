// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package haiku manages the content items of Kigo: short poems written by actors
or generated by the model on their behalf.

# Architecture

  - Entities: Haiku, UserStats.
  - Contracts: Repository.
  - Service: creation (maintaining the owner's totalHaikus), retrieval, the
    save flag, per-owner stats and hashtag suggestions.
  - Sweeper: periodic removal of unsaved haiku past the retention period.
*/
package haiku

import (
	"context"
	"time"
)

// # Domain Limits

const (
	MaxContentLength = 500
	MaxThemeLength   = 50
)

// # Domain Entities

// Haiku is a content item. LikeCount always equals len(LikedBy) and the
// number of like records pointing at the haiku.
type Haiku struct {
	ID        string    `json:"id"`
	OwnerID   *string   `json:"owner_id"`
	Content   string    `json:"content"`
	Theme     string    `json:"theme"`
	IsAI      bool      `json:"is_ai"`
	IsPublic  bool      `json:"is_public"`
	IsSaved   bool      `json:"is_saved"`
	LikeCount int64     `json:"like_count"`
	LikedBy   []string  `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether actorID owns the haiku.
func (haiku *Haiku) OwnedBy(actorID string) bool {
	return haiku.OwnerID != nil && *haiku.OwnerID == actorID
}

// UserStats summarizes an actor's haiku.
type UserStats struct {
	Total  int64 `json:"total"`
	Saved  int64 `json:"saved"`
	Public int64 `json:"public"`
}

// CountFilter selects which of an owner's haiku to count.
type CountFilter int

const (
	CountAll CountFilter = iota
	CountSaved
	CountPublic
)

// # Repository Contracts

// Repository persists haiku.
type Repository interface {
	// FindByID fails with apperr.NotFound("Haiku") when missing.
	FindByID(context context.Context, id string) (*Haiku, error)

	Create(context context.Context, haiku *Haiku) error

	// AdjustLikes adds delta (+1 or -1) to the like count and adds or
	// removes actorID from LikedBy accordingly.
	AdjustLikes(context context.Context, id, actorID string, delta int64) error

	MarkSaved(context context.Context, id string) error

	CountByOwner(context context.Context, ownerID string, filter CountFilter) (int64, error)

	/*
		DeleteExpired removes up to limit unsaved haiku created before cutoff.

		Description: Must run inside a transaction. The owners' totalHaikus and
		totalLikes and the itemCount of every collection holding a removed
		haiku are decremented in the same transaction; like and membership
		records go with the haiku.

		Returns:
		  - int: number of haiku removed
	*/
	DeleteExpired(context context.Context, cutoff time.Time, limit int) (int, error)
}
