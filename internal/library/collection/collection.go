// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection manages actor-owned, ordered groupings of haiku.

A membership record links a haiku to a collection and carries its position.
The collection's ItemCount always equals its number of membership records.
Positions come from NextOrder, which only ever grows, so a position freed by
the retention sweep is never handed out again.

# Architecture

  - Entities: Collection, Membership.
  - Contracts: Repository, HaikuFinder.
  - Service: Create, AddItem, Get, ListItems.
*/
package collection

import (
	"context"
	"time"

	"github.com/taibuivan/kigo/internal/content/haiku"
)

// # Domain Limits

const (
	MinNameLength        = 3
	MaxNameLength        = 50
	MaxDescriptionLength = 200
)

// # Domain Entities

// Collection is an ordered list of haiku owned by one actor.
type Collection struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsPublic      bool      `json:"is_public"`
	ItemCount     int64     `json:"item_count"`
	NextOrder     int64     `json:"-"`
	FollowerCount int64     `json:"follower_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Membership places a haiku in a collection. At most one per pair.
type Membership struct {
	CollectionID string    `json:"collection_id"`
	HaikuID      string    `json:"haiku_id"`
	Order        int64     `json:"order"`
	AddedAt      time.Time `json:"added_at"`
}

// AddResult is returned by [Service.AddItem].
type AddResult struct {
	Success bool `json:"success"`
}

// # Repository Contracts

// Repository persists collections and their memberships.
type Repository interface {
	Create(context context.Context, collection *Collection) error

	// FindByID fails with apperr.NotFound("Collection") when missing.
	FindByID(context context.Context, id string) (*Collection, error)

	MembershipExists(context context.Context, collectionID, haikuID string) (bool, error)

	AddMembership(context context.Context, membership Membership) error

	// IncrementItemCount adds one to ItemCount and NextOrder and stamps UpdatedAt.
	IncrementItemCount(context context.Context, collectionID string, updatedAt time.Time) error

	// ListItems returns memberships in position order with the total count.
	ListItems(context context.Context, collectionID string, limit, offset int) ([]Membership, int, error)
}

// HaikuFinder resolves the haiku being added.
type HaikuFinder interface {
	FindByID(context context.Context, id string) (*haiku.Haiku, error)
}
