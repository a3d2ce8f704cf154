// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/platform/validate"
	"github.com/taibuivan/kigo/pkg/pointer"
	"github.com/taibuivan/kigo/pkg/textutil"
	"github.com/taibuivan/kigo/pkg/uuid"
)

// # Service Layer

// Service implements collection creation and membership management.
type Service struct {
	collections Repository
	haikus      HaikuFinder
	transactor  txn.Transactor
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs a new collection [Service].
func NewService(collections Repository, haikus HaikuFinder, transactor txn.Transactor, logger *slog.Logger) *Service {
	return &Service{
		collections: collections,
		haikus:      haikus,
		transactor:  transactor,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInput is the payload for [Service.Create].
type CreateInput struct {
	Name        string
	Description *string
	IsPublic    *bool
}

/*
Create stores a new, empty collection owned by the actor.

Description: The name is trimmed and must keep at least 3 characters; it is
cut to 50. The description defaults to "" and is cut to 200. Visibility
defaults to private.

Parameters:
  - context: context.Context
  - actorID: string
  - input: CreateInput

Returns:
  - *Collection: The stored collection
  - error: Unauthenticated, ValidationError, NotFound (no profile)
*/
func (service *Service) Create(context context.Context, actorID string, input CreateInput) (*Collection, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	name := strings.TrimSpace(input.Name)
	if err := (&validate.Validator{}).
		Custom("name", utf8.RuneCountInString(name) < MinNameLength, "Collection name must be at least 3 characters").
		Err(); err != nil {
		return nil, err
	}

	now := service.now()
	collection := &Collection{
		ID:          uuid.New(),
		OwnerID:     actorID,
		Name:        textutil.Clip(name, MaxNameLength),
		Description: textutil.Clip(pointer.Or(input.Description, ""), MaxDescriptionLength),
		IsPublic:    pointer.Or(input.IsPublic, false),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.collections.Create(context, collection); err != nil {
		return nil, fmt.Errorf("collection_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "collection_created",
		slog.String("collection_id", collection.ID),
		slog.String("user_id", actorID),
	)

	return collection, nil
}

/*
AddItem appends a haiku to one of the actor's collections.

Description: In one transaction: the collection must exist and belong to the
actor, the haiku must exist. The membership takes position NextOrder, then
ItemCount and NextOrder are incremented. Adding a haiku that is already a
member succeeds without writing anything.

Parameters:
  - ctx: context.Context
  - actorID: string
  - collectionID: string
  - haikuID: string

Returns:
  - *AddResult: {success}
  - error: Unauthenticated, ValidationError, NotFound, Forbidden
*/
func (service *Service) AddItem(ctx context.Context, actorID, collectionID, haikuID string) (*AddResult, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if collectionID == "" || haikuID == "" {
		return nil, apperr.ValidationError("Collection ID and Haiku ID are required")
	}

	added := false
	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		added = false

		collection, err := service.collections.FindByID(ctx, collectionID)
		if err != nil {
			return err
		}

		if collection.OwnerID != actorID {
			return apperr.Forbidden("You can only add to your own collections")
		}

		if _, err := service.haikus.FindByID(ctx, haikuID); err != nil {
			return err
		}

		exists, err := service.collections.MembershipExists(ctx, collectionID, haikuID)
		if err != nil || exists {
			return err
		}

		now := service.now()
		membership := Membership{
			CollectionID: collectionID,
			HaikuID:      haikuID,
			Order:        collection.NextOrder,
			AddedAt:      now,
		}
		if err := service.collections.AddMembership(ctx, membership); err != nil {
			return err
		}
		if err := service.collections.IncrementItemCount(ctx, collectionID, now); err != nil {
			return err
		}

		added = true
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("collection_service_add_item_failed: %w", err)
	}

	if added {
		service.logger.InfoContext(ctx, "collection_item_added",
			slog.String("collection_id", collectionID),
			slog.String("haiku_id", haikuID),
		)
	}

	return &AddResult{Success: true}, nil
}

// Get returns a collection visible to the actor: public, or their own.
func (service *Service) Get(context context.Context, actorID, collectionID string) (*Collection, error) {
	collection, err := service.collections.FindByID(context, collectionID)
	if err != nil {
		return nil, err
	}

	if !collection.IsPublic && collection.OwnerID != actorID {
		return nil, apperr.NotFound("Collection")
	}
	return collection, nil
}

// ListItems pages through a visible collection's memberships in order.
func (service *Service) ListItems(context context.Context, actorID, collectionID string, limit, offset int) ([]Membership, int, error) {
	if _, err := service.Get(context, actorID, collectionID); err != nil {
		return nil, 0, err
	}
	return service.collections.ListItems(context, collectionID, limit, offset)
}
