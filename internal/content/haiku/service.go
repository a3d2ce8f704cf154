// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/platform/validate"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/pkg/pointer"
	"github.com/taibuivan/kigo/pkg/textutil"
	"github.com/taibuivan/kigo/pkg/uuid"
)

// # Service Layer

// Service orchestrates haiku creation and retrieval.
type Service struct {
	haikus     Repository
	stats      account.StatCounter
	transactor txn.Transactor
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(haikus Repository, stats account.StatCounter, transactor txn.Transactor, logger *slog.Logger) *Service {
	return &Service{
		haikus:     haikus,
		stats:      stats,
		transactor: transactor,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput is the payload for [Service.Create].
type CreateInput struct {
	Content  string
	Theme    string
	IsAI     bool
	IsPublic bool
	IsSaved  bool
}

/*
Create stores a haiku for the actor and increments their totalHaikus.

Parameters:
  - ctx: context.Context
  - actorID: string
  - input: CreateInput

Returns:
  - *Haiku: The stored haiku
  - error: Unauthenticated, ValidationError, NotFound("User")
*/
func (service *Service) Create(ctx context.Context, actorID string, input CreateInput) (*Haiku, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	v := &validate.Validator{}
	v.Required("content", input.Content).MaxLen("content", input.Content, MaxContentLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	haiku := &Haiku{
		ID:        uuid.New(),
		OwnerID:   pointer.To(actorID),
		Content:   textutil.Clip(input.Content, MaxContentLength),
		Theme:     textutil.Clip(input.Theme, MaxThemeLength),
		IsAI:      input.IsAI,
		IsPublic:  input.IsPublic,
		IsSaved:   input.IsSaved,
		LikedBy:   []string{},
		CreatedAt: service.now(),
	}

	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := service.haikus.Create(ctx, haiku); err != nil {
			return err
		}
		return service.stats.IncrementStat(ctx, actorID, account.StatTotalHaikus, 1)
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("haiku_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "haiku_created",
		slog.String("haiku_id", haiku.ID),
		slog.String("user_id", actorID),
		slog.Bool("is_ai", haiku.IsAI),
	)

	return haiku, nil
}

/*
Get returns a haiku visible to the actor: public ones, or the actor's own.
Private haiku of other owners are reported as not found.
*/
func (service *Service) Get(context context.Context, actorID, id string) (*Haiku, error) {
	haiku, err := service.haikus.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !haiku.IsPublic && !haiku.OwnedBy(actorID) {
		return nil, apperr.NotFound("Haiku")
	}
	return haiku, nil
}

/*
MarkSaved exempts one of the actor's haiku from the retention sweep.

Returns:
  - *Haiku: The saved haiku
  - error: Unauthenticated, NotFound("Haiku"), Forbidden
*/
func (service *Service) MarkSaved(ctx context.Context, actorID, id string) (*Haiku, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	var saved *Haiku
	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		haiku, err := service.haikus.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !haiku.OwnedBy(actorID) {
			return apperr.Forbidden("You can only save your own haiku")
		}

		if !haiku.IsSaved {
			if err := service.haikus.MarkSaved(ctx, id); err != nil {
				return err
			}
			haiku.IsSaved = true
		}

		saved = haiku
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// Stats counts the actor's haiku: all, saved, and public.
func (service *Service) Stats(context context.Context, actorID string) (*UserStats, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	stats := &UserStats{}
	group, groupCtx := errgroup.WithContext(context)

	count := func(filter CountFilter, target *int64) {
		group.Go(func() error {
			n, err := service.haikus.CountByOwner(groupCtx, actorID, filter)
			if err != nil {
				return err
			}
			*target = n
			return nil
		})
	}

	count(CountAll, &stats.Total)
	count(CountSaved, &stats.Saved)
	count(CountPublic, &stats.Public)

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("haiku_service_stats_failed: %w", err)
	}

	return stats, nil
}

// Hashtags suggests up to five hashtags for a haiku draft.
func (service *Service) Hashtags(actorID, theme, content string) ([]string, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if content == "" {
		return nil, validate.RequiredError("content", "Content is required")
	}
	return SuggestHashtags(theme, content), nil
}
