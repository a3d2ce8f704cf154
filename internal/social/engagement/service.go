// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/platform/validate"
	"github.com/taibuivan/kigo/internal/users/account"
)

// # Service Layer

// Service implements the like and follow toggles.
type Service struct {
	likes      LikeRepository
	follows    FollowRepository
	haikus     HaikuLedger
	stats      account.StatCounter
	transactor txn.Transactor
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new engagement [Service].
func NewService(
	likes LikeRepository,
	follows FollowRepository,
	haikus HaikuLedger,
	stats account.StatCounter,
	transactor txn.Transactor,
	logger *slog.Logger,
) *Service {
	return &Service{
		likes:      likes,
		follows:    follows,
		haikus:     haikus,
		stats:      stats,
		transactor: transactor,
		logger:     logger,
		now:        time.Now,
	}
}

// # Likes

/*
ToggleLike flips the actor's like on a haiku.

Description: In one transaction: read the like record and the haiku, then
either remove the like (count -1, actor leaves likedBy, owner totalLikes -1)
or add it (+1 each). Haiku without an owner skip the owner counter. The
returned count is the pre-transaction count plus the delta.

Parameters:
  - ctx: context.Context
  - actorID: string
  - haikuID: string

Returns:
  - *LikeResult: {liked, likes}
  - error: Unauthenticated, ValidationError, NotFound("Haiku"), NotFound("User")
*/
func (service *Service) ToggleLike(ctx context.Context, actorID, haikuID string) (*LikeResult, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if haikuID == "" {
		return nil, validate.RequiredError("haiku_id", "Haiku ID is required")
	}

	var result *LikeResult
	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		liked, err := service.likes.Exists(ctx, actorID, haikuID)
		if err != nil {
			return err
		}

		target, err := service.haikus.FindByID(ctx, haikuID)
		if err != nil {
			return err
		}

		delta := int64(1)
		if liked {
			delta = -1
			err = service.likes.Delete(ctx, actorID, haikuID)
		} else {
			err = service.likes.Create(ctx, Like{ActorID: actorID, HaikuID: haikuID, LikedAt: service.now()})
		}
		if err != nil {
			return err
		}

		if err := service.haikus.AdjustLikes(ctx, haikuID, actorID, delta); err != nil {
			return err
		}

		if target.OwnerID != nil {
			if err := service.stats.IncrementStat(ctx, *target.OwnerID, account.StatTotalLikes, delta); err != nil {
				return err
			}
		}

		likes := target.LikeCount + delta
		if likes < 0 {
			likes = 0
		}
		result = &LikeResult{Liked: !liked, Likes: likes}
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("engagement_service_toggle_like_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "haiku_like_toggled",
		slog.String("user_id", actorID),
		slog.String("haiku_id", haikuID),
		slog.Bool("liked", result.Liked),
	)

	return result, nil
}

// # Follows

/*
ToggleFollow flips whether the actor follows the target.

Description: Self-follows are rejected before any store access. In one
transaction both edge records are written or removed together, the actor's
totalFollowing and the target's totalFollowers move by the same delta. A
missing profile on either side aborts the transaction.

Parameters:
  - ctx: context.Context
  - actorID: string
  - targetID: string

Returns:
  - *FollowResult: {following}
  - error: Unauthenticated, ValidationError, InvalidOperation, NotFound("User")
*/
func (service *Service) ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if targetID == "" {
		return nil, validate.RequiredError("target_user_id", "Target user ID is required")
	}
	if actorID == targetID {
		return nil, apperr.InvalidOperation("Cannot follow yourself")
	}

	var result *FollowResult
	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		following, err := service.follows.IsFollowing(ctx, actorID, targetID)
		if err != nil {
			return err
		}

		delta := int64(1)
		if following {
			delta = -1
			err = service.follows.Delete(ctx, actorID, targetID)
		} else {
			err = service.follows.Create(ctx, Edge{ActorID: actorID, TargetID: targetID, FollowedAt: service.now()})
		}
		if err != nil {
			return err
		}

		if err := service.stats.IncrementStat(ctx, actorID, account.StatTotalFollowing, delta); err != nil {
			return err
		}
		if err := service.stats.IncrementStat(ctx, targetID, account.StatTotalFollowers, delta); err != nil {
			return err
		}

		result = &FollowResult{Following: !following}
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("engagement_service_toggle_follow_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_follow_toggled",
		slog.String("user_id", actorID),
		slog.String("target_id", targetID),
		slog.Bool("following", result.Following),
	)

	return result, nil
}

// Followers lists the actors following userID.
func (service *Service) Followers(context context.Context, userID string, limit, offset int) ([]Edge, int, error) {
	return service.follows.ListFollowers(context, userID, limit, offset)
}

// Following lists the users userID follows.
func (service *Service) Following(context context.Context, userID string, limit, offset int) ([]Edge, int, error) {
	return service.follows.ListFollowing(context, userID, limit, offset)
}
