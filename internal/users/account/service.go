// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/users/username"
	"github.com/taibuivan/kigo/pkg/textutil"
)

// # Service Layer

// Service orchestrates profile registration and updates.
type Service struct {
	accounts   Repository
	registry   *username.Registry
	transactor txn.Transactor
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accounts Repository, registry *username.Registry, transactor txn.Transactor, logger *slog.Logger) *Service {
	return &Service{
		accounts:   accounts,
		registry:   registry,
		transactor: transactor,
		logger:     logger,
		now:        time.Now,
	}
}

// # Profile Management

/*
Register creates the caller's profile on first sign-in.

Description: Idempotent. When a profile already exists it is returned as is.

Parameters:
  - context: context.Context
  - actorID: string
  - displayName: string (from the identity token or the request)

Returns:
  - *Actor: The stored profile
  - bool: true when the profile was created by this call
  - error: Unauthenticated or storage failures
*/
func (service *Service) Register(context context.Context, actorID, displayName string) (*Actor, bool, error) {
	if actorID == "" {
		return nil, false, apperr.Unauthenticated("")
	}

	now := service.now()
	actor := &Actor{
		ID:          actorID,
		DisplayName: textutil.Clip(displayName, MaxDisplayNameLength),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := service.accounts.Create(context, actor)
	if err != nil {
		return nil, false, fmt.Errorf("account_service_register_failed: %w", err)
	}

	if created {
		service.logger.InfoContext(context, "user_registered", slog.String("user_id", actorID))
	}

	stored, err := service.accounts.FindByID(context, actorID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

/*
GetProfile retrieves a profile by actor id.

Returns:
  - *Actor: The hydrated profile
  - error: apperr.NotFound("User") or storage failures
*/
func (service *Service) GetProfile(context context.Context, actorID string) (*Actor, error) {
	actor, err := service.accounts.FindByID(context, actorID)
	if err != nil {
		return nil, err
	}
	return actor, nil
}

// SocialLinksInput is the raw social links payload.
type SocialLinksInput struct {
	Twitter   *string
	Instagram *string
}

// ProfileInput is the raw, unnormalized profile update.
type ProfileInput struct {
	DisplayName *string
	Bio         *string
	Website     *string
	SocialLinks *SocialLinksInput
	Username    *string
}

// UpdateResult is returned by [Service.UpdateProfile]. Username is set only
// when the call changed it.
type UpdateResult struct {
	Success  bool    `json:"success"`
	Username *string `json:"username,omitempty"`
}

// normalize applies the length limits. An empty display name is ignored;
// empty bio and website clear the field.
func (input ProfileInput) normalize() Patch {
	patch := Patch{
		Bio:     textutil.ClipPtr(input.Bio, MaxBioLength),
		Website: textutil.ClipPtr(input.Website, MaxWebsiteLength),
	}

	if input.DisplayName != nil && *input.DisplayName != "" {
		patch.DisplayName = textutil.ClipPtr(input.DisplayName, MaxDisplayNameLength)
	}

	if input.SocialLinks != nil {
		links := SocialLinks{}
		if input.SocialLinks.Twitter != nil {
			links.Twitter = textutil.Clip(*input.SocialLinks.Twitter, MaxSocialLinkLength)
		}
		if input.SocialLinks.Instagram != nil {
			links.Instagram = textutil.Clip(*input.SocialLinks.Instagram, MaxSocialLinkLength)
		}
		patch.SocialLinks = &links
	}

	return patch
}

/*
UpdateProfile applies a partial profile update and, optionally, a username change.

Description: The username is validated before anything is read. The profile
patch and the username claim run in one transaction, so a taken username
leaves the profile untouched.

Parameters:
  - ctx: context.Context
  - actorID: string
  - input: ProfileInput

Returns:
  - *UpdateResult: {success, username?}
  - error: Unauthenticated, ValidationError, Conflict, NotFound
*/
func (service *Service) UpdateProfile(ctx context.Context, actorID string, input ProfileInput) (*UpdateResult, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	desired := ""
	if input.Username != nil && *input.Username != "" {
		desired = *input.Username
		if err := username.Validate(desired); err != nil {
			return nil, err
		}
	}

	patch := input.normalize()
	result := &UpdateResult{Success: true}

	err := service.transactor.RunInTransaction(ctx, func(ctx context.Context) error {
		result.Username = nil

		if desired != "" {
			claim, err := service.registry.Claim(ctx, actorID, desired)
			if err != nil {
				return err
			}
			if claim.Changed {
				result.Username = &claim.Username
			}
		}

		return service.accounts.ApplyPatch(ctx, actorID, patch, service.now())
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_profile_updated",
		slog.String("user_id", actorID),
		slog.Bool("username_changed", result.Username != nil),
	)

	return result, nil
}
