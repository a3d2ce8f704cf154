// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/ratelimit"
)

// Service orchestrates haiku generation.
type Service struct {
	limiter ratelimit.Limiter
	model   Model
	logger  *slog.Logger
}

// NewService constructs a generation [Service]. A nil model means no API key
// is configured; every request then fails with an upstream error.
func NewService(limiter ratelimit.Limiter, model Model, logger *slog.Logger) *Service {
	return &Service{limiter: limiter, model: model, logger: logger}
}

/*
Generate writes a haiku about theme.

Description: The actor is charged against the rate limit before anything
else, so rejected and failed generations still count.

Parameters:
  - context: context.Context
  - actorID: string (empty when unauthenticated)
  - theme: string

Returns:
  - *Result: The generated haiku
  - error: Unauthenticated, RateLimitExceeded or UpstreamFailure
*/
func (service *Service) Generate(context context.Context, actorID, theme string) (*Result, error) {
	if actorID == "" {
		return nil, apperr.Unauthenticated("")
	}

	if err := service.limiter.Allow(context, actorID); err != nil {
		return nil, err
	}

	sanitized := SanitizeTheme(theme)

	if service.model == nil {
		return nil, apperr.UpstreamFailure("Claude API key not configured", nil)
	}

	text, err := service.model.Complete(context, buildPrompt(sanitized))
	if err != nil {
		service.logger.ErrorContext(context, "haiku_generation_failed",
			slog.String("user_id", actorID),
			slog.Any("error", err),
		)
		return nil, apperr.UpstreamFailure("Failed to generate haiku", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		service.logger.WarnContext(context, "haiku_generation_empty", slog.String("user_id", actorID))
		return nil, apperr.UpstreamFailure("Failed to generate haiku", nil)
	}

	service.logger.InfoContext(context, "haiku_generated",
		slog.String("user_id", actorID),
		slog.String("theme", sanitized),
	)

	return &Result{Haiku: text, IsAI: true}, nil
}
