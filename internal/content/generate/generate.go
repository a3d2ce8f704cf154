// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package generate writes haiku with a language model on behalf of an actor.

Requests are throttled per actor by a [ratelimit.Limiter] before the model is
called. Generated text is returned to the caller and never persisted here; the
client decides whether to create a haiku from it.

# Architecture

  - Contracts: Model.
  - Service: Generate.
  - Adapters: AnthropicModel (Claude Messages API).
*/
package generate

import (
	"context"
	"regexp"
	"strings"

	"github.com/taibuivan/kigo/pkg/textutil"
)

// # Constants

const (
	DefaultTheme   = "nature"
	MaxThemeLength = 50
	MaxTokens      = 100
)

// # Domain Entities

// Result is the payload returned to the client.
type Result struct {
	Haiku string `json:"haiku"`
	IsAI  bool   `json:"is_ai"`
}

// # Contracts

// Model completes a single prompt.
type Model interface {
	Complete(context context.Context, prompt string) (string, error)
}

var themeDisallowed = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// SanitizeTheme defaults an empty theme, trims it, cuts it to
// [MaxThemeLength] characters and removes everything outside letters, digits,
// whitespace and hyphens.
func SanitizeTheme(theme string) string {
	if theme == "" {
		theme = DefaultTheme
	}
	clipped := textutil.Clip(theme, MaxThemeLength)
	return themeDisallowed.ReplaceAllString(clipped, "")
}

func buildPrompt(theme string) string {
	var builder strings.Builder
	builder.WriteString("Generate a haiku (5-7-5 syllable pattern) about: ")
	builder.WriteString(theme)
	builder.WriteString(".\nReturn only the haiku with line breaks, no explanation or additional text.")
	return builder.String()
}
