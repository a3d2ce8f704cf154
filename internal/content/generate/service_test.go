// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/content/generate"
	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/ratelimit"
)

type fakeModel struct {
	text    string
	err     error
	prompts []string
}

func (model *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	model.prompts = append(model.prompts, prompt)
	return model.text, model.err
}

type requestKey struct{}

// recordingHandler keeps each record's message with the request id found in
// the context it was logged under.
type recordingHandler struct {
	slog.Handler
	entries map[string]any
}

func (handler *recordingHandler) Handle(ctx context.Context, record slog.Record) error {
	handler.entries[record.Message] = ctx.Value(requestKey{})
	return nil
}

func newService(model generate.Model) *generate.Service {
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10})
	return generate.NewService(limiter, model, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSanitizeTheme(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"default", "", "nature"},
		{"trim", "  autumn rain  ", "autumn rain"},
		{"strip", "moon<script>!", "moonscript"},
		{"hyphen kept", "cherry-blossom", "cherry-blossom"},
		{"cut", "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijXYZ", "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghij"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, generate.SanitizeTheme(tc.input))
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	model := &fakeModel{text: "  old pond\nfrog leaps in\nwater's sound \n"}
	service := newService(model)

	result, err := service.Generate(context.Background(), "u1", "frogs!")
	require.NoError(t, err)
	assert.Equal(t, "old pond\nfrog leaps in\nwater's sound", result.Haiku)
	assert.True(t, result.IsAI)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "about: frogs.")
}

func TestGenerate_Unauthenticated(t *testing.T) {
	_, err := newService(&fakeModel{text: "x"}).Generate(context.Background(), "", "moon")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

func TestGenerate_RateLimited(t *testing.T) {
	service := newService(&fakeModel{text: "poem"})
	for i := 0; i < 10; i++ {
		_, err := service.Generate(context.Background(), "u1", "moon")
		require.NoError(t, err)
	}

	_, err := service.Generate(context.Background(), "u1", "moon")
	assert.True(t, apperr.HasCode(err, apperr.CodeRateLimitExceeded))

	_, err = service.Generate(context.Background(), "u2", "moon")
	assert.NoError(t, err)
}

func TestGenerate_MissingKey(t *testing.T) {
	_, err := newService(nil).Generate(context.Background(), "u1", "moon")
	require.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
	assert.Equal(t, "Claude API key not configured", err.Error())
}

func TestGenerate_UpstreamFailures(t *testing.T) {
	for _, model := range []*fakeModel{{err: errors.New("timeout")}, {text: "   "}} {
		_, err := newService(model).Generate(context.Background(), "u1", "moon")
		require.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
		assert.Equal(t, "Failed to generate haiku", err.Error())
	}
}

func TestGenerate_LogsWithRequestContext(t *testing.T) {
	handler := &recordingHandler{Handler: slog.NewTextHandler(io.Discard, nil), entries: map[string]any{}}
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10})
	ctx := context.WithValue(context.Background(), requestKey{}, "req-1")

	_, err := generate.NewService(limiter, &fakeModel{text: "poem"}, slog.New(handler)).Generate(ctx, "u1", "moon")
	require.NoError(t, err)
	_, err = generate.NewService(limiter, &fakeModel{err: errors.New("down")}, slog.New(handler)).Generate(ctx, "u1", "moon")
	require.Error(t, err)
	_, err = generate.NewService(limiter, &fakeModel{text: "  "}, slog.New(handler)).Generate(ctx, "u1", "moon")
	require.Error(t, err)

	assert.Equal(t, map[string]any{
		"haiku_generated":         "req-1",
		"haiku_generation_failed": "req-1",
		"haiku_generation_empty":  "req-1",
	}, handler.entries)
}

func TestNewAnthropicModel_NoKey(t *testing.T) {
	assert.Nil(t, generate.NewAnthropicModel("", "claude-3-haiku-20240307"))
}
