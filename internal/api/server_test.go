// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/api"
	"github.com/taibuivan/kigo/internal/content/generate"
	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/config"
	"github.com/taibuivan/kigo/internal/platform/memstore"
	"github.com/taibuivan/kigo/internal/platform/ratelimit"
	"github.com/taibuivan/kigo/internal/platform/sec"
	"github.com/taibuivan/kigo/internal/social/engagement"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
)

type stubModel struct{}

func (stubModel) Complete(context.Context, string) (string, error) {
	return "an old silent pond\na frog jumps into the pond\nsplash! silence again", nil
}

type harness struct {
	handler http.Handler
	tokens  *sec.TokenService
}

func newHarness(t *testing.T, checks ...api.HealthCheck) *harness {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "kigo.test")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	registry := username.NewRegistry(store.Usernames(), store.Accounts(), store, logger)
	limiter := ratelimit.NewFixedWindow(ratelimit.Options{Window: time.Minute, Max: 10})
	liveness, readiness := api.NewHealthHandlers(checks, logger)

	server := api.NewServer(api.Options{
		Port:     "0",
		CORS:     &config.Config{Environment: "development"},
		Verifier: tokens,
	}, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domains: []api.RouteRegistrar{
			account.NewHandler(account.NewService(store.Accounts(), registry, store, logger)),
			username.NewHandler(registry),
			generate.NewHandler(generate.NewService(limiter, stubModel{}, logger)),
			haiku.NewHandler(haiku.NewService(store.Haikus(), store.Accounts(), store, logger)),
			engagement.NewHandler(engagement.NewService(store.Likes(), store.Follows(), store.Haikus(), store.Accounts(), store, logger)),
			collection.NewHandler(collection.NewService(store.Collections(), store.Haikus(), store, logger)),
		},
	})

	return &harness{handler: server.Handler(), tokens: tokens}
}

func (h *harness) token(t *testing.T, actorID string) string {
	t.Helper()
	token, err := h.tokens.GenerateAccessToken(actorID, "Poet "+actorID, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends a request and decodes the envelope's data (or the error body).
func (h *harness) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)

	var decoded map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	if data, ok := decoded["data"].(map[string]any); ok {
		return recorder.Code, data
	}
	return recorder.Code, decoded
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := h.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadiness_Degraded(t *testing.T) {
	h := newHarness(t, api.HealthCheck{Name: "postgres", Check: func(context.Context) error { return errors.New("down") }})

	status, body := h.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}

func TestUnauthenticated(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/v1/likes", "", map[string]string{"haiku_id": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body["code"])

	status, _ = h.do(t, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.token(t, "alice-id"), h.token(t, "bob-id")

	// Register both profiles.
	status, body := h.do(t, http.MethodPost, "/api/v1/me", alice, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Poet alice-id", body["display_name"])

	status, _ = h.do(t, http.MethodPost, "/api/v1/me", alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodPost, "/api/v1/me", bob, map[string]string{"display_name": "Bob"})
	require.Equal(t, http.StatusCreated, status)

	// Usernames.
	status, body = h.do(t, http.MethodPatch, "/api/v1/me", alice, map[string]any{"username": "alice", "bio": "poet"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	status, body = h.do(t, http.MethodPatch, "/api/v1/me", bob, map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already taken", body["error"])

	status, body = h.do(t, http.MethodGet, "/api/v1/usernames/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["available"])

	// Generation and haiku creation.
	status, body = h.do(t, http.MethodPost, "/api/v1/haikus/generate", alice, map[string]string{"theme": "frog"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_ai"])

	status, body = h.do(t, http.MethodPost, "/api/v1/haikus", alice, map[string]any{
		"content": body["haiku"], "theme": "frog", "is_ai": true, "is_public": true,
	})
	require.Equal(t, http.StatusCreated, status)
	haikuID, _ := body["id"].(string)
	require.NotEmpty(t, haikuID)

	// Likes.
	status, body = h.do(t, http.MethodPost, "/api/v1/likes", bob, map[string]string{"haiku_id": haikuID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likes"])

	// Follows.
	status, body = h.do(t, http.MethodPost, "/api/v1/follows", bob, map[string]string{"target_user_id": "alice-id"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["following"])

	status, body = h.do(t, http.MethodPost, "/api/v1/follows", bob, map[string]string{"target_user_id": "bob-id"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_OPERATION", body["code"])

	status, body = h.do(t, http.MethodGet, "/api/v1/users/alice-id", "", nil)
	require.Equal(t, http.StatusOK, status)
	stats, _ := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_haikus"])
	assert.Equal(t, float64(1), stats["total_likes"])
	assert.Equal(t, float64(1), stats["total_followers"])

	// Collections.
	status, body = h.do(t, http.MethodPost, "/api/v1/collections", alice, map[string]any{"name": "Ponds", "is_public": true})
	require.Equal(t, http.StatusCreated, status)
	collectionID, _ := body["id"].(string)

	status, _ = h.do(t, http.MethodPost, "/api/v1/collections/"+collectionID+"/haikus", bob, map[string]string{"haiku_id": haikuID})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = h.do(t, http.MethodPost, "/api/v1/collections/"+collectionID+"/haikus", alice, map[string]string{"haiku_id": haikuID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = h.do(t, http.MethodGet, "/api/v1/collections/"+collectionID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["item_count"])
}
