// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/respond"
)

func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", apperr.Unauthenticated(""), http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"not_found", apperr.NotFound("Haiku"), http.StatusNotFound, apperr.CodeNotFound},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, apperr.CodeForbidden},
		{"conflict", apperr.Conflict("Username already taken"), http.StatusConflict, apperr.CodeConflict},
		{"invalid_operation", apperr.InvalidOperation("Cannot follow yourself"), http.StatusUnprocessableEntity, apperr.CodeInvalidOperation},
		{"rate_limited", apperr.RateLimitExceeded(), http.StatusTooManyRequests, apperr.CodeRateLimitExceeded},
		{"tx_conflict", apperr.TransactionConflict(errors.New("40001")), http.StatusServiceUnavailable, apperr.CodeTransactionConflict},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.code, envelope.Code)
		})
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: relation missing"))

	assert.NotContains(t, recorder.Body.String(), "relation")
}

func TestError_TransactionConflictRetryAfter(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), apperr.TransactionConflict(nil))

	assert.Equal(t, "1", recorder.Header().Get("Retry-After"))
}
