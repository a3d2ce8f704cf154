// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
)

// Handler implements the HTTP layer for haiku generation.
type Handler struct {
	generateService *Service
}

// NewHandler constructs a new generation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{generateService: service}
}

// RegisterRoutes attaches the generation endpoint to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/haikus/generate", handler.generateHaiku)
}

type generateRequest struct {
	Theme string `json:"theme"`
}

/*
POST /api/v1/haikus/generate.

Response:
  - 200: {haiku, is_ai}
  - 401: Unauthenticated
  - 429: Rate limit exceeded
  - 502: Upstream failure
*/
func (handler *Handler) generateHaiku(writer http.ResponseWriter, request *http.Request) {
	var input generateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.generateService.Generate(request.Context(), ctxutil.GetActorID(request.Context()), input.Theme)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
