// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
)

// Handler implements the HTTP layer for haiku.
type Handler struct {
	haikuService *Service
}

// NewHandler constructs a new haiku [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{haikuService: service}
}

// RegisterRoutes attaches the haiku endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/haikus", handler.createHaiku)
	router.Post("/haikus/hashtags", handler.suggestHashtags)
	router.Get("/haikus/{id}", handler.getHaiku)
	router.Post("/haikus/{id}/save", handler.saveHaiku)

	router.Get("/me/stats", handler.getMyStats)
}

type createRequest struct {
	Content  string `json:"content"`
	Theme    string `json:"theme"`
	IsAI     bool   `json:"is_ai"`
	IsPublic bool   `json:"is_public"`
	IsSaved  bool   `json:"is_saved"`
}

/*
POST /api/v1/haikus.

Response:
  - 201: Haiku
  - 400: Missing or oversized content
  - 401: Unauthenticated
  - 404: Caller has no profile
*/
func (handler *Handler) createHaiku(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	haiku, err := handler.haikuService.Create(request.Context(), actorID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, haiku)
}

// GET /api/v1/haikus/{id}. Anonymous callers see public haiku only.
func (handler *Handler) getHaiku(writer http.ResponseWriter, request *http.Request) {
	actorID := ctxutil.GetActorID(request.Context())

	haiku, err := handler.haikuService.Get(request.Context(), actorID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, haiku)
}

// POST /api/v1/haikus/{id}/save.
func (handler *Handler) saveHaiku(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	haiku, err := handler.haikuService.MarkSaved(request.Context(), actorID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, haiku)
}

// GET /api/v1/me/stats.
func (handler *Handler) getMyStats(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.haikuService.Stats(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

type hashtagsRequest struct {
	Theme   string `json:"theme"`
	Content string `json:"content"`
}

type hashtagsResponse struct {
	Hashtags []string `json:"hashtags"`
}

// POST /api/v1/haikus/hashtags.
func (handler *Handler) suggestHashtags(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input hashtagsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.haikuService.Hashtags(actorID, input.Theme, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, hashtagsResponse{Hashtags: tags})
}
