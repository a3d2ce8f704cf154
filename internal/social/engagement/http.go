// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
	"github.com/taibuivan/kigo/pkg/pagination"
)

// Handler implements the HTTP layer for likes and follows.
type Handler struct {
	engagementService *Service
}

// NewHandler constructs a new engagement [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{engagementService: service}
}

// RegisterRoutes attaches the engagement endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/likes", handler.toggleLike)
	router.Post("/follows", handler.toggleFollow)

	router.Get("/users/{id}/followers", handler.listFollowers)
	router.Get("/users/{id}/following", handler.listFollowing)
}

type toggleLikeRequest struct {
	HaikuID string `json:"haiku_id"`
}

/*
POST /api/v1/likes.

Response:
  - 200: {liked, likes}
  - 400: Haiku ID is required
  - 401: Unauthenticated
  - 404: Haiku not found
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input toggleLikeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.engagementService.ToggleLike(request.Context(), actorID, input.HaikuID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

type toggleFollowRequest struct {
	TargetUserID string `json:"target_user_id"`
}

/*
POST /api/v1/follows.

Response:
  - 200: {following}
  - 400: Target user ID is required
  - 401: Unauthenticated
  - 404: User not found
  - 422: Cannot follow yourself
*/
func (handler *Handler) toggleFollow(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input toggleFollowRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.engagementService.ToggleFollow(request.Context(), actorID, input.TargetUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/v1/users/{id}/followers.
func (handler *Handler) listFollowers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	edges, total, err := handler.engagementService.Followers(request.Context(), requestutil.Param(request, "id"), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, edges, params.Meta(total))
}

// GET /api/v1/users/{id}/following.
func (handler *Handler) listFollowing(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	edges, total, err := handler.engagementService.Following(request.Context(), requestutil.Param(request, "id"), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, edges, params.Meta(total))
}
