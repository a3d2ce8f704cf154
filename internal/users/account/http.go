// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
	"github.com/taibuivan/kigo/pkg/pointer"
)

// Handler implements the HTTP layer for actor profiles.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/me", handler.registerMe)
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	router.Get("/users/{id}", handler.getUserProfile)
}

// # Profile Endpoints

type registerRequest struct {
	DisplayName *string `json:"display_name"`
}

/*
POST /api/v1/me.

Description: Creates the caller's profile on first sign-in. Idempotent.

Response:
  - 201: Actor: Newly created profile
  - 200: Actor: Existing profile
  - 401: Unauthenticated
*/
func (handler *Handler) registerMe(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	displayName := pointer.Or(input.DisplayName, ctxutil.GetAuthUser(request.Context()).Name)

	actor, created, err := handler.accountService.Register(request.Context(), actorID, displayName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, actor)
		return
	}
	respond.OK(writer, actor)
}

/*
GET /api/v1/me.

Response:
  - 200: Actor: The caller's profile
  - 401: Unauthenticated
  - 404: Profile not registered yet
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := handler.accountService.GetProfile(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, actor)
}

type socialLinksRequest struct {
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName *string             `json:"display_name"`
	Bio         *string             `json:"bio"`
	Website     *string             `json:"website"`
	SocialLinks *socialLinksRequest `json:"social_links"`
	Username    *string             `json:"username"`
}

/*
PATCH /api/v1/me.

Description: Applies a partial profile update, optionally claiming a new username.

Response:
  - 200: UpdateResult
  - 400: Invalid JSON or username format
  - 401: Unauthenticated
  - 409: Username already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile := ProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Website:     input.Website,
		Username:    input.Username,
	}
	if input.SocialLinks != nil {
		profile.SocialLinks = &SocialLinksInput{
			Twitter:   input.SocialLinks.Twitter,
			Instagram: input.SocialLinks.Instagram,
		}
	}

	result, err := handler.accountService.UpdateProfile(request.Context(), actorID, profile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/users/{id}.

Description: Public profile lookup.
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.accountService.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, actor)
}
