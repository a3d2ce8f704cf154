// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package username

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
)

// Handler exposes username availability checks.
type Handler struct {
	registry *Registry
}

// NewHandler constructs a username [Handler].
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes attaches the username endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/usernames/{name}", handler.checkAvailability)
}

type availabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

/*
GET /api/v1/usernames/{name}.

Response:
  - 200: {username, available}
  - 400: Invalid username format
*/
func (handler *Handler) checkAvailability(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")
	if err := Validate(name); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.registry.Lookup(request.Context(), name)
	switch {
	case err == nil:
		respond.OK(writer, availabilityResponse{Username: name, Available: false})
	case apperr.HasCode(err, apperr.CodeNotFound):
		respond.OK(writer, availabilityResponse{Username: name, Available: true})
	default:
		respond.Error(writer, request, err)
	}
}
