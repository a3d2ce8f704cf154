// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/kigo/internal/platform/request"
	"github.com/taibuivan/kigo/internal/platform/respond"
	"github.com/taibuivan/kigo/pkg/pagination"
)

// Handler implements the HTTP layer for collections.
type Handler struct {
	collectionService *Service
}

// NewHandler constructs a new collection [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{collectionService: service}
}

// RegisterRoutes attaches the collection endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/collections", func(router chi.Router) {
		router.Post("/", handler.createCollection)
		router.Get("/{id}", handler.getCollection)
		router.Get("/{id}/haikus", handler.listItems)
		router.Post("/{id}/haikus", handler.addItem)
	})
}

type createRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

/*
POST /api/v1/collections.

Response:
  - 201: Collection
  - 400: Collection name must be at least 3 characters
  - 401: Unauthenticated
*/
func (handler *Handler) createCollection(writer http.ResponseWriter, request *http.Request) {
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

	collection, err := handler.collectionService.Create(request.Context(), actorID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, collection)
}

// GET /api/v1/collections/{id}.
func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	collection, err := handler.collectionService.Get(request.Context(), ctxutil.GetActorID(request.Context()), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collection)
}

// GET /api/v1/collections/{id}/haikus.
func (handler *Handler) listItems(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	items, total, err := handler.collectionService.ListItems(
		request.Context(),
		ctxutil.GetActorID(request.Context()),
		requestutil.Param(request, "id"),
		params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, params.Meta(total))
}

type addItemRequest struct {
	HaikuID string `json:"haiku_id"`
}

/*
POST /api/v1/collections/{id}/haikus.

Response:
  - 200: {success}
  - 401: Unauthenticated
  - 403: You can only add to your own collections
  - 404: Collection or Haiku not found
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.collectionService.AddItem(request.Context(), actorID, requestutil.Param(request, "id"), input.HaikuID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
