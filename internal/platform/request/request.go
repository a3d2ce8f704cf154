// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/constants"
	"github.com/taibuivan/kigo/internal/platform/ctxutil"
	"github.com/taibuivan/kigo/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.
An empty body leaves target untouched.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, constants.MaxRequestBodyBytes))
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredUserID returns the id of the authenticated actor.

Returns:
  - string: Actor id issued by the identity provider
  - error: apperr.Unauthenticated if the request is anonymous
*/
func RequiredUserID(request *http.Request) (string, error) {
	actorID := ctxutil.GetActorID(request.Context())
	if actorID == "" {
		return "", apperr.Unauthenticated("")
	}
	return actorID, nil
}
