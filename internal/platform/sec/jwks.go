// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies tokens against the provider's published key set.
// Keys are cached and refreshed by keyfunc in the background.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
	logger *slog.Logger
}

// NewJWKSVerifier fetches the key set at jwksURL and returns a verifier.
// The context bounds the lifetime of the background refresh.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("auth: JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create JWKS client: %w", err)
	}

	logger.Info("jwks_verifier_initialized", slog.String("jwks_url", jwksURL))

	return &JWKSVerifier{jwks: jwks, issuer: issuer, logger: logger}, nil
}

// VerifyToken validates the token signature with the cached key set.
func (verifier *JWKSVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, verifier.jwks.Keyfunc,
		jwt.WithIssuer(verifier.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil {
		verifier.logger.Debug("jwks_token_rejected", slog.Any("error", err))
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	return claimsOf(token)
}
