// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates the bearer tokens issued by Heimdall.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = constants.ServiceName
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	jwksCacheTTL       = 5 * time.Minute
	allowedClockSkew   = 5 * time.Second
)

// IJWTAuth parses the principal from a bearer token.
type IJWTAuth interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined in
// HeimdallClaims.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig holds the JWT validation settings.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the JSON Web Key Set.
	JWKSURL string
	// Audience is the expected audience of the token.
	Audience string
	// MockLocalPrincipal bypasses validation and returns this principal. Local development only.
	MockLocalPrincipal string
}

// JWTAuth validates Heimdall JWTs.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

var _ IJWTAuth = (*JWTAuth)(nil)

// NewJWTAuth creates a JWT validator backed by a caching JWKS provider.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, err
	}

	issuer, err := url.Parse(defaultIssuer)
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal validates the token and returns the Heimdall principal.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT principal parsing disabled, returning mock principal",
			"principal", j.config.MockLocalPrincipal,
		)
		return j.config.MockLocalPrincipal, nil
	}

	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	token = strings.TrimPrefix(token, "Bearer ")

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "failed to validate JWT", logging.ErrKey, err)
		return "", err
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", errors.New("failed to get custom authorization claims")
	}

	return customClaims.Principal, nil
}
