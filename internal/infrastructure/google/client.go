// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package google implements the forms and file metadata clients on top of the
// Google Forms and Drive API services.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	formsapi "google.golang.org/api/forms/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

const (
	// FormsBaseURL is the base URL for the Forms API
	FormsBaseURL = "https://forms.googleapis.com"
	// DriveBaseURL is the base URL for the Drive API
	DriveBaseURL = "https://www.googleapis.com"
	// DefaultClientTimeout is the default HTTP client timeout for Google API requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Scopes requested for service account and default credentials.
var Scopes = []string{
	"https://www.googleapis.com/auth/forms.body",
	"https://www.googleapis.com/auth/forms.responses.readonly",
	"https://www.googleapis.com/auth/drive",
}

// Config holds the configuration for the Google API client
type Config struct {
	// CredentialsFile is a service account JSON key. When empty, AccessToken or
	// application default credentials are used.
	CredentialsFile string
	// ImpersonateSubject is the user impersonated through domain-wide delegation.
	ImpersonateSubject string
	// AccessToken is a static OAuth2 access token, mostly for local runs.
	AccessToken string
	// TokenSource overrides every other credential option when set.
	TokenSource oauth2.TokenSource

	// Optional: override base URLs for testing. The API version path is appended.
	FormsBaseURL string
	DriveBaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client talks to the Google Forms and Drive APIs.
type Client struct {
	httpClient *http.Client
	config     Config
	forms      *formsapi.Service
	drive      *driveapi.Service
}

// credentialError marks failures to obtain a token so they are never retried.
type credentialError struct {
	err error
}

func (e *credentialError) Error() string { return "google credential: " + e.err.Error() }

func (e *credentialError) Unwrap() error { return e.err }

type credentialSource struct {
	src oauth2.TokenSource
}

func (s credentialSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, &credentialError{err: err}
	}
	return token, nil
}

// NewClient creates a new Google API client
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.FormsBaseURL == "" {
		config.FormsBaseURL = FormsBaseURL
	}
	if config.DriveBaseURL == "" {
		config.DriveBaseURL = DriveBaseURL
	}
	config.FormsBaseURL = strings.TrimRight(config.FormsBaseURL, "/")
	config.DriveBaseURL = strings.TrimRight(config.DriveBaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &oauth2.Transport{
			Base:   otelhttp.NewTransport(http.DefaultTransport),
			Source: credentialSource{src: oauth2.ReuseTokenSource(nil, ts)},
		},
	}

	formsService, err := formsapi.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(config.FormsBaseURL+"/"),
	)
	if err != nil {
		return nil, domain.NewInternalError("failed to create forms service", err)
	}
	driveService, err := driveapi.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(config.DriveBaseURL+"/drive/v3/"),
	)
	if err != nil {
		return nil, domain.NewInternalError("failed to create drive service", err)
	}

	return &Client{
		httpClient: httpClient,
		config:     config,
		forms:      formsService,
		drive:      driveService,
	}, nil
}

func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	switch {
	case config.TokenSource != nil:
		return config.TokenSource, nil
	case config.AccessToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.AccessToken}), nil
	case config.CredentialsFile != "":
		data, err := os.ReadFile(config.CredentialsFile)
		if err != nil {
			return nil, domain.NewUnauthorizedError("failed to read google credentials file", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, domain.NewUnauthorizedError("invalid google service account credentials", err)
		}
		jwtConfig.Subject = config.ImpersonateSubject
		return jwtConfig.TokenSource(ctx), nil
	default:
		ts, err := google.DefaultTokenSource(ctx, Scopes...)
		if err != nil {
			return nil, domain.NewUnauthorizedError("no google credentials available", err)
		}
		return ts, nil
	}
}

// shouldRetry determines if an HTTP status code should be retried
func shouldRetry(statusCode int) bool {
	// Retry on server errors (5xx) and rate limiting (429)
	return (statusCode >= 500 && statusCode < 600) || statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// ±25% jitter
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// do runs one API call with retry on 429/5xx and network errors. op names the
// call in logs.
func (c *Client) do(ctx context.Context, op string, call func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		c.logRequest(ctx, op, attempt)

		start := time.Now()
		err := call(ctx)
		duration := time.Since(start)

		var (
			credErr *credentialError
			apiErr  *googleapi.Error
			urlErr  *url.Error
		)
		switch {
		case err == nil:
			c.logResponse(ctx, op, http.StatusOK, duration, "")
			return nil
		case errors.As(err, &credErr):
			slog.ErrorContext(ctx, "google credential rejected",
				"operation", op,
				logging.ErrKey, err)
			return domain.NewUnauthorizedError("failed to obtain google access token", credErr.err)
		case errors.As(err, &apiErr):
			c.logResponse(ctx, op, apiErr.Code, duration, apiErr.Body)
			lastErr = mapHTTPError(apiErr.Code, []byte(apiErr.Body))
			if !shouldRetry(apiErr.Code) {
				return lastErr
			}
		case ctx.Err() != nil:
			return domain.NewUnavailableError("google API request cancelled", ctx.Err())
		case errors.As(err, &urlErr):
			lastErr = domain.NewUnavailableError("google API request failed", err)
		default:
			return domain.NewInternalError("failed to parse google API response", err)
		}

		if attempt == c.config.MaxRetries {
			break
		}

		backoff := c.calculateBackoff(attempt)
		slog.WarnContext(ctx, "google API request failed, retrying",
			"operation", op,
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
			"backoff", backoff.String(),
			logging.ErrKey, lastErr)

		select {
		case <-ctx.Done():
			return domain.NewUnavailableError("google API request cancelled", ctx.Err())
		case <-time.After(backoff):
		}
	}

	slog.ErrorContext(ctx, "google API request failed after all retries",
		"operation", op,
		"attempts", c.config.MaxRetries+1,
		logging.ErrKey, lastErr,
		logging.PriorityCritical())
	return lastErr
}

// logRequest logs the outgoing API call for debugging
func (c *Client) logRequest(ctx context.Context, op string, attempt int) {
	slog.DebugContext(ctx, "google API request",
		"operation", op,
		"attempt", attempt+1,
	)
}

// logResponse logs the API call outcome for debugging
func (c *Client) logResponse(ctx context.Context, op string, statusCode int, duration time.Duration, body string) {
	if statusCode < 200 || statusCode >= 300 {
		slog.ErrorContext(ctx, "google API response error",
			"operation", op,
			"status_code", statusCode,
			"duration", duration.String(),
			"body", body,
		)
		return
	}
	slog.DebugContext(ctx, "google API response",
		"operation", op,
		"status_code", statusCode,
		"duration", duration.String(),
	)
}

// errorEnvelope is the JSON error body returned by Google APIs.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// mapHTTPError converts a Google error envelope into a domain error.
func mapHTTPError(statusCode int, body []byte) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)

	message := envelope.Error.Message
	if message == "" {
		message = fmt.Sprintf("HTTP %d error", statusCode)
	}
	if envelope.Error.Status != "" {
		message = fmt.Sprintf("google API error (%s): %s", envelope.Error.Status, message)
	}

	switch statusCode {
	case http.StatusBadRequest:
		return domain.NewValidationError(message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewUnauthorizedError(fmt.Sprintf("authentication/authorization failed: %s", message))
	case http.StatusNotFound:
		return domain.NewNotFoundError(message)
	case http.StatusConflict:
		return domain.NewConflictError(message)
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.NewUnavailableError(message)
	default:
		return domain.NewInternalError(message)
	}
}
