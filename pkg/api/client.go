// Package api wraps all calls to the Street Cause admin API. It is the single
// choke point for outbound requests: credentials are attached here and session
// expiry is detected here, so callers never inspect HTTP status codes
// themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/elitceler/streetcause-admin/pkg/session"
)

// DefaultBaseURL is the production admin API.
const DefaultBaseURL = "https://scapi.elitceler.com/api/v1"

// Client performs authenticated JSON requests against the admin API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        *session.Store
	tokens         oauth2.TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. No timeout is applied
// by default; callers wanting one should pass a client with Timeout set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnauthorizedHook installs a callback invoked after a 401 has torn down
// the session. The CLI uses it to prompt for a fresh login; it stands in for
// the dashboard's redirect to the login page.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient creates a client for the given base URL. The session store is
// consulted for credentials on every request and cleared whenever the API
// answers 401.
func NewClient(baseURL string, sess *session.Store, logger *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		session:    sess,
		tokens:     sess.TokenSource(),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	includeAuth bool
}

// WithoutAuth skips attaching the authorization header. Note that a 401
// response still invalidates the session: session expiry is a global signal
// regardless of which endpoint reported it.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.includeAuth = false
	}
}

// Do performs a JSON request and decodes the response body into out. Pass a
// nil out to discard the body. Endpoints are resolved against the base URL
// unless already absolute. The body, when non-nil, is serialized as JSON.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	options := requestOptions{includeAuth: true}
	for _, opt := range opts {
		opt(&options)
	}

	url := endpoint
	if !strings.HasPrefix(endpoint, "http") {
		url = c.baseURL + endpoint
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	if options.includeAuth {
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("failed to read credential: %w", err)
		}
		if tok != nil && tok.AccessToken != "" {
			tok.SetAuthHeader(req)
		}
	}

	c.logger.Debug("API request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.invalidateSession(requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// invalidateSession handles the global 401 rule: the session is cleared
// unconditionally, even when the caller did not ask for credentials.
func (c *Client) invalidateSession(requestID string) error {
	c.logger.Warn("Session invalidated by 401 response", zap.String("request_id", requestID))

	if err := c.session.Clear(); err != nil {
		c.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}

	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	return ErrUnauthorized
}

func (c *Client) responseError(resp *http.Response) error {
	var errBody struct {
		Message string `json:"message"`
	}
	// Best effort: a non-JSON or message-less body falls back to a generic
	// status message.
	data, err := io.ReadAll(resp.Body)
	if err == nil {
		_ = json.Unmarshal(data, &errBody)
	}

	return newRequestError(resp.StatusCode, errBody.Message)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out, opts...)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out, opts...)
}

// Patch performs a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, endpoint, body, out, opts...)
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out, opts...)
}
