// Package client is the HTTP client for the textbook procurement and
// inventory backend. It owns the caller's session (bearer token plus cached
// user), builds requests for every backend endpoint and turns the backend's
// JSON envelope into typed results and errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the versioned path every endpoint lives under.
const APIPrefix = "/api/v1"

// DefaultHost is the backend address used when none is configured.
const DefaultHost = "http://localhost:5000"

// Client talks to the backend REST API on behalf of one session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	mu      sync.RWMutex
	session Session
	store   SessionStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithLogger sets the logger request failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithSessionStore makes the client load its session from store at
// construction and write every session change back to it.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

// WithSession starts the client with an explicit session, taking precedence
// over anything loaded from the store.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// NewClient creates a client for the backend at host.
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(host, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store != nil && !c.session.Valid() {
		s, err := c.store.LoadSession()
		if err != nil {
			c.Logger.Warn("load session", "error", err)
		} else {
			c.session = s
		}
	}
	return c
}

// Session returns the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession replaces the session and persists it. Subsequent authenticated
// requests carry its token.
func (c *Client) SetSession(s Session) error {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	if err := c.store.SaveSession(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession forgets the token and cached user, locally and in the store.
func (c *Client) ClearSession() error {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	if err := c.store.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Do sends a request to APIPrefix+path and returns the raw response.
// Content-Type is always application/json; a JSON body is only sent for POST
// and PUT. The bearer token is attached when includeAuth is set and a token
// is held.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, includeAuth bool) (*http.Response, error) {
	u := c.BaseURL + APIPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if includeAuth {
		if token := c.Session().Token; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("API request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// Request sends a request and decodes the backend envelope. An envelope with
// code 401 clears the session and yields ErrSessionExpired, whatever the HTTP
// status; any other non-2xx code or status yields an *APIError.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any, includeAuth bool) (*Response, error) {
	resp, err := c.Do(ctx, method, path, query, body, includeAuth)
	if err != nil {
		return nil, err
	}
	data, err := ReadBody(resp)
	if err != nil {
		c.Logger.Error("API response unreadable", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out Response
	if len(bytes.TrimSpace(data)) == 0 {
		out.Code = resp.StatusCode
	} else if err := json.Unmarshal(data, &out); err != nil {
		c.Logger.Error("API response is not JSON", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		if resp.StatusCode >= 400 {
			return nil, &APIError{HTTPStatus: resp.StatusCode, Body: string(data)}
		}
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if out.Code == http.StatusUnauthorized {
		if err := c.ClearSession(); err != nil {
			c.Logger.Error("clear expired session", "error", err)
		}
		c.Logger.Warn("session expired", "method", method, "path", path)
		return nil, ErrSessionExpired
	}

	if resp.StatusCode >= 400 || (out.Code != 0 && (out.Code < 200 || out.Code >= 300)) {
		apiErr := &APIError{
			HTTPStatus: resp.StatusCode,
			Code:       out.Code,
			Message:    out.Message,
			Errors:     out.Errors,
			Body:       string(data),
		}
		c.Logger.Warn("API error", "method", method, "path", path, "status", resp.StatusCode, "code", out.Code, "message", out.Message)
		return nil, apiErr
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil, true)
}

func (c *Client) post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body, true)
}

func (c *Client) put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, nil, body, true)
}

func (c *Client) delete(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, true)
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() //nolint:errcheck
	return io.ReadAll(resp.Body)
}

// CheckError returns an *APIError for non-2xx responses and nil otherwise.
// The body is consumed only in the error case.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := ReadBody(resp)
	apiErr := &APIError{HTTPStatus: resp.StatusCode, Body: string(data)}
	var envelope Response
	if err := json.Unmarshal(data, &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
