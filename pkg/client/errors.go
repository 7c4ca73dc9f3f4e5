package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSessionExpired is returned by every request whose response envelope
// carries code 401. The client has already cleared its session when this is
// returned; callers decide how to send the user back to the login screen.
var ErrSessionExpired = errors.New("登录已过期，请重新登录")

// APIError is a non-401 application or HTTP error reported by the backend.
type APIError struct {
	HTTPStatus int             `json:"http_status"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Errors     json.RawMessage `json:"errors,omitempty"`
	Body       string          `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, e.Body)
}

// FieldErrors returns the per-field validation messages the backend attaches
// to 400 responses, if any.
func (e *APIError) FieldErrors() map[string][]string {
	if len(e.Errors) == 0 {
		return nil
	}
	out := map[string][]string{}
	if err := json.Unmarshal(e.Errors, &out); err != nil {
		return nil
	}
	return out
}

// IsSessionExpired reports whether err originates from a 401 envelope.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
