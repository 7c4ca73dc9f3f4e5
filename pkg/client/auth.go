package client

import (
	"context"
	"fmt"
	"net/http"
)

// LoginResult is the data payload of POST /auth/login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RealName   string `json:"real_name,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Login authenticates without a bearer token and, on success, installs the
// returned token and user as the client session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.Request(ctx, http.MethodPost, "/auth/login", nil, body, false)
	if err != nil {
		return nil, err
	}
	result, err := Decode[LoginResult](resp)
	if err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("login response has no access token")
	}
	if err := c.SetSession(Session{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	}); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout drops the local session. The backend keeps no server-side session.
func (c *Client) Logout() error {
	return c.ClearSession()
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	return c.Request(ctx, http.MethodPost, "/auth/register", nil, req, false)
}

// CurrentUser returns the identity encoded in the session token.
func (c *Client) CurrentUser(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/auth/current_user", nil)
}

// Users lists the users the caller may order on behalf of.
func (c *Client) Users(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/auth/users", nil)
}
