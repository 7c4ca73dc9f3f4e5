package client

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the cached user record returned by login. Only Role drives
// permission checks; the remaining fields are informational. The original
// payload is kept verbatim so unknown fields survive a save/load cycle.
type User struct {
	UserID     int    `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	RealName   string `json:"real_name,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	LastLogin  string `json:"last_login,omitempty"`
	Status     int    `json:"status,omitempty"`

	raw json.RawMessage
}

type userFields User

// UnmarshalJSON decodes the known fields and keeps the raw payload.
func (u *User) UnmarshalJSON(data []byte) error {
	var f userFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*u = User(f)
	u.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the payload the user was decoded from, or the known
// fields when the user was built in code.
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	return json.Marshal(userFields(u))
}

// DisplayName prefers the real name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Username
}

// Session is the token/user pair a client authenticates with.
type Session struct {
	Token        string
	RefreshToken string
	User         *User
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Role returns the cached user's role, or "" when no user is cached.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// TokenClaims are the identity claims the backend embeds in access tokens.
type TokenClaims struct {
	Subject   string
	Username  string
	Role      string
	RealName  string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed at now. Tokens without
// an exp claim never expire locally.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the token payload without verifying its signature. The
// backend remains the only authority on validity; this is for display.
func (s Session) Claims() (TokenClaims, error) {
	if s.Token == "" {
		return TokenClaims{}, fmt.Errorf("no session token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("decode token: %w", err)
	}
	out := TokenClaims{}
	out.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.Username, _ = claims["username"].(string)
	out.Role, _ = claims["role"].(string)
	out.RealName, _ = claims["real_name"].(string)
	return out, nil
}

// SessionStore persists the session between process runs.
type SessionStore interface {
	LoadSession() (Session, error)
	SaveSession(Session) error
	ClearSession() error
}

// MemoryStore is a SessionStore kept in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
}

func (m *MemoryStore) LoadSession() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemoryStore) SaveSession(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}

// EncodeUser serializes a user record for string-keyed stores.
func EncodeUser(u *User) (string, error) {
	if u == nil {
		return "", nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(data), nil
}

// DecodeUser parses a user record written by EncodeUser. Empty input yields
// a nil user.
func DecodeUser(s string) (*User, error) {
	if s == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
