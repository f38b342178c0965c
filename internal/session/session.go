// Package session carries the caller's authentication state into the search and
// favorites components as an explicit, read-only value.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// LoginPath is where unauthenticated callers are sent
const LoginPath = "/login"

// Claims are the token claims the marketplace API issues
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id,omitempty"`
	Rol    string `json:"rol,omitempty"`
}

// Context is a snapshot of the session
type Context struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// FromToken builds a session from a bearer token. JWT claims are read without
// verifying the signature; the API verifies. Opaque tokens are kept as-is with no expiry.
func FromToken(token string) Context {
	token = strings.TrimSpace(token)
	if token == "Bearer" {
		token = ""
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Context{}
	}

	ctx := Context{Token: token}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ctx
	}

	ctx.UserID = claims.UserID
	if ctx.UserID == "" {
		ctx.UserID = claims.Subject
	}
	ctx.Role = claims.Rol
	if claims.ExpiresAt != nil {
		ctx.ExpiresAt = claims.ExpiresAt.Time
	}

	return ctx
}

// Authenticated reports whether the session holds a usable token at now
func (c Context) Authenticated(now time.Time) bool {
	if c.Token == "" {
		return false
	}
	return c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt)
}

// RedirectIntent asks the navigation collaborator to start the login flow
type RedirectIntent struct {
	Target string
	Reason string
}

// LoginRedirect builds the intent for a feature that needs a session
func LoginRedirect(reason string) RedirectIntent {
	return RedirectIntent{Target: LoginPath, Reason: reason}
}

// Provider returns the current session
type Provider interface {
	Current() Context
}

// Static is a fixed session
type Static Context

// Current implements Provider
func (s Static) Current() Context {
	return Context(s)
}

// Store is a session that can change over time, e.g. after login or logout
type Store struct {
	mu  sync.RWMutex
	cur Context
}

// NewStore creates a session store from an initial token (may be empty)
func NewStore(token string) *Store {
	return &Store{cur: FromToken(token)}
}

// Current implements Provider
func (s *Store) Current() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetToken replaces the session
func (s *Store) SetToken(token string) {
	c := FromToken(token)
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
}

// Clear logs the session out
func (s *Store) Clear() {
	s.mu.Lock()
	s.cur = Context{}
	s.mu.Unlock()
}

// Mint signs an HS256 token; used by the dev server and the CLI token command
func Mint(secret, userID, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret is required")
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quitoemprende",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Rol:    role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify validates an HS256 token and returns its claims
func Verify(secret, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}
