package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSessionNotFound means no stored session matches the identifier.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden is returned when the session's role may not use a resource.
	ErrForbidden = errors.New("forbidden")
)

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// Session is an authenticated UI session as seen by handlers.
type Session struct {
	ID   string `json:"session_id"`
	User User   `json:"user"`
	// AccessExpiresAt is decoded from the current access token, when readable.
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
}

// TokenClaims are the fields the backend embeds in its access tokens.
type TokenClaims struct {
	TokenType string `json:"token_type"`
	Role      Role   `json:"role"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// ParseClaims decodes an access token without verifying its signature. The
// backend is the only party that can verify it; the claims are used for
// display and expiry hints only, never for authorization.
func ParseClaims(token string) (*TokenClaims, error) {
	var claims TokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return &claims, nil
}

// Expiry returns the token's expiry, if it has one.
func (c *TokenClaims) Expiry() *time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return nil
	}
	t := c.RegisteredClaims.ExpiresAt.Time
	return &t
}

// Expired reports whether the token is past its expiry at now.
func (c *TokenClaims) Expired(now time.Time) bool {
	exp := c.Expiry()
	return exp != nil && !now.Before(*exp)
}
