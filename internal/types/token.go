package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Session is the authenticated caller of a request. It replaces any
// process-wide "current user" state.
type Session struct {
	UserID string
	Name   string
}

// SessionFromClaims builds the request session from validated claims
func SessionFromClaims(c *TokenClaims) Session {
	return Session{UserID: c.UserID, Name: c.Name}
}
