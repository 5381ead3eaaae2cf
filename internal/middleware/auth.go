package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/types"
)

const (
	sessionKey = "session"
	userIDKey  = "user_id"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens and stores
// the caller's session in the request context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		SetSession(c, types.SessionFromClaims(claims))
		c.Next()
	}
}

// SetSession stores the authenticated caller on the context
func SetSession(c *gin.Context, session types.Session) {
	c.Set(sessionKey, session)
	c.Set(userIDKey, session.UserID)
}

// SessionFrom returns the caller stored by AuthMiddleware
func SessionFrom(c *gin.Context) (types.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return types.Session{}, false
	}
	session, ok := v.(types.Session)
	return session, ok && session.UserID != ""
}
