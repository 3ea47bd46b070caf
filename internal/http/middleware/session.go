// Package middleware resolves the caller of a request from its session token.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"commercego/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CookieName = "session_id"

type Resolver interface {
	Resolve(ctx context.Context, token string) (identity.User, error)
}

// Token reads the session token from the cookie, then from a Bearer header.
func Token(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// WithSession stores the resolved caller in the request context. Requests
// without a valid session continue as anonymous.
func WithSession(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if token == "" {
			c.Next()
			return
		}
		u, err := r.Resolve(c.Request.Context(), token)
		if err != nil {
			zap.L().Warn("session_resolve_failed", zap.Error(err))
			c.Next()
			return
		}
		if !u.IsAnonymous() {
			c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), u))
		}
		c.Next()
	}
}

// RequireUser rejects anonymous callers with 401.
func RequireUser(c *gin.Context) {
	if identity.FromContext(c.Request.Context()).IsAnonymous() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Next()
}

// User returns the caller resolved by WithSession.
func User(c *gin.Context) identity.User {
	return identity.FromContext(c.Request.Context())
}
