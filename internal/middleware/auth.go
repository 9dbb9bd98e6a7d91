package middleware

import (
	"net/http"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/pkg/jwt"
	"scheduleandpay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "session"
	userKey       = "user"
)

// AdminChecker decides whether a verified identity is the administrator.
type AdminChecker interface {
	IsAdmin(user *domain.Identity) bool
}

// Session loads the identity from the session cookie when present and valid.
// It never rejects a request; anonymous visitors simply have no user.
func Session(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err == nil && raw != "" {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				c.Set(userKey, claims.Identity())
			}
		}
		c.Next()
	}
}

// CurrentUser returns the identity loaded by Session, or nil.
func CurrentUser(c *gin.Context) *domain.Identity {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.Identity)
	return user
}

// RequireAdmin sends anyone but the administrator to the login page.
func RequireAdmin(gate AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.IsAdmin(CurrentUser(c)) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI is RequireAdmin for JSON endpoints.
func RequireAdminAPI(gate AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !gate.IsAdmin(user) {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: administrator only")
			return
		}
		c.Next()
	}
}
