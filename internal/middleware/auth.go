package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/services"
)

const (
	ContextIdentityKey = "identity"
	ContextCSRFKey     = "csrf_token"
)

// RequireSession validates the session cookie and puts the caller's identity
// and CSRF token into the gin context. Browsers get redirected to the login
// page instead of a bare 401 since the portal is form-driven.
func RequireSession(auth *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/internal/login")
			c.Abort()
			return
		}
		claims, err := auth.ParseSession(token)
		if err != nil {
			c.Redirect(http.StatusFound, "/internal/login")
			c.Abort()
			return
		}
		c.Set(ContextIdentityKey, models.Identity{UserID: claims.UserID, Name: claims.Name})
		c.Set(ContextCSRFKey, claims.CSRF)
		c.Next()
	}
}

// Identity returns the authenticated identity set by RequireSession.
func Identity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}

// CSRFToken returns the session's CSRF token set by RequireSession.
func CSRFToken(c *gin.Context) string {
	v, ok := c.Get(ContextCSRFKey)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}
