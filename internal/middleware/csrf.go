package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCSRF rejects mutating requests whose CSRF token does not match the
// one carried in the session. The token may arrive as a csrf_token form field
// or an X-CSRF-Token header. Must run after RequireSession.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		want := CSRFToken(c)
		got := c.PostForm("csrf_token")
		if got == "" {
			got = c.GetHeader("X-CSRF-Token")
		}
		if want == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "CSRF token missing or invalid"})
			return
		}
		c.Next()
	}
}
