package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/middleware"
	"elfportal/internal/services"
)

type AuthHandler struct {
	Auth       *services.AuthService
	CookieName string
}

func NewAuthHandler(auth *services.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{Auth: auth, CookieName: cookieName}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":  "login",
		"flash": popFlash(c),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, token, err := h.Auth.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			redirectWithFlash(c, "/internal/login", "danger", "Invalid email or password.")
			return
		}
		log.Printf("[auth][login][err] %v", err)
		redirectWithFlash(c, "/internal/login", "danger", "Something went wrong. Try again.")
		return
	}

	maxAge := int(h.Auth.TTL().Seconds())
	c.SetCookie(h.CookieName, token, maxAge, "/", "", false, true)
	log.Printf("[auth][login][ok] user_id=%d", user.ID)
	c.Redirect(http.StatusFound, "/internal/dashboard")
}

// Logout clears the session cookie. POST only; the router returns 405 for GET.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/internal/login")
}

// Session exposes the caller's identity and CSRF token to the frontend.
func (h *AuthHandler) Session(c *gin.Context) {
	ident := identity(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":    ident.UserID,
		"name":       ident.Name,
		"csrf_token": middleware.CSRFToken(c),
	})
}
