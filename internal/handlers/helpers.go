package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"elfportal/internal/middleware"
	"elfportal/internal/models"
)

const flashCookie = "elf_flash"

// Flash is a one-shot notice carried across a redirect in a short-lived
// cookie and rendered into the next view model.
type Flash struct {
	Level   string `json:"level"` // success | warning | danger
	Message string `json:"message"`
}

func setFlash(c *gin.Context, level, message string) {
	value := url.QueryEscape(level + "|" + message)
	c.SetCookie(flashCookie, value, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash, if any.
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(decoded, "|")
	if !ok {
		return &Flash{Level: "info", Message: decoded}
	}
	return &Flash{Level: level, Message: message}
}

func redirectWithFlash(c *gin.Context, target, level, message string) {
	setFlash(c, level, message)
	c.Redirect(http.StatusFound, target)
}

func identity(c *gin.Context) models.Identity {
	ident, _ := middleware.Identity(c)
	return ident
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalID parses an optional query/form value into a nullable id.
func optionalID(s string) *int64 {
	if id, ok := parseID(s); ok {
		return &id
	}
	return nil
}

func parseIDList(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id, ok := parseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
