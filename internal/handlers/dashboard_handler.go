package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"elfportal/internal/services"
)

type DashboardHandler struct {
	Dashboards *services.DashboardService
	Omnibar   *services.OmnibarService
}

func NewDashboardHandler(dashboard *services.DashboardService, omnibar *services.OmnibarService) *DashboardHandler {
	return &DashboardHandler{Dashboards: dashboard, Omnibar: omnibar}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	summary, err := h.Dashboards.Summary(c.Request.Context())
	if err != nil {
		log.Printf("[dashboard][summary][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":    "Delivery Dashboard",
		"summary": summary,
		"flash":   popFlash(c),
	})
}

// Go resolves the omnibar query and redirects; unknown queries bounce back to
// the dashboard with a hint listing the recognized page names.
func (h *DashboardHandler) Go(c *gin.Context) {
	query := c.Query("q")
	target, ok, err := h.Omnibar.Resolve(c.Request.Context(), query)
	if err != nil {
		log.Printf("[omnibar][resolve][err] q=%q err=%v", query, err)
		redirectWithFlash(c, "/internal/dashboard", "danger", "Search failed. Try again.")
		return
	}
	if !ok {
		hint := "No exact match found. Try page names or prefixes: " +
			strings.Join(services.OmnibarTargetNames(), ", ") + ", project: <name>, task: <title>"
		redirectWithFlash(c, "/internal/dashboard", "warning", hint)
		return
	}
	c.Redirect(http.StatusFound, target)
}
