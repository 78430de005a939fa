package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/services"
)

type StarterPlanHandler struct {
	Projects *services.ProjectService
}

func NewStarterPlanHandler(projects *services.ProjectService) *StarterPlanHandler {
	return &StarterPlanHandler{Projects: projects}
}

func (h *StarterPlanHandler) Show(c *gin.Context) {
	tpl, err := h.Projects.StarterTemplate(c.Request.Context())
	if err != nil {
		log.Printf("[starter-plan][show][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the starter plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     "Starter Plan",
		"template": tpl,
		"flash":    popFlash(c),
	})
}

// Update replaces the phase breakdown from the template_json form field.
func (h *StarterPlanHandler) Update(c *gin.Context) {
	raw := c.PostForm("template_json")
	var phases []models.StarterPhase
	if err := json.Unmarshal([]byte(raw), &phases); err != nil {
		redirectWithFlash(c, "/internal/starter-plan", "danger", "Template must be valid JSON.")
		return
	}
	if err := h.Projects.UpdateStarterTemplate(c.Request.Context(), identity(c), phases); err != nil {
		if errors.Is(err, services.ErrBadStarterTemplate) {
			redirectWithFlash(c, "/internal/starter-plan", "danger",
				"Every phase needs a title and at least one milestone with a percent between 0 and 100.")
			return
		}
		log.Printf("[starter-plan][update][err] %v", err)
		redirectWithFlash(c, "/internal/starter-plan", "danger", "Failed to save the starter plan.")
		return
	}
	redirectWithFlash(c, "/internal/starter-plan", "success", "Starter plan updated.")
}
