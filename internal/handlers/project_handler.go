package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/pdf"
	"elfportal/internal/repositories"
	"elfportal/internal/services"
)

type ProjectHandler struct {
	Projects  *services.ProjectService
	Resources *services.ResourceService
	Clients   repositories.ClientRepository
	Users     repositories.UserRepository
	Tasks     repositories.TaskRepository
	Brief     pdf.Generator
	SiteTitle string
}

func NewProjectHandler(
	projects *services.ProjectService,
	resources *services.ResourceService,
	clients repositories.ClientRepository,
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	brief pdf.Generator,
	siteTitle string,
) *ProjectHandler {
	return &ProjectHandler{
		Projects:  projects,
		Resources: resources,
		Clients:   clients,
		Users:     users,
		Tasks:     tasks,
		Brief:     brief,
		SiteTitle: siteTitle,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := optionalID(c.Query("client_id"))

	projects, err := h.Projects.List(ctx, clientID)
	if err != nil {
		log.Printf("[project][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	documents, err := h.Resources.LinkedToProjects(ctx, projects)
	if err != nil {
		log.Printf("[project][list][err] documents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	clients, err := h.Clients.List(ctx)
	if err != nil {
		log.Printf("[project][list][err] clients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      "Project Operations",
		"projects":  projects,
		"documents": documents,
		"clients":   clients,
		"client_id": clientID,
		"flash":     popFlash(c),
	})
}

func (h *ProjectHandler) Add(c *gin.Context) {
	input := services.CreateProjectInput{
		Name:             c.PostForm("name"),
		ClientMode:       c.PostForm("client_mode"),
		Stage:            c.PostForm("stage"),
		Status:           c.PostForm("status"),
		Summary:          c.PostForm("summary"),
		IndustryCategory: c.PostForm("industry_category"),
		StarterPlan:      formFlag(c.PostForm("create_starter_plan")),
	}
	if id, ok := parseID(c.PostForm("client_id")); ok {
		input.ClientID = id
	}
	if owner := strings.TrimSpace(c.PostForm("owner_id")); owner != "" && owner != "self" {
		input.OwnerID = optionalID(owner)
	}
	if days, err := strconv.Atoi(strings.TrimSpace(c.PostForm("timeline_days"))); err == nil {
		input.TimelineDays = days
	}
	input.NewClient = models.Client{
		Name:         c.PostForm("new_client_name"),
		Industry:     strings.TrimSpace(c.PostForm("new_client_industry")),
		AccountOwner: strings.TrimSpace(c.PostForm("new_client_account_owner")),
	}

	project, err := h.Projects.Create(c.Request.Context(), identity(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNameRequired),
			errors.Is(err, services.ErrClientRequired):
			redirectWithFlash(c, "/internal/projects", "danger", err.Error())
		default:
			log.Printf("[project][add][err] %v", err)
			redirectWithFlash(c, "/internal/projects", "danger", "Failed to create the project.")
		}
		return
	}
	redirectWithFlash(c, "/internal/projects", "success",
		fmt.Sprintf("Project %q created.", project.Name))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		redirectWithFlash(c, "/internal/projects", "danger", "Invalid project id.")
		return
	}
	if err := h.Projects.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			redirectWithFlash(c, "/internal/projects", "danger", "Project not found.")
			return
		}
		log.Printf("[project][delete][err] id=%d err=%v", id, err)
		redirectWithFlash(c, "/internal/projects", "danger", "Failed to delete the project.")
		return
	}
	log.Printf("[project][delete][ok] id=%d", id)
	redirectWithFlash(c, "/internal/projects", "success", "Project deleted.")
}

// BriefPDF streams a one-page gofpdf brief for the project.
func (h *ProjectHandler) BriefPDF(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c.Param("id"))
	if !ok {
		redirectWithFlash(c, "/internal/projects", "danger", "Invalid project id.")
		return
	}
	project, err := h.Projects.FindByID(ctx, id)
	if err != nil || project == nil {
		redirectWithFlash(c, "/internal/projects", "danger", "Project not found.")
		return
	}

	data := pdf.BriefData{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Stage:       project.Stage,
		Status:      project.Status,
		Industry:    services.CategoryLabel(project.IndustryCategory),
		Summary:     project.Summary,
		DueDate:     project.DueDate,
		CreatedAt:   project.CreatedAt,
		GeneratedAt: time.Now(),
	}
	if client, err := h.Clients.FindByID(ctx, project.ClientID); err == nil && client != nil {
		data.ClientName = client.Name
	}
	if project.OwnerID != nil {
		if owner, err := h.Users.FindByID(ctx, *project.OwnerID); err == nil && owner != nil {
			data.OwnerName = owner.Name
		}
	}
	tasks, err := h.Tasks.FindAll(ctx, models.TaskFilter{ProjectID: &project.ID})
	if err == nil {
		for _, task := range tasks {
			if task.Status == models.StatusDone {
				data.DoneTasks++
			} else {
				data.OpenTasks++
			}
		}
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf("inline; filename=\"project_brief_%d.pdf\"", project.ID))
	if err := h.Brief.GenerateBrief(c.Writer, data); err != nil {
		log.Printf("[project][brief][err] id=%d err=%v", id, err)
	}
}

func formFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
