package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
	"elfportal/internal/services"
)

// maxUploadBytes caps library uploads at 16 MiB.
const maxUploadBytes = 16 << 20

type ResourceHandler struct {
	Resources *services.ResourceService
	Projects  repositories.ProjectRepository
	Tasks     repositories.TaskRepository
}

func NewResourceHandler(resources *services.ResourceService, projects repositories.ProjectRepository, tasks repositories.TaskRepository) *ResourceHandler {
	return &ResourceHandler{Resources: resources, Projects: projects, Tasks: tasks}
}

func (h *ResourceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.ResourceFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Tag:       c.Query("tag"),
		State:     c.Query("state"),
		ProjectID: c.Query("project_id"),
	}
	groups, err := h.Resources.Library(ctx, filter)
	if err != nil {
		log.Printf("[resource][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the library"})
		return
	}
	refs, err := h.Projects.ListRefs(ctx)
	if err != nil {
		log.Printf("[resource][list][err] projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the library"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     "Knowledge Library",
		"groups":   groups,
		"filter":   filter,
		"projects": refs,
		"flash":    popFlash(c),
	})
}

func (h *ResourceHandler) Add(c *gin.Context) {
	input := services.CreateResourceInput{
		Title:       c.PostForm("title"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Link:        c.PostForm("link"),
		Tags:        c.PostForm("tags"),
		ProjectIDs:  parseIDList(c.PostFormArray("project_ids")),
		TaskIDs:     parseIDList(c.PostFormArray("task_ids")),
	}

	if file, err := c.FormFile("file"); err == nil && file != nil {
		if file.Size > maxUploadBytes {
			redirectWithFlash(c, "/internal/resources", "danger", "File is too large (16 MB max).")
			return
		}
		f, err := file.Open()
		if err != nil {
			log.Printf("[resource][add][err] open upload: %v", err)
			redirectWithFlash(c, "/internal/resources", "danger", "Failed to read the upload.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Printf("[resource][add][err] read upload: %v", err)
			redirectWithFlash(c, "/internal/resources", "danger", "Failed to read the upload.")
			return
		}
		input.FileName = file.Filename
		input.FileData = data
	}

	if _, err := h.Resources.Create(c.Request.Context(), input); err != nil {
		switch {
		case errors.Is(err, services.ErrResourceTitleRequired),
			errors.Is(err, services.ErrNoLinkOrFile):
			redirectWithFlash(c, "/internal/resources", "danger", err.Error())
		case errors.Is(err, services.ErrUnsafeLink):
			redirectWithFlash(c, "/internal/resources", "danger", "Links must start with http:// or https://.")
		case errors.Is(err, services.ErrUnsupportedFileType):
			redirectWithFlash(c, "/internal/resources", "danger", "That file type is not allowed.")
		default:
			log.Printf("[resource][add][err] %v", err)
			redirectWithFlash(c, "/internal/resources", "danger", "Failed to save the resource.")
		}
		return
	}
	redirectWithFlash(c, "/internal/resources", "success", "Resource added.")
}

// ServeFile streams a stored upload. Session-gated by the router; the service
// rejects anything that is not a bare file name inside the files root.
func (h *ResourceHandler) ServeFile(c *gin.Context) {
	path, err := h.Resources.OpenFile(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	c.File(path)
}
