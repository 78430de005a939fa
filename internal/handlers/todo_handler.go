package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
	"elfportal/internal/services"
)

type TodoHandler struct {
	Tasks    services.TaskService
	Projects repositories.ProjectRepository
	Notify   *services.Notifier
}

func NewTodoHandler(tasks services.TaskService, projects repositories.ProjectRepository, notify *services.Notifier) *TodoHandler {
	return &TodoHandler{Tasks: tasks, Projects: projects, Notify: notify}
}

// todosURL rebuilds the board URL so redirects land on the same view and
// project scope the user was looking at.
func todosURL(view string, projectID *int64) string {
	if view != "priority" {
		view = "nested"
	}
	url := "/internal/todos?view=" + view
	if projectID != nil {
		url += fmt.Sprintf("&project_id=%d", *projectID)
	}
	return url
}

func (h *TodoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	view := c.DefaultQuery("view", "nested")
	projectID := optionalID(c.Query("project_id"))

	refs, err := h.Projects.ListRefs(ctx)
	if err != nil {
		log.Printf("[todo][list][err] projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the board"})
		return
	}

	payload := gin.H{
		"page":       "Nested To-Do Board",
		"view":       view,
		"project_id": projectID,
		"projects":   refs,
		"flash":      popFlash(c),
	}
	if view == "priority" {
		queue, err := h.Tasks.Queue(ctx, projectID)
		if err != nil {
			log.Printf("[todo][list][err] queue: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the board"})
			return
		}
		payload["page"] = "Priority Queue"
		payload["queue"] = queue
	} else {
		board, err := h.Tasks.NestedBoard(ctx, projectID)
		if err != nil {
			log.Printf("[todo][list][err] board: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the board"})
			return
		}
		payload["board"] = board
	}
	c.JSON(http.StatusOK, payload)
}

func (h *TodoHandler) Add(c *gin.Context) {
	view := c.PostForm("view_mode")
	projectID, okProject := parseID(c.PostForm("project_id"))
	back := todosURL(view, optionalID(c.PostForm("project_id")))
	if !okProject {
		redirectWithFlash(c, back, "danger", "Pick a project for the task.")
		return
	}

	task := &models.Task{
		ProjectID:    projectID,
		ParentTaskID: optionalID(c.PostForm("parent_task_id")),
		Title:        strings.TrimSpace(c.PostForm("title")),
		Assignee:     strings.TrimSpace(c.PostForm("assignee")),
		Priority:     models.TaskPriority(strings.TrimSpace(c.PostForm("priority"))),
		Status:       models.TaskStatus(strings.TrimSpace(c.PostForm("status"))),
	}
	if task.Title == "" {
		redirectWithFlash(c, back, "danger", "Task title is required.")
		return
	}
	if raw := strings.TrimSpace(c.PostForm("due_date")); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			redirectWithFlash(c, back, "danger", "Due date must be YYYY-MM-DD.")
			return
		}
		task.DueDate = &due
	}

	created, err := h.Tasks.Create(c.Request.Context(), task)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParentWrongProject):
			redirectWithFlash(c, back, "danger", "Parent task must belong to the same project.")
		case errors.Is(err, services.ErrTaskCycle):
			redirectWithFlash(c, back, "danger", "That parent would create a cycle.")
		case errors.Is(err, services.ErrInvalidTransition):
			redirectWithFlash(c, back, "danger", "Unknown status or priority value.")
		case errors.Is(err, services.ErrProjectNotFound):
			redirectWithFlash(c, back, "danger", "Project not found.")
		default:
			log.Printf("[todo][add][err] %v", err)
			redirectWithFlash(c, back, "danger", "Failed to create the task.")
		}
		return
	}

	if created.Assignee != "" {
		project, _ := h.Projects.FindByID(c.Request.Context(), created.ProjectID)
		h.Notify.TaskAssigned(created, project)
	}
	redirectWithFlash(c, back, "success", "Task added.")
}

func (h *TodoHandler) UpdateStatus(c *gin.Context) {
	h.mutate(c, func(id int64) error {
		return h.Tasks.UpdateStatus(c.Request.Context(), id,
			models.TaskStatus(strings.TrimSpace(c.PostForm("status"))))
	}, "Status updated.")
}

func (h *TodoHandler) UpdatePriority(c *gin.Context) {
	h.mutate(c, func(id int64) error {
		return h.Tasks.UpdatePriority(c.Request.Context(), id,
			models.TaskPriority(strings.TrimSpace(c.PostForm("priority"))))
	}, "Priority updated.")
}

func (h *TodoHandler) mutate(c *gin.Context, apply func(id int64) error, okMessage string) {
	back := todosURL(c.PostForm("view_mode"), optionalID(c.PostForm("project_id")))
	id, ok := parseID(c.Param("id"))
	if !ok {
		redirectWithFlash(c, back, "danger", "Invalid task id.")
		return
	}
	if err := apply(id); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransition):
			redirectWithFlash(c, back, "danger", "Unknown status or priority value.")
		case errors.Is(err, services.ErrTaskNotFound):
			redirectWithFlash(c, back, "danger", "Task not found.")
		default:
			log.Printf("[todo][update][err] id=%d err=%v", id, err)
			redirectWithFlash(c, back, "danger", "Failed to update the task.")
		}
		return
	}
	redirectWithFlash(c, back, "success", okMessage)
}
