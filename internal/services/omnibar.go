package services

import (
	"context"
	"fmt"
	"strings"

	"elfportal/internal/repositories"
)

// Quick page targets for the omnibar. Keys are what people type, values are
// where they land.
var omnibarTargets = map[string]string{
	"dashboard": "/internal/dashboard",
	"clients":   "/internal/clients",
	"projects":  "/internal/projects",
	"todos":     "/internal/todos",
	"tasks":     "/internal/todos",
	"resources": "/internal/resources",
	"messages":  "/internal/messages",
	"users":     "/internal/users",
}

// OmnibarTargetNames lists the recognized page names for the no-match hint.
func OmnibarTargetNames() []string {
	return []string{"dashboard", "clients", "projects", "todos", "resources", "messages", "users"}
}

type OmnibarService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
}

func NewOmnibarService(projects repositories.ProjectRepository, tasks repositories.TaskRepository) *OmnibarService {
	return &OmnibarService{projects: projects, tasks: tasks}
}

// Resolve turns an omnibar query into a redirect target. Plain words hit the
// quick-target table; "project: <name>" opens that project's nested board and
// "task: <title>" opens the priority view scoped to the task's project. The
// second return is false when nothing matched.
func (s *OmnibarService) Resolve(ctx context.Context, query string) (string, bool, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", false, nil
	}

	if target, ok := omnibarTargets[strings.ToLower(q)]; ok {
		return target, true, nil
	}

	if name, ok := prefixed(q, "project:"); ok {
		project, err := s.projects.FindByName(ctx, name)
		if err != nil {
			return "", false, err
		}
		if project != nil {
			return fmt.Sprintf("/internal/todos?view=nested&project_id=%d", project.ID), true, nil
		}
		return "", false, nil
	}

	if title, ok := prefixed(q, "task:"); ok {
		task, err := s.tasks.FindByTitle(ctx, title)
		if err != nil {
			return "", false, err
		}
		if task != nil {
			return fmt.Sprintf("/internal/todos?view=priority&project_id=%d", task.ProjectID), true, nil
		}
		return "", false, nil
	}

	return "", false, nil
}

func prefixed(q, prefix string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(q), prefix) {
		return "", false
	}
	rest := strings.TrimSpace(q[len(prefix):])
	return rest, rest != ""
}
