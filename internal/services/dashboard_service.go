package services

import (
	"context"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

// DashboardSummary is the internal landing page payload: headline counts plus
// the top of the priority queue ("operational priorities").
type DashboardSummary struct {
	Clients    int           `json:"clients"`
	Projects   int           `json:"projects"`
	OpenTasks  int           `json:"open_tasks"`
	Resources  int           `json:"resources"`
	Priorities []models.Task `json:"priorities"`
}

type DashboardService struct {
	clients   repositories.ClientRepository
	projects  repositories.ProjectRepository
	tasks     repositories.TaskRepository
	resources repositories.ResourceRepository
	queueSize int
}

func NewDashboardService(
	clients repositories.ClientRepository,
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	resources repositories.ResourceRepository,
) *DashboardService {
	return &DashboardService{
		clients:   clients,
		projects:  projects,
		tasks:     tasks,
		resources: resources,
		queueSize: 5,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	var err error
	if summary.Clients, err = s.clients.Count(ctx); err != nil {
		return nil, err
	}
	if summary.Projects, err = s.projects.Count(ctx); err != nil {
		return nil, err
	}
	if summary.OpenTasks, err = s.tasks.CountOpen(ctx); err != nil {
		return nil, err
	}
	if summary.Resources, err = s.resources.Count(ctx); err != nil {
		return nil, err
	}

	open, err := s.tasks.FindAll(ctx, models.TaskFilter{ExcludeDone: true})
	if err != nil {
		return nil, err
	}
	queue := PriorityQueue(open)
	if len(queue) > s.queueSize {
		queue = queue[:s.queueSize]
	}
	summary.Priorities = queue
	return summary, nil
}
