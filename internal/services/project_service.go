package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrClientRequired      = errors.New("select an existing client or provide a new one")
	ErrProjectNotFound     = errors.New("project not found")
)

// DefaultTimelineDays is the project timeline when the form leaves it blank.
const DefaultTimelineDays = 45

// CreateProjectInput carries the add-project form. ClientMode selects between
// an existing client id and inline client creation.
type CreateProjectInput struct {
	Name             string
	ClientMode       string // existing | new
	ClientID         int64
	NewClient        models.Client
	OwnerID          *int64 // nil means the creating user ("self")
	Stage            string
	Status           string
	Summary          string
	IndustryCategory string
	TimelineDays     int
	StarterPlan      bool
}

type ProjectService struct {
	conn     *sql.DB
	projects repositories.ProjectRepository
	clients  repositories.ClientRepository
	plans    repositories.StarterPlanRepository
	planName string
}

func NewProjectService(
	conn *sql.DB,
	projects repositories.ProjectRepository,
	clients repositories.ClientRepository,
	plans repositories.StarterPlanRepository,
	planName string,
) *ProjectService {
	return &ProjectService{conn: conn, projects: projects, clients: clients, plans: plans, planName: planName}
}

// Create validates the form, then creates the project in a single
// transaction, including the inline client and starter-plan tasks
// when requested.
func (s *ProjectService) Create(ctx context.Context, ident models.Identity, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	mode := strings.TrimSpace(input.ClientMode)
	if mode == "" {
		mode = "existing"
	}
	if mode == "existing" && input.ClientID == 0 {
		return nil, ErrClientRequired
	}
	if mode == "new" && strings.TrimSpace(input.NewClient.Name) == "" {
		return nil, ErrClientRequired
	}

	var plan *models.StarterPlanTemplate
	if input.StarterPlan {
		tpl, err := s.plans.Find(ctx, s.planName)
		if err != nil {
			return nil, err
		}
		plan = tpl
	}

	timelineDays := input.TimelineDays
	if timelineDays <= 0 {
		timelineDays = DefaultTimelineDays
	}
	now := time.Now().UTC()
	due := truncateDay(now.AddDate(0, 0, timelineDays))

	ownerID := input.OwnerID
	if ownerID == nil {
		ownerID = &ident.UserID
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	clientID := input.ClientID
	if mode == "new" {
		client := input.NewClient
		client.Name = strings.TrimSpace(client.Name)
		if client.Status == "" {
			client.Status = "active"
		}
		client.CreatedAt = now
		if err := repositories.NewClientRepository(tx).Store(ctx, &client); err != nil {
			return nil, err
		}
		clientID = client.ID
	} else {
		client, err := repositories.NewClientRepository(tx).FindByID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, ErrClientRequired
		}
	}

	industry := Normalize(input.IndustryCategory)
	if industry == "" {
		industry = "general"
	}
	project := &models.Project{
		Name:             name,
		ClientID:         clientID,
		OwnerID:          ownerID,
		Stage:            strings.TrimSpace(input.Stage),
		Status:           strings.TrimSpace(input.Status),
		Summary:          strings.TrimSpace(input.Summary),
		IndustryCategory: industry,
		DueDate:          &due,
		CreatedAt:        now,
	}
	if err := repositories.NewProjectRepository(tx).Store(ctx, project); err != nil {
		return nil, err
	}

	if plan != nil {
		if err := storeStarterPlan(ctx, tx, project, plan.Phases, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Printf("[project][create][ok] id=%d name=%q client_id=%d starter_plan=%t",
		project.ID, project.Name, project.ClientID, plan != nil)
	return project, nil
}

func storeStarterPlan(ctx context.Context, tx *sql.Tx, project *models.Project, phases []models.StarterPhase, now time.Time) error {
	tasks := repositories.NewTaskRepository(tx)
	for _, planned := range GenerateStarterPlan(phases, now, *project.DueDate) {
		parentDue := planned.DueDate
		parent := &models.Task{
			ProjectID: project.ID,
			Title:     planned.Title,
			Priority:  planned.Priority,
			Status:    models.StatusTodo,
			DueDate:   &parentDue,
			CreatedAt: now,
		}
		if err := tasks.Store(ctx, parent); err != nil {
			return err
		}
		for _, milestone := range planned.Milestones {
			milestoneDue := milestone.DueDate
			child := &models.Task{
				ProjectID:    project.ID,
				ParentTaskID: &parent.ID,
				Title:        milestone.Title,
				Priority:     milestone.Priority,
				Status:       models.StatusTodo,
				DueDate:      &milestoneDue,
				CreatedAt:    now,
			}
			if err := tasks.Store(ctx, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ProjectService) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, clientID *int64) ([]models.Project, error) {
	return s.projects.List(ctx, clientID)
}

var ErrBadStarterTemplate = errors.New("starter plan template is invalid")

func (s *ProjectService) StarterTemplate(ctx context.Context) (*models.StarterPlanTemplate, error) {
	return s.plans.Find(ctx, s.planName)
}

// UpdateStarterTemplate replaces the configured phase breakdown. Percentages
// are configuration, so validation only enforces shape: named phases, named
// milestones, percents within 0..100.
func (s *ProjectService) UpdateStarterTemplate(ctx context.Context, ident models.Identity, phases []models.StarterPhase) error {
	if len(phases) == 0 {
		return ErrBadStarterTemplate
	}
	for _, phase := range phases {
		if strings.TrimSpace(phase.Title) == "" || len(phase.Milestones) == 0 {
			return ErrBadStarterTemplate
		}
		for _, m := range phase.Milestones {
			if strings.TrimSpace(m.Title) == "" || m.Percent < 0 || m.Percent > 100 {
				return ErrBadStarterTemplate
			}
		}
	}
	return s.plans.Save(ctx, &models.StarterPlanTemplate{
		Name:        s.planName,
		Phases:      phases,
		UpdatedByID: &ident.UserID,
		UpdatedAt:   time.Now().UTC(),
	})
}

// Delete removes the project; tasks and the project channel cascade away.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	return s.projects.Delete(ctx, id)
}
