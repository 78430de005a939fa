package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func newProjectService(t *testing.T) (*ProjectService, *testEnv) {
	t.Helper()
	conn := newTestDB(t)
	ctx := context.Background()

	plans := repositories.NewStarterPlanRepository(conn)
	if err := plans.Save(ctx, &models.StarterPlanTemplate{
		Name:      "default",
		Phases:    testPhases(),
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed starter plan: %v", err)
	}

	svc := NewProjectService(conn,
		repositories.NewProjectRepository(conn),
		repositories.NewClientRepository(conn),
		plans, "default")

	env := &testEnv{
		tasks: repositories.NewTaskRepository(conn),
		user:  createTestUser(t, conn, "Owner", "owner@elf-ai.co.za"),
	}
	client := &models.Client{Name: "Existing client", Status: "active", CreatedAt: time.Now().UTC()}
	if err := repositories.NewClientRepository(conn).Store(ctx, client); err != nil {
		t.Fatalf("store client: %v", err)
	}
	env.client = client
	return svc, env
}

type testEnv struct {
	tasks  repositories.TaskRepository
	user   *models.User
	client *models.Client
}

func TestCreateProjectWithStarterPlan(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		Name:        "Transcription rollout",
		ClientMode:  "existing",
		ClientID:    env.client.ID,
		StarterPlan: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if project.DueDate == nil {
		t.Fatal("project due date not set")
	}
	wantDue := time.Now().UTC().AddDate(0, 0, DefaultTimelineDays)
	if got := project.DueDate.Format("2006-01-02"); got != wantDue.Format("2006-01-02") {
		t.Errorf("default timeline due date: got %s, want %s", got, wantDue.Format("2006-01-02"))
	}
	if project.OwnerID == nil || *project.OwnerID != env.user.ID {
		t.Errorf("owner defaults to the creating user: got %v, want %d", project.OwnerID, env.user.ID)
	}

	tasks, err := env.tasks.FindAll(ctx, models.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}

	var parents, children []models.Task
	for _, task := range tasks {
		if task.ParentTaskID == nil {
			parents = append(parents, task)
		} else {
			children = append(children, task)
		}
	}
	if len(parents) != 4 {
		t.Fatalf("phase tasks: got %d, want 4", len(parents))
	}
	if len(children) != 8 {
		t.Fatalf("milestone tasks: got %d, want 8", len(children))
	}
	for _, task := range tasks {
		if task.DueDate == nil {
			t.Fatalf("task %q has no due date", task.Title)
		}
		if task.DueDate.After(*project.DueDate) {
			t.Errorf("task %q due %v exceeds project due %v", task.Title, task.DueDate, project.DueDate)
		}
		if task.Status != models.StatusTodo {
			t.Errorf("task %q status: got %q, want %q", task.Title, task.Status, models.StatusTodo)
		}
	}
}

func TestCreateProjectWithoutStarterPlan(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		Name:       "No plan",
		ClientMode: "existing",
		ClientID:   env.client.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, err := env.tasks.FindAll(ctx, models.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks without starter plan: got %d, want 0", len(tasks))
	}
}

func TestCreateProjectInlineClient(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)

	project, err := svc.Create(context.Background(), ident(env.user), CreateProjectInput{
		Name:       "Inline",
		ClientMode: "new",
		NewClient:  models.Client{Name: "Fresh Legal"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.ClientID == 0 || project.ClientID == env.client.ID {
		t.Errorf("inline client: got client_id %d, want a newly created client", project.ClientID)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		ClientMode: "existing", ClientID: env.client.ID,
	}); !errors.Is(err, ErrProjectNameRequired) {
		t.Errorf("missing name: got %v, want ErrProjectNameRequired", err)
	}

	if _, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		Name: "X", ClientMode: "existing",
	}); !errors.Is(err, ErrClientRequired) {
		t.Errorf("missing client: got %v, want ErrClientRequired", err)
	}

	if _, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		Name: "X", ClientMode: "new",
	}); !errors.Is(err, ErrClientRequired) {
		t.Errorf("empty inline client: got %v, want ErrClientRequired", err)
	}
}

func TestUpdateStarterTemplateValidation(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		phases []models.StarterPhase
	}{
		{"empty", nil},
		{"unnamed phase", []models.StarterPhase{{Milestones: []models.StarterMilestone{{Title: "m", Percent: 10}}}}},
		{"no milestones", []models.StarterPhase{{Title: "p"}}},
		{"percent out of range", []models.StarterPhase{{Title: "p", Milestones: []models.StarterMilestone{{Title: "m", Percent: 120}}}}},
	}
	for _, tc := range cases {
		if err := svc.UpdateStarterTemplate(ctx, ident(env.user), tc.phases); !errors.Is(err, ErrBadStarterTemplate) {
			t.Errorf("%s: got %v, want ErrBadStarterTemplate", tc.name, err)
		}
	}

	good := []models.StarterPhase{{Title: "Only phase", Milestones: []models.StarterMilestone{{Title: "Wrap", Percent: 100}}}}
	if err := svc.UpdateStarterTemplate(ctx, ident(env.user), good); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	tpl, err := svc.StarterTemplate(ctx)
	if err != nil {
		t.Fatalf("StarterTemplate: %v", err)
	}
	if len(tpl.Phases) != 1 || tpl.Phases[0].Title != "Only phase" {
		t.Errorf("template round-trip: got %+v", tpl.Phases)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	t.Parallel()
	svc, env := newProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, ident(env.user), CreateProjectInput{
		Name:        "Doomed",
		ClientMode:  "existing",
		ClientID:    env.client.ID,
		StarterPlan: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	tasks, err := env.tasks.FindAll(ctx, models.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks after cascade delete: got %d, want 0", len(tasks))
	}

	if err := svc.Delete(ctx, project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("double delete: got %v, want ErrProjectNotFound", err)
	}
}
