package services

import (
	"context"
	"errors"
	"testing"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func newTaskService(t *testing.T) (TaskService, *models.Project, *models.Project) {
	t.Helper()
	conn := newTestDB(t)
	svc := NewTaskService(
		repositories.NewTaskRepository(conn),
		repositories.NewProjectRepository(conn))
	return svc, createTestProject(t, conn, "Alpha"), createTestProject(t, conn, "Beta")
}

func TestCreateTaskDefaults(t *testing.T) {
	t.Parallel()
	svc, alpha, _ := newTaskService(t)

	task, err := svc.Create(context.Background(), &models.Task{
		ProjectID: alpha.ID,
		Title:     "Prepare weekly update",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("default priority: got %q, want %q", task.Priority, models.PriorityMedium)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("default status: got %q, want %q", task.Status, models.StatusTodo)
	}
	if task.ID == 0 {
		t.Error("created task has no id")
	}
}

func TestCreateTaskRejectsCrossProjectParent(t *testing.T) {
	t.Parallel()
	svc, alpha, beta := newTaskService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, &models.Task{ProjectID: alpha.ID, Title: "Parent"})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}

	_, err = svc.Create(ctx, &models.Task{
		ProjectID:    beta.ID,
		ParentTaskID: &parent.ID,
		Title:        "Wrong project child",
	})
	if !errors.Is(err, ErrParentWrongProject) {
		t.Errorf("cross-project parent: got %v, want ErrParentWrongProject", err)
	}
}

func TestCreateTaskRejectsMissingParentAndProject(t *testing.T) {
	t.Parallel()
	svc, alpha, _ := newTaskService(t)
	ctx := context.Background()

	missing := int64(9999)
	if _, err := svc.Create(ctx, &models.Task{
		ProjectID:    alpha.ID,
		ParentTaskID: &missing,
		Title:        "Orphan",
	}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("missing parent: got %v, want ErrTaskNotFound", err)
	}

	if _, err := svc.Create(ctx, &models.Task{
		ProjectID: 9999,
		Title:     "No project",
	}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("missing project: got %v, want ErrProjectNotFound", err)
	}
}

func TestCreateTaskRejectsUnknownValues(t *testing.T) {
	t.Parallel()
	svc, alpha, _ := newTaskService(t)

	_, err := svc.Create(context.Background(), &models.Task{
		ProjectID: alpha.ID,
		Title:     "Bad status",
		Status:    "archived",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown status: got %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusAndPriority(t *testing.T) {
	t.Parallel()
	svc, alpha, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{ProjectID: alpha.ID, Title: "Mutate me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.UpdateStatus(ctx, task.ID, models.StatusDone); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := svc.UpdatePriority(ctx, task.ID, models.PriorityHigh); err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}

	got, err := svc.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != models.StatusDone || got.Priority != models.PriorityHigh {
		t.Errorf("after update: got status=%q priority=%q, want done/high", got.Status, got.Priority)
	}

	if err := svc.UpdateStatus(ctx, task.ID, "archived"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown status value: got %v, want ErrInvalidTransition", err)
	}
	if err := svc.UpdateStatus(ctx, 9999, models.StatusDone); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("missing task: got %v, want ErrTaskNotFound", err)
	}
}
