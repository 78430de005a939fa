package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func TestOmnibarQuickTargets(t *testing.T) {
	t.Parallel()
	svc := NewOmnibarService(nil, nil) // quick targets never touch the repos

	cases := []struct {
		q, want string
	}{
		{"projects", "/internal/projects"},
		{"  Dashboard ", "/internal/dashboard"},
		{"TODOS", "/internal/todos"},
		{"tasks", "/internal/todos"},
		{"messages", "/internal/messages"},
	}
	for _, tc := range cases {
		target, ok, err := svc.Resolve(context.Background(), tc.q)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.q, err)
		}
		if !ok || target != tc.want {
			t.Errorf("Resolve(%q): got (%q,%t), want (%q,true)", tc.q, target, ok, tc.want)
		}
	}
}

func TestOmnibarProjectAndTaskPrefixes(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	project := createTestProject(t, conn, "Test Internal Project")
	task := &models.Task{
		ProjectID: project.ID,
		Title:     "Prepare weekly update",
		Priority:  models.PriorityMedium,
		Status:    models.StatusTodo,
		CreatedAt: time.Now().UTC(),
	}
	if err := repositories.NewTaskRepository(conn).Store(ctx, task); err != nil {
		t.Fatalf("store task: %v", err)
	}

	svc := NewOmnibarService(
		repositories.NewProjectRepository(conn),
		repositories.NewTaskRepository(conn))

	target, ok, err := svc.Resolve(ctx, "project: Test Internal Project")
	if err != nil || !ok {
		t.Fatalf("project prefix: got (%q,%t,%v)", target, ok, err)
	}
	if want := fmt.Sprintf("/internal/todos?view=nested&project_id=%d", project.ID); target != want {
		t.Errorf("project prefix target: got %q, want %q", target, want)
	}

	target, ok, err = svc.Resolve(ctx, "task: Prepare weekly update")
	if err != nil || !ok {
		t.Fatalf("task prefix: got (%q,%t,%v)", target, ok, err)
	}
	if want := fmt.Sprintf("/internal/todos?view=priority&project_id=%d", project.ID); target != want {
		t.Errorf("task prefix target: got %q, want %q", target, want)
	}
}

func TestOmnibarNoMatch(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewOmnibarService(
		repositories.NewProjectRepository(conn),
		repositories.NewTaskRepository(conn))

	for _, q := range []string{"not-a-real-internal-destination", "project: nope", "task: nope", ""} {
		target, ok, err := svc.Resolve(context.Background(), q)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", q, err)
		}
		if ok {
			t.Errorf("Resolve(%q): unexpectedly matched %q", q, target)
		}
	}
}
