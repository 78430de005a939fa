package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"elfportal/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindByTitle(ctx context.Context, title string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	UpdatePriority(ctx context.Context, id int64, to models.TaskPriority) error
	CountOpen(ctx context.Context) (int, error)
}

type taskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, parent_task_id, title, assignee, priority, status, due_date, created_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (project_id, parent_task_id, title, assignee, priority, status, due_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		task.ProjectID, task.ParentTaskID, task.Title, task.Assignee,
		task.Priority, task.Status, task.DueDate, task.CreatedAt,
	).Scan(&task.ID)
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.ProjectID, &t.ParentTaskID, &t.Title, &t.Assignee,
		&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *taskRepository) FindByTitle(ctx context.Context, title string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE LOWER(title) = LOWER($1) ORDER BY id LIMIT 1`, title))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argID))
		args = append(args, *filter.ProjectID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.ExcludeDone {
		conditions = append(conditions, fmt.Sprintf("status <> $%d", argID))
		args = append(args, models.StatusDone)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, to, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *taskRepository) UpdatePriority(ctx context.Context, id int64, to models.TaskPriority) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET priority = $1 WHERE id = $2`, to, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *taskRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status <> $1`, models.StatusDone).Scan(&n)
	return n, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
