package repositories

import (
	"context"
	"database/sql"

	"elfportal/internal/models"
)

type ProjectRepository interface {
	Store(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindByName(ctx context.Context, name string) (*models.Project, error)
	List(ctx context.Context, clientID *int64) ([]models.Project, error)
	ListRefs(ctx context.Context) ([]models.ProjectRef, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type projectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, client_id, owner_id, stage, status, summary, industry_category, due_date, created_at`

func (r *projectRepository) Store(ctx context.Context, project *models.Project) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO projects (name, client_id, owner_id, stage, status, summary, industry_category, due_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		project.Name, project.ClientID, project.OwnerID, project.Stage, project.Status,
		project.Summary, project.IndustryCategory, project.DueDate, project.CreatedAt,
	).Scan(&project.ID)
}

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ID, &p.Name, &p.ClientID, &p.OwnerID, &p.Stage, &p.Status,
		&p.Summary, &p.IndustryCategory, &p.DueDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *projectRepository) FindByName(ctx context.Context, name string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *projectRepository) List(ctx context.Context, clientID *int64) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if clientID != nil {
		query += ` WHERE client_id = $1`
		args = append(args, *clientID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) ListRefs(ctx context.Context) ([]models.ProjectRef, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.ProjectRef
	for rows.Next() {
		var ref models.ProjectRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Delete removes the project; tasks and the project channel go with it via
// ON DELETE CASCADE.
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}
