package repositories

import (
	"context"
	"database/sql"

	"elfportal/internal/models"
)

type ResourceRepository interface {
	Store(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context) ([]models.Resource, error)
	EnsureTag(ctx context.Context, name string) (int64, error)
	LinkProject(ctx context.Context, resourceID, projectID int64) error
	LinkTask(ctx context.Context, resourceID, taskID int64) error
	LinkTag(ctx context.Context, resourceID, tagID int64) error
	Count(ctx context.Context) (int, error)
}

type resourceRepository struct {
	db DBTX
}

func NewResourceRepository(db DBTX) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Store(ctx context.Context, resource *models.Resource) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO resources (title, category, link, description, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		resource.Title, resource.Category, resource.Link, resource.Description, resource.CreatedAt,
	).Scan(&resource.ID)
}

// EnsureTag returns the id of the named tag, creating it if missing. Tag
// names arrive already normalized.
func (r *resourceRepository) EnsureTag(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM resource_tags WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO resource_tags (name, created_at) VALUES ($1, CURRENT_TIMESTAMP) RETURNING id`,
		name).Scan(&id)
	return id, err
}

func (r *resourceRepository) LinkProject(ctx context.Context, resourceID, projectID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resource_project_links (resource_id, project_id) VALUES ($1, $2)`,
		resourceID, projectID)
	return err
}

func (r *resourceRepository) LinkTask(ctx context.Context, resourceID, taskID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resource_task_links (resource_id, task_id) VALUES ($1, $2)`,
		resourceID, taskID)
	return err
}

func (r *resourceRepository) LinkTag(ctx context.Context, resourceID, tagID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resource_tag_links (resource_id, tag_id) VALUES ($1, $2)`,
		resourceID, tagID)
	return err
}

// List loads the whole library with tags and project/task links attached.
// The collection is small; filtering happens in memory in the service.
func (r *resourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, link, description, created_at
		 FROM resources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[int64]*models.Resource{}
	var order []int64
	for rows.Next() {
		res := &models.Resource{}
		if err := rows.Scan(&res.ID, &res.Title, &res.Category, &res.Link, &res.Description, &res.CreatedAt); err != nil {
			return nil, err
		}
		byID[res.ID] = res
		order = append(order, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachProjects(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachTasks(ctx, byID); err != nil {
		return nil, err
	}

	resources := make([]models.Resource, 0, len(order))
	for _, id := range order {
		resources = append(resources, *byID[id])
	}
	return resources, nil
}

func (r *resourceRepository) attachTags(ctx context.Context, byID map[int64]*models.Resource) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.resource_id, t.id, t.name
		 FROM resource_tag_links l JOIN resource_tags t ON t.id = l.tag_id
		 ORDER BY t.name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID int64
		var tag models.Tag
		if err := rows.Scan(&resourceID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		if res, ok := byID[resourceID]; ok {
			res.Tags = append(res.Tags, tag)
		}
	}
	return rows.Err()
}

func (r *resourceRepository) attachProjects(ctx context.Context, byID map[int64]*models.Resource) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.resource_id, p.id, p.name
		 FROM resource_project_links l JOIN projects p ON p.id = l.project_id
		 ORDER BY p.name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID int64
		var ref models.ProjectRef
		if err := rows.Scan(&resourceID, &ref.ID, &ref.Name); err != nil {
			return err
		}
		if res, ok := byID[resourceID]; ok {
			res.Projects = append(res.Projects, ref)
		}
	}
	return rows.Err()
}

func (r *resourceRepository) attachTasks(ctx context.Context, byID map[int64]*models.Resource) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.resource_id, t.id, t.project_id, t.title
		 FROM resource_task_links l JOIN tasks t ON t.id = l.task_id
		 ORDER BY t.title`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID int64
		var ref models.TaskRef
		if err := rows.Scan(&resourceID, &ref.ID, &ref.ProjectID, &ref.Title); err != nil {
			return err
		}
		if res, ok := byID[resourceID]; ok {
			res.Tasks = append(res.Tasks, ref)
		}
	}
	return rows.Err()
}

func (r *resourceRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n)
	return n, err
}
