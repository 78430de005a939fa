package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"elfportal/internal/models"
)

type StarterPlanRepository interface {
	Find(ctx context.Context, name string) (*models.StarterPlanTemplate, error)
	Save(ctx context.Context, tpl *models.StarterPlanTemplate) error
}

type starterPlanRepository struct {
	db DBTX
}

func NewStarterPlanRepository(db DBTX) StarterPlanRepository {
	return &starterPlanRepository{db: db}
}

func (r *starterPlanRepository) Find(ctx context.Context, name string) (*models.StarterPlanTemplate, error) {
	tpl := &models.StarterPlanTemplate{}
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, template_json, updated_by_id, updated_at
		 FROM starter_plan_templates WHERE name = $1`, name,
	).Scan(&tpl.ID, &tpl.Name, &raw, &tpl.UpdatedByID, &tpl.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &tpl.Phases); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (r *starterPlanRepository) Save(ctx context.Context, tpl *models.StarterPlanTemplate) error {
	raw, err := json.Marshal(tpl.Phases)
	if err != nil {
		return err
	}
	if tpl.UpdatedAt.IsZero() {
		tpl.UpdatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE starter_plan_templates
		 SET template_json = $1, updated_by_id = $2, updated_at = $3
		 WHERE name = $4`,
		string(raw), tpl.UpdatedByID, tpl.UpdatedAt, tpl.Name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO starter_plan_templates (name, template_json, updated_by_id, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		tpl.Name, string(raw), tpl.UpdatedByID, tpl.UpdatedAt,
	).Scan(&tpl.ID)
}
