package repositories

import (
	"context"
	"database/sql"

	"elfportal/internal/models"
)

// SiteRepository serves the seeded marketing content for the public pages.
type SiteRepository interface {
	Branding(ctx context.Context) (*models.Branding, error)
	HeadingByTitle(ctx context.Context, title string) (*models.PageHeading, error)
	Services(ctx context.Context) ([]models.SiteService, error)
	ServiceByID(ctx context.Context, id int64) (*models.SiteService, error)
	SlidesByOwner(ctx context.Context, owner string) ([]models.Slide, error)
}

type siteRepository struct {
	db DBTX
}

func NewSiteRepository(db DBTX) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Branding(ctx context.Context) (*models.Branding, error) {
	b := &models.Branding{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, slogan, tagline FROM branding ORDER BY id LIMIT 1`,
	).Scan(&b.ID, &b.Title, &b.Slogan, &b.Tagline)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *siteRepository) HeadingByTitle(ctx context.Context, title string) (*models.PageHeading, error) {
	h := &models.PageHeading{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, slogan_1, slogan_2, tagline FROM page_headings WHERE title = $1`, title,
	).Scan(&h.ID, &h.Title, &h.Slogan1, &h.Slogan2, &h.Tagline)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *siteRepository) Services(ctx context.Context) ([]models.SiteService, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, icon FROM site_services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.SiteService
	byID := map[int64]int{}
	for rows.Next() {
		var s models.SiteService
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Icon); err != nil {
			return nil, err
		}
		byID[s.ID] = len(services)
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	featRows, err := r.db.QueryContext(ctx,
		`SELECT id, service_id, text FROM site_features ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer featRows.Close()

	for featRows.Next() {
		var f models.Feature
		if err := featRows.Scan(&f.ID, &f.ServiceID, &f.Text); err != nil {
			return nil, err
		}
		if i, ok := byID[f.ServiceID]; ok {
			services[i].Features = append(services[i].Features, f)
		}
	}
	return services, featRows.Err()
}

func (r *siteRepository) ServiceByID(ctx context.Context, id int64) (*models.SiteService, error) {
	s := &models.SiteService{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, icon FROM site_services WHERE id = $1`, id,
	).Scan(&s.ID, &s.Title, &s.Description, &s.Icon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *siteRepository) SlidesByOwner(ctx context.Context, owner string) ([]models.Slide, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, owner, icon FROM slides WHERE owner = $1 ORDER BY id`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []models.Slide
	for rows.Next() {
		var s models.Slide
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Owner, &s.Icon); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}
