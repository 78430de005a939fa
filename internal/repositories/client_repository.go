package repositories

import (
	"context"
	"database/sql"

	"elfportal/internal/models"
)

type ClientRepository interface {
	Store(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Count(ctx context.Context) (int, error)
}

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Store(ctx context.Context, client *models.Client) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO clients (name, industry, account_owner, status, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		client.Name, client.Industry, client.AccountOwner, client.Status, client.Notes, client.CreatedAt,
	).Scan(&client.ID)
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	c := &models.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, industry, account_owner, status, notes, created_at
		 FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.AccountOwner, &c.Status, &c.Notes, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, industry, account_owner, status, notes, created_at
		 FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.AccountOwner, &c.Status, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}
