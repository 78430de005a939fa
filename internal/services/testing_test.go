package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"elfportal/internal/config"
	"elfportal/internal/db"
	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
// Every test gets its own database, so tests stay independent.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn, "sqlite"); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func createTestUser(t *testing.T, conn *sql.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repositories.NewUserRepository(conn).Store(context.Background(), user); err != nil {
		t.Fatalf("store user %s: %v", email, err)
	}
	return user
}

func createTestProject(t *testing.T, conn *sql.DB, name string) *models.Project {
	t.Helper()
	ctx := context.Background()
	client := &models.Client{Name: name + " client", Status: "active", CreatedAt: time.Now().UTC()}
	if err := repositories.NewClientRepository(conn).Store(ctx, client); err != nil {
		t.Fatalf("store client: %v", err)
	}
	project := &models.Project{
		Name:             name,
		ClientID:         client.ID,
		Stage:            "discovery",
		Status:           "on-track",
		IndustryCategory: "general",
		CreatedAt:        time.Now().UTC(),
	}
	if err := repositories.NewProjectRepository(conn).Store(ctx, project); err != nil {
		t.Fatalf("store project: %v", err)
	}
	return project
}
