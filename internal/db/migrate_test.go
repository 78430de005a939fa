package db

import (
	"context"
	"database/sql"
	"testing"

	"elfportal/internal/config"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := Migrate(context.Background(), conn, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()
	conn := openMigrated(t)

	if err := Migrate(context.Background(), conn, "sqlite"); err != nil {
		t.Fatalf("second migrate run: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	conn := openMigrated(t)
	ctx := context.Background()

	if err := Seed(ctx, conn); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(ctx, conn); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var services int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_services").Scan(&services); err != nil {
		t.Fatalf("count services: %v", err)
	}
	if services != 4 {
		t.Errorf("site services after double seed: got %d, want 4", services)
	}

	var slides int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM slides").Scan(&slides); err != nil {
		t.Fatalf("count slides: %v", err)
	}
	if slides != 7 {
		t.Errorf("slides after double seed: got %d, want 7", slides)
	}

	var plans int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM starter_plan_templates").Scan(&plans); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if plans != 1 {
		t.Errorf("starter plan templates after double seed: got %d, want 1", plans)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()
	conn := openMigrated(t)
	ctx := context.Background()

	insert := `INSERT INTO resource_tags (name, created_at) VALUES ($1, CURRENT_TIMESTAMP)`
	if _, err := conn.ExecContext(ctx, insert, "qa"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := conn.ExecContext(ctx, insert, "qa")
	if err == nil {
		t.Fatal("duplicate insert unexpectedly succeeded")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true, want false")
	}
}
