package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema additively: CREATE TABLE IF NOT EXISTS for every
// table, then ADD COLUMN for columns introduced after a table first shipped.
// Running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	tables := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS clients (
			id %s,
			name TEXT NOT NULL,
			industry TEXT NOT NULL DEFAULT '',
			account_owner TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS projects (
			id %s,
			name TEXT NOT NULL,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			owner_id BIGINT REFERENCES users(id),
			stage TEXT NOT NULL DEFAULT 'discovery',
			status TEXT NOT NULL DEFAULT 'on-track',
			summary TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			assignee TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'todo',
			due_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS resources (
			id %s,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS resource_tags (
			id %s,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		`CREATE TABLE IF NOT EXISTS resource_project_links (
			resource_id BIGINT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			PRIMARY KEY (resource_id, project_id)
		)`,
		`CREATE TABLE IF NOT EXISTS resource_task_links (
			resource_id BIGINT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			PRIMARY KEY (resource_id, task_id)
		)`,
		`CREATE TABLE IF NOT EXISTS resource_tag_links (
			resource_id BIGINT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			tag_id BIGINT NOT NULL REFERENCES resource_tags(id) ON DELETE CASCADE,
			PRIMARY KEY (resource_id, tag_id)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS message_channels (
			id %s,
			channel_type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			project_id BIGINT REFERENCES projects(id) ON DELETE CASCADE,
			direct_user_low_id BIGINT REFERENCES users(id),
			direct_user_high_id BIGINT REFERENCES users(id),
			created_by_id BIGINT REFERENCES users(id),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (project_id),
			UNIQUE (direct_user_low_id, direct_user_high_id)
		)`, pk),
		`CREATE TABLE IF NOT EXISTS channel_members (
			channel_id BIGINT NOT NULL REFERENCES message_channels(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			PRIMARY KEY (channel_id, user_id)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS messages (
			id %s,
			channel_id BIGINT NOT NULL REFERENCES message_channels(id) ON DELETE CASCADE,
			sender_id BIGINT NOT NULL REFERENCES users(id),
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS starter_plan_templates (
			id %s,
			name TEXT NOT NULL UNIQUE,
			template_json TEXT NOT NULL,
			updated_by_id BIGINT REFERENCES users(id),
			updated_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS site_services (
			id %s,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			icon TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS site_features (
			id %s,
			service_id BIGINT NOT NULL REFERENCES site_services(id) ON DELETE CASCADE,
			text TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS slides (
			id %s,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			owner TEXT NOT NULL,
			icon TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS branding (
			id %s,
			title TEXT NOT NULL,
			slogan TEXT NOT NULL,
			tagline TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS page_headings (
			id %s,
			title TEXT NOT NULL,
			slogan_1 TEXT NOT NULL,
			slogan_2 TEXT NOT NULL,
			tagline TEXT NOT NULL
		)`, pk),
	}

	for _, stmt := range tables {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the tables first shipped.
	addedColumns := []struct {
		table, column, decl string
	}{
		{"tasks", "parent_task_id", "BIGINT REFERENCES tasks(id) ON DELETE CASCADE"},
		{"projects", "industry_category", "TEXT NOT NULL DEFAULT 'general'"},
	}
	for _, ac := range addedColumns {
		if err := ensureColumn(ctx, conn, ac.table, ac.column, ac.decl); err != nil {
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS ix_tasks_project_id ON tasks (project_id)`,
		`CREATE INDEX IF NOT EXISTS ix_message_channels_type ON message_channels (channel_type)`,
		`CREATE INDEX IF NOT EXISTS ix_messages_channel_created ON messages (channel_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS ix_resource_tags_name ON resource_tags (name)`,
	}
	for _, stmt := range indexes {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func ensureColumn(ctx context.Context, conn *sql.DB, table, column, decl string) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists") {
			return nil
		}
		return fmt.Errorf("migrate: add %s.%s: %w", table, column, err)
	}
	return nil
}
