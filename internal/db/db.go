package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"elfportal/internal/config"
)

// Open connects using the configured driver. SQLite is the development and
// test database, Postgres the production one; all SQL in the repositories is
// written to the subset both accept ($N placeholders, RETURNING).
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "sqlite", "sqlite3":
		dsn := cfg.DSN
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
		conn, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		// one writer; sqlite does not take concurrent write connections well
		conn.SetMaxOpenConns(1)
		return conn, nil
	case "postgres":
		return sql.Open("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// IsUniqueViolation reports whether err is a unique-constraint violation on
// either driver. Callers racing on the direct-channel pair or the
// project↔channel link treat this as "retry the lookup", not a failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
