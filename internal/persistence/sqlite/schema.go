package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type migration struct {
	version     string
	description string
	statements  []string
}

// migrations are applied in order and recorded in schema_migrations.
var migrations = []migration{
	{
		version:     "001",
		description: "session fields",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS session_fields (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				sealed INTEGER NOT NULL DEFAULT 0 CHECK (sealed IN (0, 1)),
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version:     "002",
		description: "store metadata",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS store_meta (
				name TEXT PRIMARY KEY,
				value BLOB NOT NULL
			)`,
		},
	},
}

// Migrate creates or upgrades the schema.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	const versionTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`
	if _, err := pool.db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
			if err == nil {
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("check version: %w", err)
			}
			for i, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, strings.TrimSpace(stmt)); err != nil {
					return fmt.Errorf("execute statement %d: %w", i+1, err)
				}
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
				m.version, m.description, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.version, m.description, err)
		}
	}
	return nil
}

// AppliedVersions lists recorded schema versions in order.
func AppliedVersions(ctx context.Context, pool *ConnectionPool) ([]string, error) {
	rows, err := pool.db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("list applied versions: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied version: %w", err)
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}
