package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SchemaVersion is bumped whenever a statement is appended to migrations.
const SchemaVersion = 3

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateNormalizeWeekStarts(db); err != nil {
		return fmt.Errorf("normalizing assignment week starts: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_meta (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, fmt.Sprint(SchemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL,
		name        TEXT NOT NULL,
		team        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'planned'
		            CHECK(status IN ('planned','active','paused','done','archived')),
		priority    INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
		color       TEXT NOT NULL DEFAULT '',
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(UPPER(short_id))`,
	`CREATE INDEX IF NOT EXISTS idx_projects_team ON projects(team)`,

	`CREATE TABLE IF NOT EXISTS assignees (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		role         TEXT NOT NULL DEFAULT '',
		team         TEXT NOT NULL DEFAULT '',
		capacity_pct INTEGER NOT NULL DEFAULT 100 CHECK(capacity_pct BETWEEN 1 AND 100),
		active       INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignees_name ON assignees(LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id             TEXT PRIMARY KEY,
		assignee_id    TEXT NOT NULL REFERENCES assignees(id) ON DELETE CASCADE,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		week_start     TEXT NOT NULL,
		allocation_pct INTEGER NOT NULL CHECK(allocation_pct BETWEEN 1 AND 100),
		note           TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE (assignee_id, project_id, week_start)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_week ON assignments(week_start)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project_id)`,

	// v2: contact email on assignees
	`ALTER TABLE assignees ADD COLUMN email TEXT NOT NULL DEFAULT ''`,
}

// migrateNormalizeWeekStarts moves any assignment whose week_start is not a
// Monday onto the Monday of its week. Rows that collide with an existing
// assignment for the same assignee and project are replaced.
func migrateNormalizeWeekStarts(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE strftime('%w', week_start) != '1'`).Scan(&count); err != nil {
		return fmt.Errorf("counting misaligned weeks: %w", err)
	}
	if count == 0 {
		return nil
	}

	_, err := db.ExecContext(ctx, `UPDATE OR REPLACE assignments
		SET week_start = date(week_start, '-6 days', 'weekday 1')
		WHERE strftime('%w', week_start) != '1'`)
	if err != nil {
		return fmt.Errorf("rewriting week_start: %w", err)
	}
	return nil
}
