package db

import (
	"database/sql"
	"fmt"
	"strings"
)

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
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		short_id   TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	// parent_id carries no foreign key: upstream data may reference parents
	// outside the project, which the timeline treats as roots.
	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id    TEXT,
		title        TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'new',
		priority     TEXT NOT NULL DEFAULT 'medium',
		start_date   TEXT,
		end_date     TEXT,
		is_milestone INTEGER NOT NULL DEFAULT 0,
		progress     INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		depth        INTEGER NOT NULL DEFAULT 0 CHECK(depth >= 0),
		order_index  INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		predecessor_id  TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		dependency_type TEXT NOT NULL DEFAULT 'FS'
		                CHECK(dependency_type IN ('FS','SS','FF','SF')),
		lag_days        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		PRIMARY KEY (predecessor_id, successor_id),
		CHECK(predecessor_id != successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_dependencies_successor ON task_dependencies(successor_id)`,

	`CREATE TABLE IF NOT EXISTS baselines (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_baselines_project ON baselines(project_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS baseline_entries (
		baseline_id   TEXT NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
		task_id       TEXT NOT NULL,
		planned_start TEXT,
		planned_end   TEXT,
		PRIMARY KEY (baseline_id, task_id)
	)`,

	// Assignee display names and upstream critical-path membership.
	`ALTER TABLE tasks ADD COLUMN assignee_name TEXT`,
	`ALTER TABLE tasks ADD COLUMN is_critical INTEGER NOT NULL DEFAULT 0`,
}
