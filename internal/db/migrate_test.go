package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProjectAndTasks(t *testing.T, db *sql.DB, taskIDs ...string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Project', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	for _, id := range taskIDs {
		_, err := db.Exec(`INSERT INTO tasks (id, project_id, title, created_at, updated_at) VALUES (?, 'p1', ?, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, id, id)
		require.NoError(t, err)
	}
}

func TestMigrate_RerunIsNoop(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "t1")

	for range 2 {
		require.NoError(t, Migrate(db))
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Equal(t, 1, count, "rerunning migrations keeps existing rows")
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "tasks", "task_dependencies", "baselines", "baseline_entries"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_tasks_project",
		"idx_tasks_parent",
		"idx_task_dependencies_successor",
		"idx_baselines_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_MemoryJournalForInMemoryDB(t *testing.T) {
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_TasksLateColumns(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "t1")

	var critical int
	var assignee sql.NullString
	err := db.QueryRow(`SELECT is_critical, assignee_name FROM tasks WHERE id = 't1'`).Scan(&critical, &assignee)
	require.NoError(t, err)
	assert.Equal(t, 0, critical)
	assert.False(t, assignee.Valid)
}

func TestMigrate_TasksProgressCheckConstraint(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "t1")

	_, err := db.Exec(`UPDATE tasks SET progress = 101 WHERE id = 't1'`)
	assert.Error(t, err)
	_, err = db.Exec(`UPDATE tasks SET progress = 100 WHERE id = 't1'`)
	assert.NoError(t, err)
}

func TestMigrate_TasksAllowOrphanParent(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "t1")

	_, err := db.Exec(`UPDATE tasks SET parent_id = 'elsewhere' WHERE id = 't1'`)
	assert.NoError(t, err)
}

func TestMigrate_DependencyConstraints(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "a", "b")

	insert := `INSERT INTO task_dependencies (predecessor_id, successor_id, dependency_type, created_at) VALUES (?, ?, ?, '2024-01-01T00:00:00Z')`

	_, err := db.Exec(insert, "a", "b", "FS")
	require.NoError(t, err)

	_, err = db.Exec(insert, "a", "b", "SS")
	assert.Error(t, err, "duplicate pair should violate primary key")

	_, err = db.Exec(insert, "b", "b", "FS")
	assert.Error(t, err, "self edge should violate check")

	_, err = db.Exec(insert, "b", "a", "XX")
	assert.Error(t, err, "unknown type should violate check")

	_, err = db.Exec(insert, "a", "ghost", "FS")
	assert.Error(t, err, "unknown task should violate foreign key")
}

func TestMigrate_DeletingTaskCascadesDependencies(t *testing.T) {
	db := openTestDB(t)
	seedProjectAndTasks(t, db, "a", "b")

	_, err := db.Exec(`INSERT INTO task_dependencies (predecessor_id, successor_id, created_at) VALUES ('a', 'b', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM tasks WHERE id = 'a'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_dependencies`).Scan(&count))
	assert.Zero(t, count)
}

func TestMigrate_ProjectsShortIDPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO projects (id, short_id, name, created_at, updated_at) VALUES (?, ?, 'P', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "p1", "")
	require.NoError(t, err)
	_, err = db.Exec(insert, "p2", "")
	require.NoError(t, err, "empty short ids do not collide")

	_, err = db.Exec(insert, "p3", "WEB01")
	require.NoError(t, err)
	_, err = db.Exec(insert, "p4", "WEB01")
	assert.Error(t, err)
}
