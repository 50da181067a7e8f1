package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, parent_id, title, status, priority, start_date, end_date,
	is_milestone, progress, depth, order_index, assignee_name, is_critical`

func (r *SQLiteTaskRepo) Upsert(ctx context.Context, t *StoredTask) error {
	now := nowUTC()
	query := `INSERT INTO tasks (` + taskColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id, parent_id = excluded.parent_id,
			title = excluded.title, status = excluded.status, priority = excluded.priority,
			start_date = excluded.start_date, end_date = excluded.end_date,
			is_milestone = excluded.is_milestone, progress = excluded.progress,
			depth = excluded.depth, order_index = excluded.order_index,
			assignee_name = excluded.assignee_name, is_critical = excluded.is_critical,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStringToValue(t.ParentID),
		t.Title,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		boolToInt(t.IsMilestone),
		domain.ClampProgress(t.Progress),
		max(t.Depth, 0),
		t.OrderIndex,
		nullableStringToValue(t.AssigneeName),
		boolToInt(t.IsCritical),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*StoredTask, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*StoredTask, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*StoredTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateDates overwrites both planned dates; nil clears a date.
func (r *SQLiteTaskRepo) UpdateDates(ctx context.Context, id string, start, end *time.Time) error {
	query := `UPDATE tasks SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(start, dateLayout),
		nullableTimeToString(end, dateLayout),
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating task dates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) DateBounds(ctx context.Context, projectID string) (*time.Time, *time.Time, error) {
	query := `SELECT
			MIN(MIN(COALESCE(start_date, end_date)), MIN(COALESCE(end_date, start_date))),
			MAX(MAX(COALESCE(start_date, end_date)), MAX(COALESCE(end_date, start_date)))
		FROM tasks WHERE project_id = ?`
	var lo, hi sql.NullString
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&lo, &hi); err != nil {
		return nil, nil, fmt.Errorf("querying date bounds: %w", err)
	}
	return parseNullableTime(lo, dateLayout), parseNullableTime(hi, dateLayout), nil
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*StoredTask, error) {
	var t StoredTask
	var status, priority string
	var parentID, startDate, endDate, assignee sql.NullString
	var milestone, critical int

	err := row.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Title, &status, &priority,
		&startDate, &endDate, &milestone, &t.Progress, &t.Depth, &t.OrderIndex,
		&assignee, &critical,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.ParentID = nullStringPtr(parentID)
	t.StartDate = parseNullableTime(startDate, dateLayout)
	t.EndDate = parseNullableTime(endDate, dateLayout)
	t.IsMilestone = intToBool(milestone)
	t.AssigneeName = nullStringPtr(assignee)
	t.IsCritical = intToBool(critical)
	return &t, nil
}
