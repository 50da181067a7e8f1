package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteBaselineRepo implements BaselineRepo using a SQLite database.
// Create issues several statements; run it inside a UnitOfWork for atomicity.
type SQLiteBaselineRepo struct {
	db db.DBTX
}

// NewSQLiteBaselineRepo creates a new SQLiteBaselineRepo.
func NewSQLiteBaselineRepo(conn db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: conn}
}

func (r *SQLiteBaselineRepo) Create(ctx context.Context, b *domain.Baseline) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO baselines (id, project_id, name, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.ProjectID, b.Name, b.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting baseline: %w", err)
	}
	for _, e := range b.Entries {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO baseline_entries (baseline_id, task_id, planned_start, planned_end) VALUES (?, ?, ?, ?)`,
			b.ID, e.TaskID,
			nullableTimeToString(e.PlannedStart, dateLayout),
			nullableTimeToString(e.PlannedEnd, dateLayout),
		)
		if err != nil {
			return fmt.Errorf("inserting baseline entry %s: %w", e.TaskID, err)
		}
	}
	return nil
}

// ListByProject returns the project's baselines newest first, each with
// its entries.
func (r *SQLiteBaselineRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Baseline, error) {
	baselines, err := r.listHeaders(ctx, projectID)
	if err != nil || len(baselines) == 0 {
		return baselines, err
	}

	byID := make(map[string]*domain.Baseline, len(baselines))
	for _, b := range baselines {
		byID[b.ID] = b
	}
	if err := r.attachEntries(ctx, projectID, byID); err != nil {
		return nil, err
	}
	return baselines, nil
}

func (r *SQLiteBaselineRepo) listHeaders(ctx context.Context, projectID string) ([]*domain.Baseline, error) {
	query := `SELECT id, project_id, name, created_at FROM baselines
		WHERE project_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var baselines []*domain.Baseline
	for rows.Next() {
		var b domain.Baseline
		var createdAt string
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning baseline: %w", err)
		}
		b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		baselines = append(baselines, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return baselines, nil
}

func (r *SQLiteBaselineRepo) attachEntries(ctx context.Context, projectID string, byID map[string]*domain.Baseline) error {
	query := `SELECT e.baseline_id, e.task_id, e.planned_start, e.planned_end
		FROM baseline_entries e
		JOIN baselines b ON b.id = e.baseline_id
		WHERE b.project_id = ?
		ORDER BY e.baseline_id, e.task_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("listing baseline entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var baselineID string
		var e domain.BaselineEntry
		var start, end sql.NullString
		if err := rows.Scan(&baselineID, &e.TaskID, &start, &end); err != nil {
			return fmt.Errorf("scanning baseline entry: %w", err)
		}
		e.PlannedStart = parseNullableTime(start, dateLayout)
		e.PlannedEnd = parseNullableTime(end, dateLayout)
		if b, ok := byID[baselineID]; ok {
			b.Entries = append(b.Entries, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating baseline entries: %w", err)
	}
	return nil
}
