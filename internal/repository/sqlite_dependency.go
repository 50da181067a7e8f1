package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

// Create inserts the edge, replacing the type and lag of an existing edge
// between the same pair.
func (r *SQLiteDependencyRepo) Create(ctx context.Context, e domain.DependencyEdge) error {
	query := `INSERT INTO task_dependencies (predecessor_id, successor_id, dependency_type, lag_days, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(predecessor_id, successor_id) DO UPDATE SET
			dependency_type = excluded.dependency_type, lag_days = excluded.lag_days`
	depType := e.Type
	if depType == "" {
		depType = domain.DepFinishToStart
	}
	_, err := r.db.ExecContext(ctx, query, e.PredecessorID, e.SuccessorID, string(depType), e.LagDays, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, predecessorID, successorID string) error {
	query := `DELETE FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?`
	res, err := r.db.ExecContext(ctx, query, predecessorID, successorID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dependency %s -> %s: %w", predecessorID, successorID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Exists(ctx context.Context, predecessorID, successorID string) (bool, error) {
	query := `SELECT COUNT(*) FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, predecessorID, successorID).Scan(&count); err != nil {
		return false, fmt.Errorf("checking dependency: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.DependencyEdge, error) {
	query := `SELECT d.predecessor_id, d.successor_id, d.dependency_type, d.lag_days
		FROM task_dependencies d
		JOIN tasks s ON s.id = d.successor_id
		WHERE s.project_id = ?
		ORDER BY s.order_index, d.successor_id, d.created_at, d.predecessor_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

func scanEdges(rows *sql.Rows) ([]domain.DependencyEdge, error) {
	var edges []domain.DependencyEdge
	for rows.Next() {
		var e domain.DependencyEdge
		var depType string
		if err := rows.Scan(&e.PredecessorID, &e.SuccessorID, &depType, &e.LagDays); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		e.Type = domain.DependencyType(depType)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return edges, nil
}
