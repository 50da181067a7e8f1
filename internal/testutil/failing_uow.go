package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/db"
)

// FailOnNthExecUoW behaves like the real unit of work except that the
// FailOn-th write inside a transaction returns Err, so tests can check that
// a half-finished import or baseline leaves nothing behind. Writes are
// counted from 1; reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &execCounter{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type execCounter struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (c *execCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.writes++
	if c.writes == c.failOn {
		return nil, fmt.Errorf("write %d: %w", c.writes, c.err)
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
