package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	deps     *repository.SQLiteDependencyRepo
	bases    *repository.SQLiteBaselineRepo
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
		bases:    repository.NewSQLiteBaselineRepo(database),
	}
}

func (e *testEnv) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) task(t *testing.T, task *domain.Task, critical bool) *domain.Task {
	t.Helper()
	require.NoError(t, e.tasks.Upsert(context.Background(), &repository.StoredTask{Task: *task, IsCritical: critical}))
	return task
}

func (e *testEnv) edge(t *testing.T, pred, succ string, typ domain.DependencyType, lag int) {
	t.Helper()
	require.NoError(t, e.deps.Create(context.Background(), domain.DependencyEdge{
		PredecessorID: pred, SuccessorID: succ, Type: typ, LagDays: lag,
	}))
}

// seedTimeline stores Plan > (Build, Ship) with Ship depending on Build.
func (e *testEnv) seedTimeline(t *testing.T) (p *domain.Project, plan, build, ship *domain.Task) {
	t.Helper()
	p = e.project(t, "Launch")
	plan = e.task(t, testutil.NewTestTask(p.ID, "Plan", testutil.WithDates("2024-01-01", "2024-01-20")), false)
	build = e.task(t, testutil.NewTestTask(p.ID, "Build",
		testutil.WithDates("2024-01-02", "2024-01-09"),
		testutil.WithParent(plan.ID), testutil.WithDepth(1),
		testutil.WithStatus(domain.StatusInProgress), testutil.WithProgress(40)), true)
	ship = e.task(t, testutil.NewTestTask(p.ID, "Ship",
		testutil.WithDates("2024-01-10", ""),
		testutil.WithParent(plan.ID), testutil.WithDepth(1), testutil.WithMilestone()), true)
	e.edge(t, build.ID, ship.ID, domain.DepFinishToStart, 1)
	return p, plan, build, ship
}

func strPtr(s string) *string { return &s }
