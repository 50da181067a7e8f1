package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/render/svg"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/service"
	"github.com/alexanderramin/ganttline/internal/testutil"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansiRE.ReplaceAllString(s, "") }

// seeded is the project every CLI test starts from: Plan with two
// children, and Build finishing before the Ship milestone.
type seeded struct {
	project           *domain.Project
	plan, build, ship *domain.Task
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *seeded) {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)

	s := &seeded{project: testutil.NewTestProject("Launch", testutil.WithShortID("LAU01"))}
	require.NoError(t, projects.Create(ctx, s.project))
	s.plan = testutil.NewTestTask(s.project.ID, "Plan", testutil.WithDates("2024-01-01", "2024-01-20"))
	s.build = testutil.NewTestTask(s.project.ID, "Build",
		testutil.WithDates("2024-01-02", "2024-01-09"),
		testutil.WithParent(s.plan.ID), testutil.WithDepth(1), testutil.WithProgress(40))
	s.ship = testutil.NewTestTask(s.project.ID, "Ship",
		testutil.WithDates("2024-01-10", ""),
		testutil.WithParent(s.plan.ID), testutil.WithDepth(1), testutil.WithMilestone())
	for _, task := range []*domain.Task{s.plan, s.build, s.ship} {
		require.NoError(t, tasks.Upsert(ctx, &repository.StoredTask{Task: *task, IsCritical: task != s.plan}))
	}
	require.NoError(t, deps.Create(ctx, domain.DependencyEdge{
		PredecessorID: s.build.ID, SuccessorID: s.ship.ID, Type: domain.DepFinishToStart,
	}))

	ganttSvc := service.NewGanttService(projects, tasks, deps)
	schedule := service.NewScheduleService(uow)
	baselines := service.NewBaselineService(repository.NewSQLiteBaselineRepo(database), uow)
	app := &App{
		Projects:  service.NewProjectService(projects),
		Gantt:     ganttSvc,
		Schedule:  schedule,
		Baselines: baselines,
		Import:    service.NewImportService(uow),
		Port:      service.NewLocalPort(ganttSvc, schedule, baselines),
		Theme:     svg.DefaultTheme(),
		Memo:      gantt.NewMemo(gantt.DefaultMemoSize),
		Now:       func() time.Time { return testutil.Date("2024-01-05") },
	}
	return app, s
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return plain(buf.String()), err
}

func fetchTask(t *testing.T, app *App, projectID, taskID string) contract.TaskPayload {
	t.Helper()
	resp, err := app.Gantt.GetGantt(context.Background(), projectID)
	require.NoError(t, err)
	for _, p := range resp.Tasks {
		if p.ID == taskID {
			return p
		}
	}
	t.Fatalf("task %s not in payload", taskID)
	return contract.TaskPayload{}
}

func writePayload(t *testing.T, resp *contract.GanttResponse) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "gantt.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProjectList(t *testing.T) {
	app, _ := testApp(t)
	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "LAU01")
}

func TestGanttCmd_PrintsChartAndDependencies(t *testing.T) {
	app, _ := testApp(t)
	out, err := executeCmd(t, app, "gantt", "lau01", "--width", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "LAUNCH")
	assert.Contains(t, out, "▾ Plan")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "Build → Ship  FS  critical")
}

func TestGanttCmd_ViewFlags(t *testing.T) {
	app, s := testApp(t)
	out, err := executeCmd(t, app, "gantt", "LAU01", "--collapse", s.plan.ID, "--no-deps")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ Plan")
	assert.NotContains(t, out, "Build")
	assert.NotContains(t, out, "Dependencies")

	out, err = executeCmd(t, app, "gantt", "LAU01", "--filter", "ship", "--zoom", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship")
	assert.NotContains(t, out, "Build")
}

func TestGanttCmd_Errors(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "gantt")
	assert.ErrorContains(t, err, "PROJECT or --from is required")

	_, err = executeCmd(t, app, "gantt", "NOPE")
	assert.ErrorContains(t, err, "project not found")

	_, err = executeCmd(t, app, "gantt", "LAU01", "--zoom", "year")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "gantt", "LAU01", "--from", "x.json")
	assert.ErrorContains(t, err, "not both")
}

func TestGanttCmd_FromFile(t *testing.T) {
	app, s := testApp(t)
	resp, err := app.Gantt.GetGantt(context.Background(), s.project.ID)
	require.NoError(t, err)
	path := writePayload(t, resp)

	app.Port = nil
	out, err := executeCmd(t, app, "gantt", "--from", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "Ship")
}

func TestRenderCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "render", "LAU01", "--title", "Q1 & beyond")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Q1 &amp; beyond")

	path := filepath.Join(t.TempDir(), "chart.svg")
	out, err = executeCmd(t, app, "render", "LAU01", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Launch")

	_, err = executeCmd(t, app, "render", "LAU01", "--theme", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTaskDatesCmd(t *testing.T) {
	app, s := testApp(t)

	out, err := executeCmd(t, app, "task", "dates", s.build.ID, "--start", "2024-01-03", "--end", "2024-01-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task")
	got := fetchTask(t, app, s.project.ID, s.build.ID)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2024-01-03", *got.StartDate)
	assert.Equal(t, "2024-01-12", *got.EndDate)

	_, err = executeCmd(t, app, "task", "dates", s.build.ID, "--clear-end")
	require.NoError(t, err)
	assert.Nil(t, fetchTask(t, app, s.project.ID, s.build.ID).EndDate)
}

func TestTaskDatesCmd_Invalid(t *testing.T) {
	app, s := testApp(t)

	_, err := executeCmd(t, app, "task", "dates", s.build.ID)
	assert.ErrorContains(t, err, "changes nothing")

	_, err = executeCmd(t, app, "task", "dates", s.build.ID, "--start", "soon")
	assert.ErrorContains(t, err, "invalid date format")

	_, err = executeCmd(t, app, "task", "dates", s.build.ID, "--start", "2024-02-01", "--end", "2024-01-01")
	assert.ErrorContains(t, err, "must not be before")

	app.Port = nil
	_, err = executeCmd(t, app, "task", "dates", s.build.ID, "--start", "2024-01-03")
	assert.ErrorIs(t, err, errNoPort)
}

func TestTaskMoveAndResize(t *testing.T) {
	app, s := testApp(t)

	_, err := executeCmd(t, app, "task", "move", "LAU01", s.build.ID, "--days", "2")
	require.NoError(t, err)
	got := fetchTask(t, app, s.project.ID, s.build.ID)
	assert.Equal(t, "2024-01-04", *got.StartDate)
	assert.Equal(t, "2024-01-11", *got.EndDate)

	_, err = executeCmd(t, app, "task", "resize", "LAU01", s.build.ID, "--days", "-30")
	require.NoError(t, err)
	got = fetchTask(t, app, s.project.ID, s.build.ID)
	assert.Equal(t, "2024-01-04", *got.EndDate, "end clamps to start")

	_, err = executeCmd(t, app, "task", "resize", "LAU01", s.ship.ID, "--days", "1")
	assert.ErrorContains(t, err, "milestones have no duration")

	_, err = executeCmd(t, app, "task", "move", "LAU01", s.build.ID)
	assert.ErrorContains(t, err, "--days must not be zero")
}

func TestDepCmd(t *testing.T) {
	app, s := testApp(t)

	out, err := executeCmd(t, app, "dep", "add", s.plan.ID, s.ship.ID, "--type", "ss", "--lag", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(SS)")
	ship := fetchTask(t, app, s.project.ID, s.ship.ID)
	assert.Len(t, ship.Dependencies, 2)

	_, err = executeCmd(t, app, "dep", "add", s.ship.ID, s.build.ID)
	assert.ErrorIs(t, err, service.ErrInvalidDependency)

	_, err = executeCmd(t, app, "dep", "add", s.build.ID, s.build.ID)
	assert.ErrorContains(t, err, "cannot depend on itself")

	_, err = executeCmd(t, app, "dep", "add", s.plan.ID, s.build.ID, "--type", "XX")
	assert.ErrorIs(t, err, contract.ErrInvalidRequest)

	out, err = executeCmd(t, app, "dep", "rm", s.build.ID, s.ship.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	_, err = executeCmd(t, app, "dep", "rm", s.build.ID, s.ship.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBaselineCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "baseline", "list", "LAU01")
	require.NoError(t, err)
	assert.Contains(t, out, "No baselines saved.")

	out, err = executeCmd(t, app, "baseline", "save", "LAU01", "--name", "v1")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved baseline v1: 3 tasks")

	out, err = executeCmd(t, app, "baseline", "list", "LAU01")
	require.NoError(t, err)
	assert.Contains(t, out, "v1")

	long := string(bytes.Repeat([]byte("x"), maxBaselineName+1))
	_, err = executeCmd(t, app, "baseline", "save", "LAU01", "--name", long)
	assert.ErrorContains(t, err, "baseline name")
}

func TestImportCmd(t *testing.T) {
	app, _ := testApp(t)
	start, end := "2024-03-01", "2024-03-05"
	path := writePayload(t, &contract.GanttResponse{
		ProjectName: "Imported",
		Tasks: []contract.TaskPayload{
			{ID: "a", Title: "Alpha", StartDate: &start, EndDate: &end},
			{ID: "b", Title: "Beta", StartDate: &end, Dependencies: []contract.DependencyPayload{
				{PredecessorID: "a", DependencyType: "FS"},
				{PredecessorID: "ghost", DependencyType: "FS"},
			}},
		},
	})

	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported project Imported")
	assert.Contains(t, out, "2 tasks, 1 dependencies")
	assert.Contains(t, out, "(1 skipped)")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported")
}

func TestValidateBaselineName(t *testing.T) {
	assert.NoError(t, validateBaselineName(""))
	assert.NoError(t, validateBaselineName("Sprint 12"))
	assert.Error(t, validateBaselineName(string(bytes.Repeat([]byte("n"), 201))))
}

func TestTerminalWidth(t *testing.T) {
	assert.Equal(t, 80, terminalWidth(80))
	t.Setenv("COLUMNS", "132")
	assert.Equal(t, 132, terminalWidth(0))
	t.Setenv("COLUMNS", "wide")
	assert.Equal(t, 100, terminalWidth(0))
}
