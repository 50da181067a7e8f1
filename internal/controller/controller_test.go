package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExpandsEveryParent(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)

	assert.Equal(t, []string{"A"}, h.ctrl.State().Expanded.IDs())
	assert.Equal(t, []string{"A", "B", "C", "D"}, visibleIDs(h.ctrl))
}

func TestLoad_ExpandAllOverwritesManualCollapse(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	h.ctrl.CollapseAll()
	require.Equal(t, []string{"A", "D"}, visibleIDs(h.ctrl))

	require.NoError(t, h.ctrl.Refresh(context.Background()))
	assert.Equal(t, []string{"A", "B", "C", "D"}, visibleIDs(h.ctrl))
}

func TestLoad_PreserveManualKeepsCollapse(t *testing.T) {
	h := newHarness(PreserveManual)
	h.ctrl.ToggleExpand("A")
	require.Equal(t, []string{"A", "D"}, visibleIDs(h.ctrl))

	snap := sampleSnapshot()
	snap.Tasks = append(snap.Tasks, task("E", "2024-01-04", "2024-01-05", "D"))
	h.source.resp = responseFor(snap)
	require.NoError(t, h.ctrl.Refresh(context.Background()))

	// A stays collapsed; D became a parent and is expanded.
	assert.Equal(t, []string{"A", "D", "E"}, visibleIDs(h.ctrl))
}

func TestToggleExpand_ChildAppearsAfterParent(t *testing.T) {
	c := New(Options{ProjectID: "p", Now: func() time.Time { return testToday }})
	c.Load(&contract.Snapshot{Tasks: []*domain.Task{
		task("A", "2024-01-01", "2024-01-03", ""),
		task("B", "2024-01-02", "2024-01-03", "A"),
	}})
	c.ToggleExpand("A")
	assert.Equal(t, []string{"A"}, visibleIDs(c))

	c.ToggleExpand("A")
	assert.Equal(t, []string{"A", "B"}, visibleIDs(c))
	assert.True(t, c.HasChildren("A"))
	assert.False(t, c.HasChildren("B"))
}

func TestZoomTransitions(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)

	h.ctrl.SetZoom(domain.ZoomLevel("fortnight"))
	assert.Equal(t, domain.ZoomDay, h.ctrl.State().Zoom)

	h.ctrl.ZoomIn()
	assert.Equal(t, domain.ZoomDay, h.ctrl.State().Zoom)

	h.ctrl.ZoomOut()
	h.ctrl.ZoomOut()
	h.ctrl.ZoomOut()
	assert.Equal(t, domain.ZoomMonth, h.ctrl.State().Zoom)
	assert.Equal(t, 120, h.ctrl.Layout().Zoom.ColumnWidth)

	h.ctrl.SetZoom(domain.ZoomWeek)
	assert.Equal(t, 80, h.ctrl.Layout().Zoom.ColumnWidth)
}

func TestOverlayToggles_DoNotChangeRows(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)

	before := h.ctrl.Layout()
	require.Len(t, before.Connectors, 1)
	bar, ok := before.BarFor("B")
	require.True(t, ok)
	assert.True(t, bar.Critical)

	h.ctrl.ToggleDependencies()
	h.ctrl.ToggleCriticalPath()
	after := h.ctrl.Layout()

	assert.Empty(t, after.Connectors)
	bar, ok = after.BarFor("B")
	require.True(t, ok)
	assert.False(t, bar.Critical)
	assert.Equal(t, len(before.Rows), len(after.Rows))
	for i := range before.Bars {
		assert.Equal(t, before.Bars[i].Left, after.Bars[i].Left)
		assert.Equal(t, before.Bars[i].Top, after.Bars[i].Top)
	}
}

func TestSetFilter(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	h.ctrl.SetFilter(gantt.RowFilter{Text: "task d"})
	assert.Equal(t, []string{"D"}, visibleIDs(h.ctrl))

	h.ctrl.SetFilter(gantt.RowFilter{})
	assert.Len(t, visibleIDs(h.ctrl), 4)
}

func TestLayout_EmptyState(t *testing.T) {
	c := New(Options{ProjectID: "p"})
	l := c.Layout()
	assert.True(t, l.Empty)
	assert.Equal(t, gantt.EmptyMessage, l.Message)

	c.Load(&contract.Snapshot{ProjectID: "p"})
	assert.True(t, c.Layout().Empty)
}

func TestLayout_UsesMemo(t *testing.T) {
	memo := gantt.NewMemo(4)
	c := New(Options{ProjectID: "p1", Memo: memo, Now: func() time.Time { return testToday }})
	c.Load(sampleSnapshot())

	first := c.Layout()
	second := c.Layout()
	assert.Same(t, first, second)
	hits, misses := memo.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.SetZoom(domain.ZoomWeek)
	assert.NotSame(t, first, c.Layout())
}

func TestOnTaskClick_NavigatesWithoutStateChange(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	before := h.ctrl.State()

	require.NoError(t, h.ctrl.OnTaskClick(context.Background(), "B"))

	assert.Equal(t, []string{"B"}, h.nav.opened)
	assert.Equal(t, before, h.ctrl.State())
	assert.Zero(t, h.source.calls)
}

func TestRequestDateUpdate_NilClears(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)

	err := h.ctrl.RequestDateUpdate(context.Background(), "D", day("2024-01-08"), nil)
	require.NoError(t, err)

	req := h.commands.dates["D"]
	require.NotNil(t, req.PlannedStartDate)
	assert.Equal(t, "2024-01-08", *req.PlannedStartDate)
	assert.Nil(t, req.PlannedEndDate)
	assert.True(t, req.ClearEnd)
	assert.False(t, req.ClearStart)
	assert.Equal(t, 1, h.source.calls, "success refetches")
}

func TestMoveTask_ConvertsPixelsToDays(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	ctx := context.Background()

	require.NoError(t, h.ctrl.MoveTask(ctx, "B", 80))
	req := h.commands.dates["B"]
	assert.Equal(t, "2024-01-04", *req.PlannedStartDate)
	assert.Equal(t, "2024-01-06", *req.PlannedEndDate)

	h.ctrl.SetZoom(domain.ZoomWeek)
	require.NoError(t, h.ctrl.MoveTask(ctx, "D", -80))
	req = h.commands.dates["D"]
	assert.Equal(t, "2023-12-27", *req.PlannedStartDate)
	assert.Nil(t, req.PlannedEndDate)
	assert.False(t, req.ClearEnd, "a missing end date is left alone")
}

func TestMoveTask_SubDayDragIsIgnored(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)

	require.NoError(t, h.ctrl.MoveTask(context.Background(), "B", 15))
	assert.Empty(t, h.commands.dates)
	assert.Zero(t, h.source.calls)
}

func TestMoveTask_Unscheduled(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	snap := sampleSnapshot()
	snap.Tasks = append(snap.Tasks, task("U", "", "", ""))
	h.ctrl.Load(snap)

	err := h.ctrl.MoveTask(context.Background(), "U", 40)
	require.ErrorIs(t, err, ErrUnscheduled)
	require.Len(t, h.notes.all(), 1)
	assert.Equal(t, NotifyError, h.notes.all()[0].Level)

	err = h.ctrl.MoveTask(context.Background(), "nope", 40)
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestResizeTask(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	ctx := context.Background()

	require.NoError(t, h.ctrl.ResizeTask(ctx, "D", 120))
	req := h.commands.dates["D"]
	assert.Nil(t, req.PlannedStartDate)
	assert.Equal(t, "2024-01-06", *req.PlannedEndDate)

	require.NoError(t, h.ctrl.ResizeTask(ctx, "B", -400))
	req = h.commands.dates["B"]
	assert.Equal(t, "2024-01-02", *req.PlannedEndDate, "end clamps to start")
}

func TestResizeTask_Milestone(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	snap := sampleSnapshot()
	m := task("M", "2024-01-06", "", "")
	m.IsMilestone = true
	snap.Tasks = append(snap.Tasks, m)
	h.ctrl.Load(snap)

	err := h.ctrl.ResizeTask(context.Background(), "M", 80)
	assert.ErrorIs(t, err, ErrMilestoneResize)
	assert.Empty(t, h.commands.dates)
}

func TestCommandFailure_NotifiesAndKeepsState(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	h.commands.err = errors.New("api unavailable")
	h.ctrl.ToggleExpand("A")
	h.ctrl.SetZoom(domain.ZoomWeek)

	err := h.ctrl.CreateDependency(context.Background(), contract.DependencyRequest{
		PredecessorID: "A", SuccessorID: "D", DependencyType: "FS",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api unavailable")

	notes := h.notes.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NotifyError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "create-dependency")

	assert.Zero(t, h.source.calls, "no refetch after failure")
	assert.Equal(t, domain.ZoomWeek, h.ctrl.State().Zoom)
	assert.False(t, h.ctrl.State().Expanded.Has("A"))
}

func TestDependencyCommands_RefetchOnSuccess(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	ctx := context.Background()
	req := contract.DependencyRequest{PredecessorID: "A", SuccessorID: "D", DependencyType: "SS", LagDays: 2}

	require.NoError(t, h.ctrl.CreateDependency(ctx, req))
	require.NoError(t, h.ctrl.DeleteDependency(ctx, req))

	assert.Equal(t, []contract.DependencyRequest{req}, h.commands.created)
	assert.Equal(t, []contract.DependencyRequest{req}, h.commands.deleted)
	assert.Equal(t, 2, h.source.calls)
}

func TestRefetchFailure_IsReported(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	h.source.err = errors.New("timeout")

	err := h.ctrl.RequestDateUpdate(context.Background(), "B", day("2024-01-03"), day("2024-01-04"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refreshing timeline")
	assert.Len(t, h.notes.all(), 1)
	assert.Contains(t, h.commands.dates, "B", "the command itself went through")
}

func TestSaveBaseline_SingleInFlight(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	h.commands.block = make(chan struct{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.ctrl.SaveBaseline(ctx, "Sprint 1") }()

	require.Eventually(t, h.ctrl.BaselineInFlight, time.Second, time.Millisecond)
	assert.ErrorIs(t, h.ctrl.SaveBaseline(ctx, "Sprint 1 again"), ErrBaselineInFlight)

	close(h.commands.block)
	require.NoError(t, <-done)
	assert.False(t, h.ctrl.BaselineInFlight())

	require.Len(t, h.commands.baselines, 1)
	got := h.commands.baselines[0]
	assert.Equal(t, []string{"A", "B", "C", "D"}, got.TaskIDs)
	require.NotNil(t, got.BaselineName)
	assert.Equal(t, "Sprint 1", *got.BaselineName)
}

func TestSaveBaseline_NoNameAndNoTasks(t *testing.T) {
	h := newHarness(ExpandAllOnLoad)
	require.NoError(t, h.ctrl.SaveBaseline(context.Background(), ""))
	assert.Nil(t, h.commands.baselines[0].BaselineName)

	h.ctrl.Load(&contract.Snapshot{ProjectID: "p1"})
	assert.ErrorIs(t, h.ctrl.SaveBaseline(context.Background(), "x"), ErrNoSnapshot)
	assert.False(t, h.ctrl.BaselineInFlight())
}

func TestNilTasksInSnapshotAreSkipped(t *testing.T) {
	h := newHarness(PreserveManual)
	h.ctrl.ToggleExpand("A")

	snap := sampleSnapshot()
	snap.Tasks = append([]*domain.Task{nil}, snap.Tasks...)
	require.NotPanics(t, func() { h.ctrl.Load(snap) })
	assert.Equal(t, []string{"A", "D"}, visibleIDs(h.ctrl))

	require.NoError(t, h.ctrl.SaveBaseline(context.Background(), "with gaps"))
	require.Len(t, h.commands.baselines, 1)
	assert.Equal(t, []string{"A", "B", "C", "D"}, h.commands.baselines[0].TaskIDs)

	h.ctrl.Load(&contract.Snapshot{ProjectID: "p1", Tasks: []*domain.Task{nil}})
	assert.ErrorIs(t, h.ctrl.SaveBaseline(context.Background(), "x"), ErrNoSnapshot)
}

func TestCommands_WithoutPort(t *testing.T) {
	c := New(Options{ProjectID: "p1", Now: func() time.Time { return testToday }})
	c.Load(sampleSnapshot())

	err := c.RequestDateUpdate(context.Background(), "A", nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNotConfigured)
	assert.NoError(t, c.OnTaskClick(context.Background(), "A"))
}

func TestParseExpansionPolicy(t *testing.T) {
	p, err := ParseExpansionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ExpandAllOnLoad, p)

	p, err = ParseExpansionPolicy("Preserve_Manual")
	require.NoError(t, err)
	assert.Equal(t, PreserveManual, p)

	_, err = ParseExpansionPolicy("sometimes")
	assert.Error(t, err)
}
