package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/teatest"
)

func newTimelineDriver(t *testing.T, app *App, projectID string, flags *viewFlags) *teatest.Driver {
	t.Helper()
	if flags == nil {
		flags = &viewFlags{}
	}
	v := newGanttView(context.Background(), app, projectID, flags)
	d := teatest.New(t, v, teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func timeline(d *teatest.Driver) *ganttView {
	return d.Model.(*ganttView)
}

func TestTUI_LoadsTimeline(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	out := d.PlainView()
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "zoom day · critical · deps")
	assert.Contains(t, out, "▾ Plan")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "Ship")
	assert.Contains(t, out, "q quit")
}

func TestTUI_CollapsedFlagAppliesAfterFirstLoad(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, &viewFlags{collapse: []string{s.plan.ID}})

	out := d.PlainView()
	assert.Contains(t, out, "▸ Plan")
	assert.NotContains(t, out, "Build")
}

func TestTUI_ToggleExpandWithEnter(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressEnter()
	assert.NotContains(t, d.PlainView(), "Build")
	assert.False(t, timeline(d).ctl.State().Expanded.Has(s.plan.ID))

	d.PressSpace()
	assert.Contains(t, d.PlainView(), "Build")
}

func TestTUI_CursorMovementIsClamped(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressUp()
	assert.Equal(t, 0, timeline(d).cursor)
	for range 5 {
		d.PressDown()
	}
	assert.Equal(t, 2, timeline(d).cursor)

	d.PressKey('E')
	assert.Equal(t, 0, timeline(d).cursor, "collapse all leaves one row")
	d.PressKey('e')
	assert.Contains(t, d.PlainView(), "Ship")
}

func TestTUI_MoveTaskRefetches(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressDown()
	d.PressKey('l')

	assert.Contains(t, d.PlainView(), "Moved Build")
	got := fetchTask(t, app, s.project.ID, s.build.ID)
	assert.Equal(t, "2024-01-03", *got.StartDate)
	assert.Equal(t, "2024-01-10", *got.EndDate)

	d.PressLeft()
	got = fetchTask(t, app, s.project.ID, s.build.ID)
	assert.Equal(t, "2024-01-02", *got.StartDate)
}

func TestTUI_ResizeMilestoneReportsError(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressDown()
	d.PressDown()
	d.PressKey('L')

	v := timeline(d)
	assert.True(t, v.errored)
	assert.Contains(t, v.status, "resize-task failed")
	assert.Contains(t, d.PlainView(), "milestones have no duration")
}

func TestTUI_ZoomAndOverlays(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressKey('+')
	assert.Equal(t, domain.ZoomDay, timeline(d).ctl.State().Zoom)
	d.PressKey('-')
	d.PressKey('-')
	assert.Contains(t, d.PlainView(), "zoom month")

	d.PressKey('c')
	d.PressKey('d')
	assert.NotContains(t, d.PlainView(), "critical ·")
	assert.NotContains(t, d.PlainView(), "· deps")
}

func TestTUI_DependencyListFollowsToggle(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	assert.Contains(t, d.PlainView(), "Build → Ship")

	d.PressKey('d')
	assert.NotContains(t, d.PlainView(), "Build → Ship")

	d.PressKey('d')
	assert.Contains(t, d.PlainView(), "Build → Ship")
}

func TestTUI_FilterRows(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressKey('/')
	assert.True(t, timeline(d).filterOn)
	d.Type("ship")
	d.PressEnter()

	out := d.PlainView()
	assert.False(t, timeline(d).filterOn)
	assert.Contains(t, out, `filter "ship"`)
	assert.Contains(t, out, "Ship")
	assert.NotContains(t, out, "Build")

	d.PressKey('/')
	d.Type("zzz")
	d.PressEsc()
	assert.Equal(t, "ship", timeline(d).ctl.State().Filter.Text, "esc keeps the old filter")
}

func TestTUI_OpenTaskDetail(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressDown()
	d.PressKey('o')
	out := d.PlainView()
	assert.Contains(t, out, "Progress")
	assert.Contains(t, out, "esc to close")

	d.PressEsc()
	assert.Empty(t, timeline(d).detailID)
	assert.Contains(t, d.PlainView(), "Ship")
}

func TestTUI_SaveBaseline(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressKey('b')
	assert.Contains(t, d.PlainView(), "Baseline saved")

	baselines, err := app.Baselines.List(context.Background(), s.project.ID)
	require.NoError(t, err)
	require.Len(t, baselines, 1)
	assert.Len(t, baselines[0].Entries, 3)
}

func TestTUI_FromPayloadIsReadOnly(t *testing.T) {
	app, s := testApp(t)
	resp, err := app.Gantt.GetGantt(context.Background(), s.project.ID)
	require.NoError(t, err)

	v := newGanttView(context.Background(), app, "", &viewFlags{})
	v.ctl.Load(resp.ToSnapshot())
	d := teatest.New(t, v, teatest.WithSize(120, 40))
	d.DrainInit()
	assert.Contains(t, d.PlainView(), "Build")

	d.PressDown()
	d.PressKey('l')
	assert.True(t, timeline(d).errored)
	assert.Contains(t, timeline(d).status, "collaborator not configured")
}

func TestTUI_DetailSkipsNilTasks(t *testing.T) {
	app, s := testApp(t)
	resp, err := app.Gantt.GetGantt(context.Background(), s.project.ID)
	require.NoError(t, err)
	snap := resp.ToSnapshot()
	snap.Tasks = append([]*domain.Task{nil}, snap.Tasks...)

	v := newGanttView(context.Background(), app, "", &viewFlags{})
	v.ctl.Load(snap)
	d := teatest.New(t, v, teatest.WithSize(120, 40))
	d.DrainInit()

	d.PressDown()
	d.PressKey('o')
	assert.Contains(t, d.PlainView(), "Progress")
}

func TestTUI_Quit(t *testing.T) {
	app, s := testApp(t)
	d := newTimelineDriver(t, app, s.project.ID, nil)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}
