package controller

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
)

var testToday = time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

func task(id, start, end string, parent string) *domain.Task {
	t := &domain.Task{ID: id, Title: "Task " + id, Status: domain.StatusNew, Priority: domain.PriorityMedium}
	if start != "" {
		t.StartDate = day(start)
	}
	if end != "" {
		t.EndDate = day(end)
	}
	if parent != "" {
		t.ParentID = strPtr(parent)
		t.Depth = 1
	}
	return t
}

// sampleSnapshot is A > (B, C) with C depending on B, plus a root D.
func sampleSnapshot() *contract.Snapshot {
	b := task("B", "2024-01-02", "2024-01-04", "A")
	c := task("C", "2024-01-05", "2024-01-08", "A")
	c.Dependencies = []domain.Dependency{{PredecessorID: "B", Type: domain.DepFinishToStart}}
	return &contract.Snapshot{
		ProjectID:   "p1",
		ProjectName: "Launch",
		Tasks: []*domain.Task{
			task("A", "2024-01-01", "2024-01-10", ""),
			b,
			c,
			task("D", "2024-01-03", "", ""),
		},
		MinDate:      day("2024-01-01"),
		MaxDate:      day("2024-01-10"),
		CriticalPath: []string{"B", "C"},
	}
}

func responseFor(snap *contract.Snapshot) *contract.GanttResponse {
	resp := &contract.GanttResponse{
		ProjectID:    snap.ProjectID,
		ProjectName:  snap.ProjectName,
		MinDate:      contract.FormatOptionalDate(snap.MinDate),
		MaxDate:      contract.FormatOptionalDate(snap.MaxDate),
		CriticalPath: snap.CriticalPath,
	}
	for _, t := range snap.Tasks {
		resp.Tasks = append(resp.Tasks, contract.NewTaskPayload(t, false))
	}
	return resp
}

type fakeSource struct {
	mu    sync.Mutex
	resp  *contract.GanttResponse
	err   error
	calls int
}

func (f *fakeSource) Fetch(_ context.Context, _ string) (*contract.GanttResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

type fakeCommands struct {
	mu        sync.Mutex
	err       error
	block     chan struct{}
	dates     map[string]contract.DateUpdateRequest
	created   []contract.DependencyRequest
	deleted   []contract.DependencyRequest
	baselines []contract.BaselineRequest
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{dates: map[string]contract.DateUpdateRequest{}}
}

func (f *fakeCommands) UpdateTaskDates(_ context.Context, taskID string, req contract.DateUpdateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.dates[taskID] = req
	return nil
}

func (f *fakeCommands) CreateDependency(_ context.Context, req contract.DependencyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, req)
	return nil
}

func (f *fakeCommands) DeleteDependency(_ context.Context, req contract.DependencyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, req)
	return nil
}

func (f *fakeCommands) CreateBaselines(_ context.Context, req contract.BaselineRequest) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.baselines = append(f.baselines, req)
	return nil
}

type fakeNavigator struct {
	opened []string
}

func (f *fakeNavigator) OpenTask(_ context.Context, taskID string) error {
	f.opened = append(f.opened, taskID)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.seen...)
}

type harness struct {
	ctrl     *Controller
	source   *fakeSource
	commands *fakeCommands
	nav      *fakeNavigator
	notes    *recordingNotifier
}

func newHarness(policy ExpansionPolicy) *harness {
	h := &harness{
		source:   &fakeSource{resp: responseFor(sampleSnapshot())},
		commands: newFakeCommands(),
		nav:      &fakeNavigator{},
		notes:    &recordingNotifier{},
	}
	h.ctrl = New(Options{
		ProjectID: "p1",
		Source:    h.source,
		Commands:  h.commands,
		Navigator: h.nav,
		Notifier:  h.notes,
		Policy:    policy,
		Now:       func() time.Time { return testToday },
	})
	h.ctrl.Load(sampleSnapshot())
	return h
}

func visibleIDs(c *Controller) []string {
	var ids []string
	for _, r := range c.Layout().Rows {
		ids = append(ids, r.Task.ID)
	}
	return ids
}
