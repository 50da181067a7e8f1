package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

// Options wires a Controller to its collaborators. Only ProjectID is
// required; missing collaborators make the matching commands fail with
// ErrNotConfigured (a missing Navigator or Notifier is silently ignored).
type Options struct {
	ProjectID string
	Source    Source
	Commands  CommandPort
	Navigator Navigator
	Notifier  Notifier
	Observer  Observer
	Policy    ExpansionPolicy
	View      *ViewState
	Memo      *gantt.Memo
	Metrics   gantt.RowMetrics
	Now       func() time.Time
}

// Controller owns the view state of one project timeline and turns user
// intents into layout changes or outbound commands.
type Controller struct {
	projectID string
	source    Source
	commands  CommandPort
	navigator Navigator
	notifier  Notifier
	observer  Observer
	policy    ExpansionPolicy
	memo      *gantt.Memo
	metrics   gantt.RowMetrics
	now       func() time.Time

	mu       sync.RWMutex
	state    ViewState
	snapshot *contract.Snapshot

	savingBaseline atomic.Bool
}

func New(opts Options) *Controller {
	c := &Controller{
		projectID: opts.ProjectID,
		source:    opts.Source,
		commands:  opts.Commands,
		navigator: opts.Navigator,
		notifier:  opts.Notifier,
		observer:  opts.Observer,
		policy:    opts.Policy,
		memo:      opts.Memo,
		metrics:   opts.Metrics,
		now:       opts.Now,
		state:     DefaultViewState(),
	}
	if opts.View != nil {
		c.state = opts.View.clone()
		if c.state.Expanded == nil {
			c.state.Expanded = gantt.ExpansionSet{}
		}
	}
	if c.notifier == nil {
		c.notifier = noopNotifier{}
	}
	if c.observer == nil {
		c.observer = NoopObserver{}
	}
	if c.policy == "" {
		c.policy = ExpandAllOnLoad
	}
	if c.memo == nil {
		c.memo = gantt.NewMemo(gantt.DefaultMemoSize)
	}
	if c.metrics.RowHeight <= 0 {
		c.metrics = gantt.DefaultRowMetrics()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller) ProjectID() string { return c.projectID }

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Snapshot returns the loaded timeline data, or nil before the first load.
func (c *Controller) Snapshot() *contract.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Load replaces the task data and re-seeds the expansion set according to
// the configured policy.
func (c *Controller) Load(snap *contract.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var prev []*domain.Task
	if c.snapshot != nil {
		prev = c.snapshot.Tasks
	}
	if snap == nil {
		snap = &contract.Snapshot{ProjectID: c.projectID}
	}
	c.state.Expanded = reseed(c.policy, c.state.Expanded, prev, snap.Tasks)
	c.snapshot = snap
	if c.projectID == "" {
		c.projectID = snap.ProjectID
	}
}

// Refresh fetches the project from Source and loads it.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.source == nil {
		return fmt.Errorf("refreshing timeline: source: %w", ErrNotConfigured)
	}
	resp, err := c.source.Fetch(ctx, c.projectID)
	if err != nil {
		return fmt.Errorf("refreshing timeline: %w", err)
	}
	c.Load(resp.ToSnapshot())
	return nil
}

// Layout computes the current layout through the memo.
func (c *Controller) Layout() *gantt.Layout {
	return c.memo.Compute(c.input())
}

func (c *Controller) input() gantt.Input {
	c.mu.RLock()
	defer c.mu.RUnlock()
	in := gantt.Input{
		Today:            c.now().UTC(),
		Zoom:             c.state.Zoom,
		Expanded:         c.state.Expanded,
		Filter:           c.state.Filter,
		ShowCriticalPath: c.state.ShowCriticalPath,
		ShowDependencies: c.state.ShowDependencies,
		Metrics:          c.metrics,
	}
	if c.snapshot != nil {
		in.Tasks = c.snapshot.Tasks
		in.MinDate = c.snapshot.MinDate
		in.MaxDate = c.snapshot.MaxDate
		in.CriticalPath = c.snapshot.CriticalPath
	}
	return in
}

func (c *Controller) update(fn func(s *ViewState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// SetZoom replaces the zoom level. Unknown levels fall back to day.
func (c *Controller) SetZoom(level domain.ZoomLevel) {
	c.update(func(s *ViewState) { s.Zoom = gantt.ZoomConfigFor(level).Level })
}

func (c *Controller) ZoomIn() {
	c.update(func(s *ViewState) { s.Zoom = gantt.ZoomIn(s.Zoom) })
}

func (c *Controller) ZoomOut() {
	c.update(func(s *ViewState) { s.Zoom = gantt.ZoomOut(s.Zoom) })
}

// ToggleExpand flips the expansion of taskID.
func (c *Controller) ToggleExpand(taskID string) {
	c.update(func(s *ViewState) { s.Expanded = s.Expanded.Toggle(taskID) })
}

func (c *Controller) ExpandAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return
	}
	c.state.Expanded = gantt.DefaultExpansion(c.snapshot.Tasks)
}

func (c *Controller) CollapseAll() {
	c.update(func(s *ViewState) { s.Expanded = gantt.ExpansionSet{} })
}

func (c *Controller) ToggleCriticalPath() {
	c.update(func(s *ViewState) { s.ShowCriticalPath = !s.ShowCriticalPath })
}

func (c *Controller) ToggleDependencies() {
	c.update(func(s *ViewState) { s.ShowDependencies = !s.ShowDependencies })
}

func (c *Controller) SetFilter(f gantt.RowFilter) {
	c.update(func(s *ViewState) { s.Filter = f })
}

// HasChildren reports whether taskID is a parent in the loaded data.
func (c *Controller) HasChildren(taskID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return false
	}
	return gantt.IndexParents(c.snapshot.Tasks).HasChildren(taskID)
}

func (c *Controller) task(taskID string) (*domain.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	for _, t := range c.snapshot.Tasks {
		if t != nil && t.ID == taskID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
}
