package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
)

// OnTaskClick asks the Navigator to open the task. View state is untouched.
func (c *Controller) OnTaskClick(ctx context.Context, taskID string) error {
	if c.navigator == nil {
		return nil
	}
	return c.run(ctx, "open-task", taskID, nil, false, func() error {
		return c.navigator.OpenTask(ctx, taskID)
	})
}

// RequestDateUpdate sets both planned dates of a task. A nil date clears it.
func (c *Controller) RequestDateUpdate(ctx context.Context, taskID string, start, end *time.Time) error {
	return c.updateDates(ctx, "update-dates", taskID, dateRequest(start, end, true))
}

// MoveTask shifts a task by a horizontal drag of dx pixels at the current
// zoom. Drags shorter than half a day are ignored.
func (c *Controller) MoveTask(ctx context.Context, taskID string, dx float64) error {
	days := c.Layout().Mapper().DaysForPixels(dx)
	if days == 0 {
		return nil
	}
	t, err := c.task(taskID)
	if err != nil {
		return c.fail(ctx, "move-task", taskID, err)
	}
	if t.StartDate == nil {
		return c.fail(ctx, "move-task", taskID, fmt.Errorf("%w: %s", ErrUnscheduled, taskID))
	}
	start := shift(t.StartDate, days)
	end := shift(t.EndDate, days)
	return c.updateDates(ctx, "move-task", taskID, dateRequest(start, end, false))
}

// ResizeTask drags the end edge of a task by dx pixels. A task without an
// end date is treated as ending on its start day. The end never moves
// before the start.
func (c *Controller) ResizeTask(ctx context.Context, taskID string, dx float64) error {
	days := c.Layout().Mapper().DaysForPixels(dx)
	if days == 0 {
		return nil
	}
	t, err := c.task(taskID)
	if err != nil {
		return c.fail(ctx, "resize-task", taskID, err)
	}
	switch {
	case t.StartDate == nil:
		return c.fail(ctx, "resize-task", taskID, fmt.Errorf("%w: %s", ErrUnscheduled, taskID))
	case t.IsMilestone:
		return c.fail(ctx, "resize-task", taskID, ErrMilestoneResize)
	}
	base := t.EndDate
	if base == nil {
		base = t.StartDate
	}
	end := shift(base, days)
	if end.Before(*t.StartDate) {
		end = shift(t.StartDate, 0)
	}
	return c.updateDates(ctx, "resize-task", taskID, dateRequest(nil, end, false))
}

func (c *Controller) updateDates(ctx context.Context, name, taskID string, req contract.DateUpdateRequest) error {
	if c.commands == nil {
		return c.fail(ctx, name, taskID, fmt.Errorf("command port: %w", ErrNotConfigured))
	}
	fields := map[string]any{}
	if req.PlannedStartDate != nil {
		fields["start"] = *req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		fields["end"] = *req.PlannedEndDate
	}
	return c.run(ctx, name, taskID, fields, true, func() error {
		return c.commands.UpdateTaskDates(ctx, taskID, req)
	})
}

func (c *Controller) CreateDependency(ctx context.Context, req contract.DependencyRequest) error {
	return c.dependencyCommand(ctx, "create-dependency", req, func() error {
		return c.commands.CreateDependency(ctx, req)
	})
}

func (c *Controller) DeleteDependency(ctx context.Context, req contract.DependencyRequest) error {
	return c.dependencyCommand(ctx, "delete-dependency", req, func() error {
		return c.commands.DeleteDependency(ctx, req)
	})
}

func (c *Controller) dependencyCommand(ctx context.Context, name string, req contract.DependencyRequest, fn func() error) error {
	if c.commands == nil {
		return c.fail(ctx, name, req.SuccessorID, fmt.Errorf("command port: %w", ErrNotConfigured))
	}
	fields := map[string]any{"predecessor_id": req.PredecessorID, "type": req.DependencyType}
	return c.run(ctx, name, req.SuccessorID, fields, true, fn)
}

// SaveBaseline snapshots every loaded task. Only one save may be in flight;
// a second call while the first runs returns ErrBaselineInFlight.
func (c *Controller) SaveBaseline(ctx context.Context, name string) error {
	if !c.savingBaseline.CompareAndSwap(false, true) {
		return ErrBaselineInFlight
	}
	defer c.savingBaseline.Store(false)

	if c.commands == nil {
		return c.fail(ctx, "save-baseline", "", fmt.Errorf("command port: %w", ErrNotConfigured))
	}
	snap := c.Snapshot()
	if snap == nil {
		return c.fail(ctx, "save-baseline", "", ErrNoSnapshot)
	}
	req := contract.BaselineRequest{TaskIDs: make([]string, 0, len(snap.Tasks))}
	for _, t := range snap.Tasks {
		if t != nil {
			req.TaskIDs = append(req.TaskIDs, t.ID)
		}
	}
	if len(req.TaskIDs) == 0 {
		return c.fail(ctx, "save-baseline", "", ErrNoSnapshot)
	}
	if name != "" {
		req.BaselineName = &name
	}
	fields := map[string]any{"task_count": len(req.TaskIDs)}
	return c.run(ctx, "save-baseline", "", fields, true, func() error {
		return c.commands.CreateBaselines(ctx, req)
	})
}

// BaselineInFlight reports whether a baseline save is running.
func (c *Controller) BaselineInFlight() bool {
	return c.savingBaseline.Load()
}

// run executes one outbound command. Failures are reported to the Notifier
// and returned; view state is left as is. With refetch set, success is
// followed by a Refresh.
func (c *Controller) run(ctx context.Context, name, taskID string, fields map[string]any, refetch bool, fn func() error) (err error) {
	startedAt := time.Now()
	defer func() {
		c.observer.ObserveCommand(ctx, CommandEvent{
			Name:     name,
			TaskID:   taskID,
			Duration: time.Since(startedAt),
			Err:      err,
			Fields:   fields,
		})
	}()

	if err = fn(); err != nil {
		c.notifier.Notify(ctx, Notification{Level: NotifyError, Message: name + " failed: " + err.Error(), Err: err})
		return err
	}
	if !refetch || c.source == nil {
		return nil
	}
	if err = c.Refresh(ctx); err != nil {
		c.notifier.Notify(ctx, Notification{Level: NotifyError, Message: err.Error(), Err: err})
		return err
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, name, taskID string, err error) error {
	return c.run(ctx, name, taskID, nil, false, func() error { return err })
}

func shift(t *time.Time, days int) *time.Time {
	if t == nil {
		return nil
	}
	out := t.AddDate(0, 0, days)
	return &out
}

// dateRequest builds a date update. With clear set, nil dates become
// explicit clears; otherwise nil dates are left unchanged.
func dateRequest(start, end *time.Time, clear bool) contract.DateUpdateRequest {
	var req contract.DateUpdateRequest
	if start != nil {
		req.PlannedStartDate = contract.FormatOptionalDate(start)
	} else {
		req.ClearStart = clear
	}
	if end != nil {
		req.PlannedEndDate = contract.FormatOptionalDate(end)
	} else {
		req.ClearEnd = clear
	}
	return req
}
