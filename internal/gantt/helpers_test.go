package gantt

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func strPtr(s string) *string { return &s }

type taskOpt func(*domain.Task)

func newTask(id string, opts ...taskOpt) *domain.Task {
	t := &domain.Task{
		ID:       id,
		Title:    "Task " + id,
		Status:   domain.StatusNew,
		Priority: domain.PriorityMedium,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func withDates(start, end string) taskOpt {
	return func(t *domain.Task) {
		if start != "" {
			t.StartDate = dayPtr(start)
		}
		if end != "" {
			t.EndDate = dayPtr(end)
		}
	}
}

func withParent(id string) taskOpt {
	return func(t *domain.Task) { t.ParentID = strPtr(id) }
}

func withMilestone() taskOpt {
	return func(t *domain.Task) { t.IsMilestone = true }
}

func withStatus(s domain.TaskStatus) taskOpt {
	return func(t *domain.Task) { t.Status = s }
}

func withDeps(preds ...string) taskOpt {
	return func(t *domain.Task) {
		for _, p := range preds {
			t.Dependencies = append(t.Dependencies, domain.Dependency{PredecessorID: p, Type: domain.DepFinishToStart})
		}
	}
}

func rowIDs(rows []VisibleRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Task.ID
	}
	return ids
}
