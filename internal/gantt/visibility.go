package gantt

import (
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// VisibleRow is a task plus its row index in the current visible ordering.
type VisibleRow struct {
	Task        *domain.Task
	Index       int
	HasChildren bool
	Expanded    bool
}

type visState uint8

const (
	visUnknown visState = iota
	visVisiting
	visShown
	visHidden
)

// VisibleRows filters tasks down to the rows whose every ancestor is
// expanded, preserving input order. Roots are always visible; a parent id
// that names no task in the list is treated as a root.
//
// Tasks are resolved in one pass with a hidden-ids accumulator. A parent
// that appears later in the input is resolved on demand; the visiting mark
// turns any parent_id cycle into hidden rows instead of unbounded recursion.
func VisibleRows(tasks []*domain.Task, expanded ExpansionSet) []VisibleRow {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		if t != nil {
			if _, dup := byID[t.ID]; !dup {
				byID[t.ID] = t
			}
		}
	}
	parents := IndexParents(tasks)
	state := make(map[string]visState, len(tasks))

	var resolve func(t *domain.Task) visState
	resolve = func(t *domain.Task) visState {
		switch s := state[t.ID]; s {
		case visShown, visHidden:
			return s
		case visVisiting:
			// Re-entered through our own ancestry: a cycle.
			state[t.ID] = visHidden
			return visHidden
		}
		if t.ParentID == nil {
			state[t.ID] = visShown
			return visShown
		}
		parent, ok := byID[*t.ParentID]
		if !ok {
			state[t.ID] = visShown
			return visShown
		}
		state[t.ID] = visVisiting
		result := visHidden
		if expanded.Has(parent.ID) && resolve(parent) == visShown {
			result = visShown
		}
		if state[t.ID] == visHidden {
			// A cycle was detected below us; stay hidden.
			result = visHidden
		}
		state[t.ID] = result
		return result
	}

	rows := make([]VisibleRow, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t == nil || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if resolve(t) != visShown {
			continue
		}
		rows = append(rows, VisibleRow{
			Task:        t,
			Index:       len(rows),
			HasChildren: parents.HasChildren(t.ID),
			Expanded:    expanded.Has(t.ID),
		})
	}
	return rows
}

// RowFilter narrows visible rows by status and by a case-insensitive text
// match on title or assignee. The zero value keeps every row.
type RowFilter struct {
	Statuses []domain.TaskStatus
	Text     string
}

func (f RowFilter) IsZero() bool {
	return len(f.Statuses) == 0 && strings.TrimSpace(f.Text) == ""
}

// Apply drops rows that fail the filter and renumbers the survivors.
func (f RowFilter) Apply(rows []VisibleRow) []VisibleRow {
	if f.IsZero() {
		return rows
	}
	text := strings.ToLower(strings.TrimSpace(f.Text))
	out := make([]VisibleRow, 0, len(rows))
	for _, r := range rows {
		if !f.matchStatus(r.Task.Status) {
			continue
		}
		if text != "" && !matchText(r.Task, text) {
			continue
		}
		r.Index = len(out)
		out = append(out, r)
	}
	return out
}

func (f RowFilter) matchStatus(s domain.TaskStatus) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, want := range f.Statuses {
		if s == want {
			return true
		}
	}
	return false
}

func matchText(t *domain.Task, text string) bool {
	if strings.Contains(strings.ToLower(t.Title), text) {
		return true
	}
	return t.AssigneeName != nil && strings.Contains(strings.ToLower(*t.AssigneeName), text)
}
