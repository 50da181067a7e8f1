package controller

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

// ExpansionPolicy decides what happens to the expansion set when a new task
// list is loaded.
type ExpansionPolicy string

const (
	// ExpandAllOnLoad re-seeds the set with every parent on each load,
	// discarding manual collapses.
	ExpandAllOnLoad ExpansionPolicy = "expand_all"
	// PreserveManual keeps prior choices and only expands parents that were
	// not present in the previous list.
	PreserveManual ExpansionPolicy = "preserve_manual"
)

func ParseExpansionPolicy(s string) (ExpansionPolicy, error) {
	switch ExpansionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExpandAllOnLoad:
		return ExpandAllOnLoad, nil
	case PreserveManual:
		return PreserveManual, nil
	default:
		return "", fmt.Errorf("invalid expansion policy %q (expected %s or %s)", s, ExpandAllOnLoad, PreserveManual)
	}
}

// ViewState is everything the user can change about the view without
// touching the data.
type ViewState struct {
	Zoom             domain.ZoomLevel
	Expanded         gantt.ExpansionSet
	ShowCriticalPath bool
	ShowDependencies bool
	Filter           gantt.RowFilter
}

// DefaultViewState is day zoom with both overlays on.
func DefaultViewState() ViewState {
	return ViewState{
		Zoom:             domain.ZoomDay,
		Expanded:         gantt.ExpansionSet{},
		ShowCriticalPath: true,
		ShowDependencies: true,
	}
}

func (s ViewState) clone() ViewState {
	out := s
	out.Expanded = s.Expanded.Clone()
	out.Filter.Statuses = append([]domain.TaskStatus(nil), s.Filter.Statuses...)
	return out
}

// reseed applies policy to the expansion set for a new task list. prev is
// the list the current set was built against, or nil on first load.
func reseed(policy ExpansionPolicy, current gantt.ExpansionSet, prev, next []*domain.Task) gantt.ExpansionSet {
	if policy != PreserveManual || prev == nil {
		return gantt.DefaultExpansion(next)
	}
	known := gantt.IndexParents(prev)
	ids := make(map[string]bool, len(next))
	for _, t := range next {
		if t != nil {
			ids[t.ID] = true
		}
	}
	out := gantt.ExpansionSet{}
	for id := range current {
		if ids[id] {
			out[id] = struct{}{}
		}
	}
	for id := range gantt.DefaultExpansion(next) {
		if !known.HasChildren(id) {
			out[id] = struct{}{}
		}
	}
	return out
}
