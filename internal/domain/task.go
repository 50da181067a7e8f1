package domain

import "time"

// Task is one schedulable unit on the timeline. Dates are nullable because a
// task may be unscheduled.
type Task struct {
	ID           string
	ProjectID    string
	Title        string
	Status       TaskStatus
	Priority     Priority
	StartDate    *time.Time
	EndDate      *time.Time
	IsMilestone  bool
	Progress     int
	ParentID     *string
	Depth        int
	OrderIndex   int
	Dependencies []Dependency
	AssigneeName *string
}

// Dependency is an incoming edge owned by the successor task.
type Dependency struct {
	PredecessorID string
	Type          DependencyType
	LagDays       int
}

// DependencyEdge is a fully resolved predecessor -> successor relation.
type DependencyEdge struct {
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	LagDays       int
}

// Scheduled reports whether the task has a start date.
func (t *Task) Scheduled() bool {
	return t.StartDate != nil
}

// EdgesOf flattens the per-task dependency lists into edges, preserving task
// order and the order of each task's dependency list.
func EdgesOf(tasks []*Task) []DependencyEdge {
	var edges []DependencyEdge
	for _, t := range tasks {
		if t == nil {
			continue
		}
		for _, d := range t.Dependencies {
			edges = append(edges, DependencyEdge{
				PredecessorID: d.PredecessorID,
				SuccessorID:   t.ID,
				Type:          d.Type,
				LagDays:       d.LagDays,
			})
		}
	}
	return edges
}

// ClampProgress bounds a progress percentage to 0..100.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
