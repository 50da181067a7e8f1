package domain

import "time"

// Baseline is a saved snapshot of planned dates for a set of tasks.
type Baseline struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
	Entries   []BaselineEntry
}

type BaselineEntry struct {
	TaskID       string
	PlannedStart *time.Time
	PlannedEnd   *time.Time
}
