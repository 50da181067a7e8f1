package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	StatusDraft      TaskStatus = "draft"
	StatusNew        TaskStatus = "new"
	StatusAssigned   TaskStatus = "assigned"
	StatusInProgress TaskStatus = "in_progress"
	StatusOnHold     TaskStatus = "on_hold"
	StatusInReview   TaskStatus = "in_review"
	StatusRework     TaskStatus = "rework"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses is the canonical ordered set of known task statuses.
var TaskStatuses = []TaskStatus{
	StatusDraft, StatusNew, StatusAssigned, StatusInProgress, StatusOnHold,
	StatusInReview, StatusRework, StatusDone, StatusCancelled,
}

// Known reports whether s is one of the enumerated statuses.
func (s TaskStatus) Known() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities is the canonical ordered set of known priorities.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// DependencyType is the scheduling relation between predecessor and successor.
type DependencyType string

const (
	DepFinishToStart  DependencyType = "FS"
	DepStartToStart   DependencyType = "SS"
	DepFinishToFinish DependencyType = "FF"
	DepStartToFinish  DependencyType = "SF"
)

// ParseDependencyType accepts FS/SS/FF/SF in any case. Empty input means FS.
func ParseDependencyType(s string) (DependencyType, error) {
	switch DependencyType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", DepFinishToStart:
		return DepFinishToStart, nil
	case DepStartToStart:
		return DepStartToStart, nil
	case DepFinishToFinish:
		return DepFinishToFinish, nil
	case DepStartToFinish:
		return DepStartToFinish, nil
	default:
		return "", fmt.Errorf("invalid dependency type %q (expected FS, SS, FF or SF)", s)
	}
}

// ZoomLevel controls time-to-pixel density and header bucketing.
type ZoomLevel string

const (
	ZoomDay   ZoomLevel = "day"
	ZoomWeek  ZoomLevel = "week"
	ZoomMonth ZoomLevel = "month"
)

// ParseZoomLevel accepts day/week/month in any case.
func ParseZoomLevel(s string) (ZoomLevel, error) {
	switch ZoomLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ZoomDay:
		return ZoomDay, nil
	case ZoomWeek:
		return ZoomWeek, nil
	case ZoomMonth:
		return ZoomMonth, nil
	default:
		return "", fmt.Errorf("invalid zoom level %q (expected day, week or month)", s)
	}
}
