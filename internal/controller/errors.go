package controller

import "errors"

var (
	// ErrBaselineInFlight is returned when a baseline save is already running.
	ErrBaselineInFlight = errors.New("baseline save already in progress")
	ErrNoSnapshot       = errors.New("no timeline loaded")
	ErrUnknownTask      = errors.New("task not in current timeline")
	ErrUnscheduled      = errors.New("task has no start date")
	ErrMilestoneResize  = errors.New("milestones have no duration to resize")
	ErrNotConfigured    = errors.New("collaborator not configured")
)
