package controller

import (
	"context"

	"github.com/alexanderramin/ganttline/internal/contract"
)

// Source fetches the current timeline payload for a project.
type Source interface {
	Fetch(ctx context.Context, projectID string) (*contract.GanttResponse, error)
}

// CommandPort issues mutations to whatever owns the data. A successful
// command is followed by a refetch; the controller never patches in place.
type CommandPort interface {
	UpdateTaskDates(ctx context.Context, taskID string, req contract.DateUpdateRequest) error
	CreateDependency(ctx context.Context, req contract.DependencyRequest) error
	DeleteDependency(ctx context.Context, req contract.DependencyRequest) error
	CreateBaselines(ctx context.Context, req contract.BaselineRequest) error
}

// Navigator opens the detail view of a task.
type Navigator interface {
	OpenTask(ctx context.Context, taskID string) error
}

type NotificationLevel string

const (
	NotifyInfo  NotificationLevel = "info"
	NotifyError NotificationLevel = "error"
)

// Notification is a transient message for the user.
type Notification struct {
	Level   NotificationLevel
	Message string
	Err     error
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }
