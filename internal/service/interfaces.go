package service

import (
	"context"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
)

type ProjectService interface {
	List(ctx context.Context) ([]*domain.Project, error)
	// Resolve finds a project by id or, failing that, by short id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
}

type GanttService interface {
	GetGantt(ctx context.Context, projectID string) (*contract.GanttResponse, error)
}

type ScheduleService interface {
	UpdateDates(ctx context.Context, taskID string, req contract.DateUpdateRequest) error
	CreateDependency(ctx context.Context, req contract.DependencyRequest) error
	DeleteDependency(ctx context.Context, req contract.DependencyRequest) error
}

type BaselineService interface {
	CreateBulk(ctx context.Context, req contract.BaselineRequest) (*domain.Baseline, error)
	List(ctx context.Context, projectID string) ([]*domain.Baseline, error)
}

// ImportResult summarizes one gantt import.
type ImportResult struct {
	Project             *domain.Project
	TaskCount           int
	DependencyCount     int
	SkippedDependencies int
}

type ImportService interface {
	Import(ctx context.Context, resp *contract.GanttResponse) (*ImportResult, error)
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
}
