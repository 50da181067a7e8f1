package service

import (
	"context"

	"github.com/alexanderramin/ganttline/internal/contract"
)

// LocalPort serves the timeline controller straight from the local store,
// without going through HTTP.
type LocalPort struct {
	Gantt     GanttService
	Schedule  ScheduleService
	Baselines BaselineService
}

func NewLocalPort(gantt GanttService, schedule ScheduleService, baselines BaselineService) *LocalPort {
	return &LocalPort{Gantt: gantt, Schedule: schedule, Baselines: baselines}
}

func (p *LocalPort) Fetch(ctx context.Context, projectID string) (*contract.GanttResponse, error) {
	return p.Gantt.GetGantt(ctx, projectID)
}

func (p *LocalPort) UpdateTaskDates(ctx context.Context, taskID string, req contract.DateUpdateRequest) error {
	return p.Schedule.UpdateDates(ctx, taskID, req)
}

func (p *LocalPort) CreateDependency(ctx context.Context, req contract.DependencyRequest) error {
	return p.Schedule.CreateDependency(ctx, req)
}

func (p *LocalPort) DeleteDependency(ctx context.Context, req contract.DependencyRequest) error {
	return p.Schedule.DeleteDependency(ctx, req)
}

func (p *LocalPort) CreateBaselines(ctx context.Context, req contract.BaselineRequest) error {
	_, err := p.Baselines.CreateBulk(ctx, req)
	return err
}
