package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
)

type ganttService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	observer UseCaseObserver
}

func NewGanttService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	observers ...UseCaseObserver,
) GanttService {
	return &ganttService{
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		observer: useCaseObserverOrNoop(observers),
	}
}

// GetGantt assembles the timeline payload for one project. Dependencies are
// attached to their successor; the critical path lists flagged tasks in
// list order.
func (s *ganttService) GetGantt(ctx context.Context, projectID string) (resp *contract.GanttResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer func() { observeUseCase(ctx, s.observer, "get-gantt", startedAt, fields, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	edges, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	lo, hi, err := s.tasks.DateBounds(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading date bounds: %w", err)
	}

	incoming := make(map[string][]domain.Dependency, len(tasks))
	for _, e := range edges {
		incoming[e.SuccessorID] = append(incoming[e.SuccessorID], domain.Dependency{
			PredecessorID: e.PredecessorID,
			Type:          e.Type,
			LagDays:       e.LagDays,
		})
	}

	resp = &contract.GanttResponse{
		ProjectID:    project.ID,
		ProjectName:  project.Name,
		Tasks:        make([]contract.TaskPayload, 0, len(tasks)),
		MinDate:      contract.FormatOptionalDate(lo),
		MaxDate:      contract.FormatOptionalDate(hi),
		CriticalPath: []string{},
	}
	for _, st := range tasks {
		task := st.Task
		task.Dependencies = incoming[task.ID]
		resp.Tasks = append(resp.Tasks, contract.NewTaskPayload(&task, st.IsCritical))
		if st.IsCritical {
			resp.CriticalPath = append(resp.CriticalPath, task.ID)
		}
	}
	fields["task_count"] = len(resp.Tasks)
	fields["dependency_count"] = len(edges)
	return resp, nil
}
