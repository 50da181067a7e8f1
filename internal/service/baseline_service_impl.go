package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/google/uuid"
)

type baselineService struct {
	baselines repository.BaselineRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewBaselineService(baselines repository.BaselineRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BaselineService {
	return &baselineService{
		baselines: baselines,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBulk snapshots the current planned dates of every requested task.
// All tasks must exist and belong to one project.
func (s *baselineService) CreateBulk(ctx context.Context, req contract.BaselineRequest) (baseline *domain.Baseline, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_count": len(req.TaskIDs)}
	defer func() { observeUseCase(ctx, s.observer, "create-baseline", startedAt, fields, err) }()

	if err := contract.JoinErrors(req.Validate()); err != nil {
		return nil, err
	}

	now := s.now()
	name := ""
	if req.BaselineName != nil {
		name = strings.TrimSpace(*req.BaselineName)
	}
	if name == "" {
		name = "Baseline " + now.Format("2006-01-02 15:04")
	}
	baseline = &domain.Baseline{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now.Truncate(time.Second),
		Entries:   make([]domain.BaselineEntry, 0, len(req.TaskIDs)),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		for _, id := range req.TaskIDs {
			task, err := tasks.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if baseline.ProjectID == "" {
				baseline.ProjectID = task.ProjectID
			} else if task.ProjectID != baseline.ProjectID {
				return fmt.Errorf("%w: task %s is not in project %s", ErrInvalidRequest, id, baseline.ProjectID)
			}
			baseline.Entries = append(baseline.Entries, domain.BaselineEntry{
				TaskID:       task.ID,
				PlannedStart: task.StartDate,
				PlannedEnd:   task.EndDate,
			})
		}
		return repository.NewSQLiteBaselineRepo(tx).Create(ctx, baseline)
	})
	if err != nil {
		return nil, err
	}
	fields["baseline_id"] = baseline.ID
	fields["project_id"] = baseline.ProjectID
	return baseline, nil
}

func (s *baselineService) List(ctx context.Context, projectID string) ([]*domain.Baseline, error) {
	return s.baselines.ListByProject(ctx, projectID)
}
