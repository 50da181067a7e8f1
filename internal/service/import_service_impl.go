package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/google/uuid"
)

const defaultImportedProjectName = "Imported project"

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	resp, err := contract.LoadGanttFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s.Import(ctx, resp)
}

// Import replaces the project's tasks and dependencies with the payload in a
// single transaction. Edges that point at unknown tasks, or at the task
// itself, are skipped and counted rather than failing the import.
func (s *importService) Import(ctx context.Context, resp *contract.GanttResponse) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observeUseCase(ctx, s.observer, "import-gantt", startedAt, fields, err) }()

	if resp == nil {
		return nil, fmt.Errorf("%w: empty gantt payload", ErrInvalidRequest)
	}
	snap := resp.ToSnapshot()
	if snap.ProjectID == "" {
		snap.ProjectID = uuid.New().String()
	}
	name := strings.TrimSpace(snap.ProjectName)
	if name == "" {
		name = defaultImportedProjectName
	}
	fields["project_id"] = snap.ProjectID

	seen := make(map[string]bool, len(snap.Tasks))
	for i, t := range snap.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("%w: tasks[%d] has no id", ErrInvalidRequest, i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrInvalidRequest, t.ID)
		}
		seen[t.ID] = true
	}
	critical := make(map[string]bool, len(snap.CriticalPath))
	for _, id := range snap.CriticalPath {
		critical[id] = true
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)
		deps := repository.NewSQLiteDependencyRepo(tx)

		now := time.Now().UTC().Truncate(time.Second)
		project := &domain.Project{ID: snap.ProjectID, Name: name, CreatedAt: now, UpdatedAt: now}
		existing, err := projects.GetByID(ctx, snap.ProjectID)
		switch {
		case err == nil:
			project.ShortID = existing.ShortID
			project.CreatedAt = existing.CreatedAt
		case !errors.Is(err, ErrNotFound):
			return err
		}
		if err := projects.Upsert(ctx, project); err != nil {
			return err
		}
		if err := tasks.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}

		for i, t := range snap.Tasks {
			t.ProjectID = project.ID
			t.OrderIndex = i
			if err := tasks.Upsert(ctx, &repository.StoredTask{Task: *t, IsCritical: critical[t.ID]}); err != nil {
				return fmt.Errorf("importing task %s: %w", t.ID, err)
			}
		}
		result.TaskCount = len(snap.Tasks)

		created := make(map[[2]string]bool)
		for _, e := range domain.EdgesOf(snap.Tasks) {
			key := [2]string{e.PredecessorID, e.SuccessorID}
			if !seen[e.PredecessorID] || e.PredecessorID == e.SuccessorID || created[key] {
				result.SkippedDependencies++
				continue
			}
			if err := deps.Create(ctx, e); err != nil {
				return fmt.Errorf("importing dependency %s -> %s: %w", e.PredecessorID, e.SuccessorID, err)
			}
			created[key] = true
			result.DependencyCount++
		}

		result.Project = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_count"] = result.TaskCount
	fields["dependency_count"] = result.DependencyCount
	fields["skipped_dependencies"] = result.SkippedDependencies
	return result, nil
}
