package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
)

type scheduleService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewScheduleService builds the mutation use cases. Every write runs inside
// uow with tx-scoped repositories.
func NewScheduleService(uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *scheduleService) UpdateDates(ctx context.Context, taskID string, req contract.DateUpdateRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID}
	defer func() { observeUseCase(ctx, s.observer, "update-dates", startedAt, fields, err) }()

	if err := contract.JoinErrors(req.Validate()); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		task, err := tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		start, end := task.StartDate, task.EndDate
		if req.ClearStart {
			start = nil
		} else if req.PlannedStartDate != nil {
			d, _ := contract.ParseDate(*req.PlannedStartDate)
			start = &d
		}
		if req.ClearEnd {
			end = nil
		} else if req.PlannedEndDate != nil {
			d, _ := contract.ParseDate(*req.PlannedEndDate)
			end = &d
		}
		if start != nil && end != nil && end.Before(*start) {
			return fmt.Errorf("%w: end date %s precedes start date %s", ErrInvalidRequest,
				contract.FormatDate(*end), contract.FormatDate(*start))
		}

		fields["start"] = contract.FormatOptionalDate(start)
		fields["end"] = contract.FormatOptionalDate(end)
		return tasks.UpdateDates(ctx, taskID, start, end)
	})
}

func (s *scheduleService) CreateDependency(ctx context.Context, req contract.DependencyRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"predecessor_id": req.PredecessorID, "successor_id": req.SuccessorID}
	defer func() { observeUseCase(ctx, s.observer, "create-dependency", startedAt, fields, err) }()

	if err := contract.JoinErrors(req.Validate()); err != nil {
		return err
	}
	edge := req.Edge()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		deps := repository.NewSQLiteDependencyRepo(tx)

		pred, err := tasks.GetByID(ctx, edge.PredecessorID)
		if err != nil {
			return err
		}
		succ, err := tasks.GetByID(ctx, edge.SuccessorID)
		if err != nil {
			return err
		}
		if pred.ProjectID != succ.ProjectID {
			return fmt.Errorf("%w: %s and %s belong to different projects", ErrInvalidDependency, pred.ID, succ.ID)
		}

		existing, err := deps.ListByProject(ctx, succ.ProjectID)
		if err != nil {
			return err
		}
		if reaches(existing, edge.SuccessorID, edge.PredecessorID) {
			return fmt.Errorf("%w: %s -> %s would create a cycle", ErrInvalidDependency, pred.ID, succ.ID)
		}
		fields["type"] = string(edge.Type)
		return deps.Create(ctx, edge)
	})
}

func (s *scheduleService) DeleteDependency(ctx context.Context, req contract.DependencyRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"predecessor_id": req.PredecessorID, "successor_id": req.SuccessorID}
	defer func() { observeUseCase(ctx, s.observer, "delete-dependency", startedAt, fields, err) }()

	if req.PredecessorID == "" || req.SuccessorID == "" {
		return fmt.Errorf("%w: predecessor_id and successor_id are required", ErrInvalidRequest)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteDependencyRepo(tx).Delete(ctx, req.PredecessorID, req.SuccessorID)
	})
}

// reaches reports whether to is reachable from from along existing edges.
func reaches(edges []domain.DependencyEdge, from, to string) bool {
	next := make(map[string][]string, len(edges))
	for _, e := range edges {
		next[e.PredecessorID] = append(next[e.PredecessorID], e.SuccessorID)
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		for _, n := range next[cur] {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}
