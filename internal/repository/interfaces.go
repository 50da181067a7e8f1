package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// StoredTask is a task row plus the upstream critical-path flag stored with it.
type StoredTask struct {
	domain.Task
	IsCritical bool
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	Upsert(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Upsert(ctx context.Context, t *StoredTask) error
	GetByID(ctx context.Context, id string) (*StoredTask, error)
	// ListByProject returns tasks ordered by order_index, without dependencies.
	ListByProject(ctx context.Context, projectID string) ([]*StoredTask, error)
	UpdateDates(ctx context.Context, id string, start, end *time.Time) error
	// DateBounds returns the earliest and latest start/end date in the project.
	DateBounds(ctx context.Context, projectID string) (min, max *time.Time, err error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, e domain.DependencyEdge) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	Exists(ctx context.Context, predecessorID, successorID string) (bool, error)
	// ListByProject returns every edge whose successor belongs to the project,
	// ordered by successor then creation.
	ListByProject(ctx context.Context, projectID string) ([]domain.DependencyEdge, error)
}

type BaselineRepo interface {
	// Create stores the baseline and all its entries.
	Create(ctx context.Context, b *domain.Baseline) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Baseline, error)
}
