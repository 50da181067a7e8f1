package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/google/uuid"
)

var (
	testShortIDCounter atomic.Int64
	testOrderCounter   atomic.Int64
)

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

// Date parses a YYYY-MM-DD literal, panicking on bad input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func WithDates(start, end string) TaskOption {
	return func(t *domain.Task) {
		if start != "" {
			d := Date(start)
			t.StartDate = &d
		}
		if end != "" {
			d := Date(end)
			t.EndDate = &d
		}
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithDepth(d int) TaskOption {
	return func(t *domain.Task) {
		t.Depth = d
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithMilestone() TaskOption {
	return func(t *domain.Task) {
		t.IsMilestone = true
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithAssignee(name string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeName = &name
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

// NewTestTask builds a task in projectID. Order indexes increase with each
// call so insertion order is list order.
func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Title:      title,
		Status:     domain.StatusNew,
		Priority:   domain.PriorityMedium,
		OrderIndex: int(testOrderCounter.Add(1)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func WithDependency(predecessorID string, depType domain.DependencyType, lagDays int) TaskOption {
	return func(t *domain.Task) {
		t.Dependencies = append(t.Dependencies, domain.Dependency{
			PredecessorID: predecessorID,
			Type:          depType,
			LagDays:       lagDays,
		})
	}
}
