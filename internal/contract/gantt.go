package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// GanttResponse is the per-project payload the timeline consumes.
type GanttResponse struct {
	ProjectID    string        `json:"project_id"`
	ProjectName  string        `json:"project_name"`
	Tasks        []TaskPayload `json:"tasks"`
	MinDate      *string       `json:"min_date"`
	MaxDate      *string       `json:"max_date"`
	CriticalPath []string      `json:"critical_path"`
}

// TaskPayload is one task as it travels over the wire.
type TaskPayload struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Status       string              `json:"status"`
	Priority     string              `json:"priority"`
	StartDate    *string             `json:"start_date"`
	EndDate      *string             `json:"end_date"`
	IsMilestone  bool                `json:"is_milestone"`
	Progress     int                 `json:"progress"`
	ParentID     *string             `json:"parent_id"`
	Depth        int                 `json:"depth"`
	Dependencies []DependencyPayload `json:"dependencies"`
	AssigneeName *string             `json:"assignee_name"`
	IsCritical   bool                `json:"is_critical,omitempty"`
}

// DependencyPayload is an incoming edge listed on its successor.
type DependencyPayload struct {
	PredecessorID  string `json:"predecessor_id"`
	DependencyType string `json:"type"`
	LagDays        int    `json:"lag_days"`
}

// Snapshot is a GanttResponse resolved into domain types.
type Snapshot struct {
	ProjectID    string
	ProjectName  string
	Tasks        []*domain.Task
	MinDate      *time.Time
	MaxDate      *time.Time
	CriticalPath []string
}

// ParseGanttResponse decodes a JSON payload. Only malformed JSON is an error.
func ParseGanttResponse(data []byte) (*GanttResponse, error) {
	var resp GanttResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing gantt response: %w", err)
	}
	return &resp, nil
}

// LoadGanttFile reads and parses a saved gantt response.
func LoadGanttFile(path string) (*GanttResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGanttResponse(data)
}

// ToSnapshot converts the payload leniently: unparseable dates become nil,
// unknown enums are kept verbatim and an unknown dependency type is read as
// FS. Tasks flagged is_critical are merged into the critical path. Missing
// bounds are derived from the task dates.
func (r *GanttResponse) ToSnapshot() *Snapshot {
	snap := &Snapshot{
		ProjectID:   r.ProjectID,
		ProjectName: r.ProjectName,
		Tasks:       make([]*domain.Task, 0, len(r.Tasks)),
		MinDate:     parseOptionalDate(r.MinDate),
		MaxDate:     parseOptionalDate(r.MaxDate),
	}

	critical := make(map[string]bool, len(r.CriticalPath))
	for _, id := range r.CriticalPath {
		if !critical[id] {
			critical[id] = true
			snap.CriticalPath = append(snap.CriticalPath, id)
		}
	}

	var lo, hi *time.Time
	for i := range r.Tasks {
		p := &r.Tasks[i]
		t := p.ToTask(r.ProjectID)
		snap.Tasks = append(snap.Tasks, t)
		if p.IsCritical && !critical[p.ID] {
			critical[p.ID] = true
			snap.CriticalPath = append(snap.CriticalPath, p.ID)
		}
		lo = domain.EarliestTime(lo, t.StartDate, t.EndDate)
		hi = domain.LatestTime(hi, t.StartDate, t.EndDate)
	}
	if snap.MinDate == nil {
		snap.MinDate = lo
	}
	if snap.MaxDate == nil {
		snap.MaxDate = hi
	}
	return snap
}

// ToTask converts one payload into a domain task.
func (p *TaskPayload) ToTask(projectID string) *domain.Task {
	t := &domain.Task{
		ID:           p.ID,
		ProjectID:    projectID,
		Title:        p.Title,
		Status:       domain.TaskStatus(p.Status),
		Priority:     domain.Priority(p.Priority),
		StartDate:    parseOptionalDate(p.StartDate),
		EndDate:      parseOptionalDate(p.EndDate),
		IsMilestone:  p.IsMilestone,
		Progress:     p.Progress,
		ParentID:     nonEmpty(p.ParentID),
		Depth:        p.Depth,
		AssigneeName: nonEmpty(p.AssigneeName),
	}
	for _, d := range p.Dependencies {
		dt, err := domain.ParseDependencyType(d.DependencyType)
		if err != nil {
			dt = domain.DepFinishToStart
		}
		t.Dependencies = append(t.Dependencies, domain.Dependency{
			PredecessorID: d.PredecessorID,
			Type:          dt,
			LagDays:       d.LagDays,
		})
	}
	return t
}

// NewTaskPayload converts a domain task back to its wire form.
func NewTaskPayload(t *domain.Task, critical bool) TaskPayload {
	p := TaskPayload{
		ID:           t.ID,
		Title:        t.Title,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		StartDate:    FormatOptionalDate(t.StartDate),
		EndDate:      FormatOptionalDate(t.EndDate),
		IsMilestone:  t.IsMilestone,
		Progress:     t.Progress,
		ParentID:     t.ParentID,
		Depth:        t.Depth,
		AssigneeName: t.AssigneeName,
		IsCritical:   critical,
		Dependencies: make([]DependencyPayload, 0, len(t.Dependencies)),
	}
	for _, d := range t.Dependencies {
		p.Dependencies = append(p.Dependencies, DependencyPayload{
			PredecessorID:  d.PredecessorID,
			DependencyType: string(d.Type),
			LagDays:        d.LagDays,
		})
	}
	return p
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
