package httpserver

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

type projectJSON struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"short_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProjectJSON(p *domain.Project) projectJSON {
	return projectJSON{ID: p.ID, ShortID: p.ShortID, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type baselineEntryJSON struct {
	TaskID       string  `json:"task_id"`
	PlannedStart *string `json:"planned_start"`
	PlannedEnd   *string `json:"planned_end"`
}

type baselineJSON struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"project_id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	Entries   []baselineEntryJSON `json:"entries"`
}

func newBaselineJSON(b *domain.Baseline) baselineJSON {
	out := baselineJSON{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		Entries:   make([]baselineEntryJSON, 0, len(b.Entries)),
	}
	for _, e := range b.Entries {
		out.Entries = append(out.Entries, baselineEntryJSON{
			TaskID:       e.TaskID,
			PlannedStart: contract.FormatOptionalDate(e.PlannedStart),
			PlannedEnd:   contract.FormatOptionalDate(e.PlannedEnd),
		})
	}
	return out
}

type headerCellJSON struct {
	Label   string `json:"label"`
	X       int    `json:"x"`
	Width   int    `json:"width"`
	Start   string `json:"start"`
	Weekend bool   `json:"weekend,omitempty"`
	Today   bool   `json:"today,omitempty"`
}

type rowJSON struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Index       int    `json:"index"`
	Depth       int    `json:"depth"`
	HasChildren bool   `json:"has_children"`
	Expanded    bool   `json:"expanded"`
}

type barJSON struct {
	TaskID        string  `json:"task_id"`
	Row           int     `json:"row"`
	Kind          string  `json:"kind"`
	Left          float64 `json:"left"`
	Width         float64 `json:"width"`
	Top           float64 `json:"top"`
	Height        float64 `json:"height"`
	Background    string  `json:"background"`
	Border        string  `json:"border"`
	Text          string  `json:"text"`
	Accent        string  `json:"accent"`
	Critical      bool    `json:"critical"`
	Progress      int     `json:"progress"`
	ProgressWidth float64 `json:"progress_width"`
	Status        string  `json:"status"`
	Assignee      string  `json:"assignee,omitempty"`
}

type connectorJSON struct {
	PredecessorID string `json:"predecessor_id"`
	SuccessorID   string `json:"successor_id"`
	Type          string `json:"type"`
	LagDays       int    `json:"lag_days"`
	Critical      bool   `json:"critical"`
	Path          string `json:"path"`
}

type layoutJSON struct {
	Empty        bool             `json:"empty"`
	Message      string           `json:"message,omitempty"`
	Zoom         string           `json:"zoom"`
	Start        string           `json:"start,omitempty"`
	End          string           `json:"end,omitempty"`
	TotalDays    int              `json:"total_days"`
	Width        int              `json:"width"`
	Height       float64          `json:"height"`
	TodayX       *float64         `json:"today_x"`
	Primary      []headerCellJSON `json:"header_primary"`
	Secondary    []headerCellJSON `json:"header_secondary"`
	Rows         []rowJSON        `json:"rows"`
	Bars         []barJSON        `json:"bars"`
	Connectors   []connectorJSON  `json:"connectors"`
	CriticalPath []string         `json:"critical_path"`
}

func newLayoutJSON(l *gantt.Layout) layoutJSON {
	out := layoutJSON{
		Empty:        l.Empty,
		Message:      l.Message,
		Zoom:         string(l.Zoom.Level),
		TotalDays:    l.Window.TotalDays,
		Width:        l.Width,
		Height:       l.Height,
		TodayX:       l.TodayX,
		Primary:      headerCells(l.Header.Primary),
		Secondary:    headerCells(l.Header.Secondary),
		Rows:         make([]rowJSON, 0, len(l.Rows)),
		Bars:         make([]barJSON, 0, len(l.Bars)),
		Connectors:   make([]connectorJSON, 0, len(l.Connectors)),
		CriticalPath: append([]string{}, l.CriticalPath...),
	}
	if !l.Empty {
		out.Start = contract.FormatDate(l.Window.Start)
		out.End = contract.FormatDate(l.Window.End)
	}
	for _, r := range l.Rows {
		out.Rows = append(out.Rows, rowJSON{
			TaskID:      r.Task.ID,
			Title:       r.Task.Title,
			Index:       r.Index,
			Depth:       r.Task.Depth,
			HasChildren: r.HasChildren,
			Expanded:    r.Expanded,
		})
	}
	for _, b := range l.Bars {
		out.Bars = append(out.Bars, barJSON{
			TaskID:        b.TaskID,
			Row:           b.Row,
			Kind:          string(b.Kind),
			Left:          b.Left,
			Width:         b.Width,
			Top:           b.Top,
			Height:        b.Height,
			Background:    b.Palette.Background,
			Border:        b.Palette.Border,
			Text:          b.Palette.Text,
			Accent:        b.Accent,
			Critical:      b.Critical,
			Progress:      b.Progress,
			ProgressWidth: b.ProgressWidth,
			Status:        string(b.Status),
			Assignee:      b.Assignee,
		})
	}
	for _, c := range l.Connectors {
		out.Connectors = append(out.Connectors, connectorJSON{
			PredecessorID: c.PredecessorID,
			SuccessorID:   c.SuccessorID,
			Type:          string(c.Type),
			LagDays:       c.LagDays,
			Critical:      c.Critical,
			Path:          c.Path(),
		})
	}
	return out
}

func headerCells(cells []gantt.HeaderCell) []headerCellJSON {
	out := make([]headerCellJSON, 0, len(cells))
	for _, c := range cells {
		out = append(out, headerCellJSON{
			Label:   c.Label,
			X:       c.X,
			Width:   c.Width,
			Start:   contract.FormatDate(c.Start),
			Weekend: c.Weekend,
			Today:   c.Today,
		})
	}
	return out
}
