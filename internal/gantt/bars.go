package gantt

import (
	"math"
	"sort"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// BarKind distinguishes the three bar geometries.
type BarKind string

const (
	KindRanged    BarKind = "ranged"
	KindSingleDay BarKind = "single_day"
	KindMilestone BarKind = "milestone"
)

// RowMetrics are the fixed pixel sizes used for row placement.
type RowMetrics struct {
	RowHeight      float64
	BarHeight      float64
	MilestoneSize  float64
	SingleDayWidth float64
	MinBarWidth    float64
}

// DefaultRowMetrics returns the standard sizes: 40px rows, 24px bars,
// 16px milestones, 40px single-day bars and a 20px bar floor.
func DefaultRowMetrics() RowMetrics {
	return RowMetrics{
		RowHeight:      40,
		BarHeight:      24,
		MilestoneSize:  16,
		SingleDayWidth: 40,
		MinBarWidth:    20,
	}
}

// CriticalSet holds the externally computed critical-path task ids.
type CriticalSet map[string]struct{}

func NewCriticalSet(ids ...string) CriticalSet {
	s := make(CriticalSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s CriticalSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted.
func (s CriticalSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TaskBar is the placed geometry and visual encoding of one row's task.
// For milestones Left/Width describe the diamond's bounding box.
type TaskBar struct {
	TaskID        string
	Title         string
	Row           int
	Depth         int
	Kind          BarKind
	Left          float64
	Width         float64
	Top           float64
	Height        float64
	Palette       Palette
	Accent        string
	Critical      bool
	Progress      int
	ProgressWidth float64
	Assignee      string
	Status        domain.TaskStatus
}

// Right is the X where the bar ends (the diamond's right tip for milestones).
func (b TaskBar) Right() float64 { return b.Left + b.Width }

// MidY is the vertical center of the bar.
func (b TaskBar) MidY() float64 { return b.Top + b.Height/2 }

// Contains reports whether the pixel (x, y) falls on the bar.
func (b TaskBar) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right() && y >= b.Top && y <= b.Top+b.Height
}

// BuildBars places every visible row that has enough dates to draw.
// Unscheduled tasks and milestones without a start produce no bar.
func BuildBars(rows []VisibleRow, m Mapper, critical CriticalSet, metrics RowMetrics) []TaskBar {
	bars := make([]TaskBar, 0, len(rows))
	for _, r := range rows {
		if bar, ok := placeBar(r, m, critical, metrics); ok {
			bars = append(bars, bar)
		}
	}
	return bars
}

func placeBar(r VisibleRow, m Mapper, critical CriticalSet, metrics RowMetrics) (TaskBar, bool) {
	t := r.Task
	if t == nil || t.StartDate == nil {
		return TaskBar{}, false
	}

	bar := TaskBar{
		TaskID:   t.ID,
		Title:    t.Title,
		Row:      r.Index,
		Depth:    t.Depth,
		Palette:  StatusPalette(t.Status),
		Accent:   PriorityAccent(t.Priority),
		Critical: critical.Has(t.ID),
		Progress: domain.ClampProgress(t.Progress),
		Status:   t.Status,
		Assignee: domain.StrFromPtr(t.AssigneeName, ""),
	}
	rowTop := float64(r.Index) * metrics.RowHeight
	startX := m.DateToX(*t.StartDate)

	switch {
	case t.IsMilestone:
		size := metrics.MilestoneSize
		bar.Kind = KindMilestone
		bar.Left = startX - size/2
		bar.Width = size
		bar.Height = size
		bar.Top = rowTop + (metrics.RowHeight-size)/2
		// Milestones carry no duration to fill.
		bar.Progress = 0
		return bar, true
	case t.EndDate == nil:
		bar.Kind = KindSingleDay
		bar.Left = startX
		bar.Width = metrics.SingleDayWidth
	default:
		bar.Kind = KindRanged
		bar.Left = startX
		bar.Width = math.Max(m.DateToX(*t.EndDate)-startX, metrics.MinBarWidth)
	}
	bar.Height = metrics.BarHeight
	bar.Top = rowTop + (metrics.RowHeight-metrics.BarHeight)/2
	if bar.Progress > 0 {
		bar.ProgressWidth = bar.Width * float64(bar.Progress) / 100
	}
	return bar, true
}
