package gantt

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// EmptyMessage is shown in place of the grid when there are no tasks.
const EmptyMessage = "No tasks to display"

// Input is everything a layout depends on.
type Input struct {
	Tasks            []*domain.Task
	MinDate          *time.Time
	MaxDate          *time.Time
	CriticalPath     []string
	Today            time.Time
	Zoom             domain.ZoomLevel
	Expanded         ExpansionSet
	Filter           RowFilter
	ShowCriticalPath bool
	ShowDependencies bool
	Metrics          RowMetrics
}

// Layout is the composited, render-ready result of one pipeline pass.
type Layout struct {
	Empty        bool
	Message      string
	Window       DateWindow
	Zoom         ZoomConfig
	Metrics      RowMetrics
	Width        int
	Height       float64
	Header       Header
	Rows         []VisibleRow
	Bars         []TaskBar
	Connectors   []Connector
	TodayX       *float64
	CriticalPath []string
}

// Compute runs the full pipeline. It is deterministic for a given Input.
func Compute(in Input) *Layout {
	metrics := in.Metrics
	if metrics.RowHeight <= 0 {
		metrics = DefaultRowMetrics()
	}
	zoom := ZoomConfigFor(in.Zoom)

	if len(in.Tasks) == 0 {
		return &Layout{Empty: true, Message: EmptyMessage, Zoom: zoom, Metrics: metrics}
	}

	window := ResolveWindow(in.MinDate, in.MaxDate, in.Today)
	mapper := NewMapper(window, zoom)

	critical := CriticalSet{}
	if in.ShowCriticalPath {
		critical = NewCriticalSet(in.CriticalPath...)
	}

	rows := in.Filter.Apply(VisibleRows(in.Tasks, in.Expanded))
	bars := BuildBars(rows, mapper, critical, metrics)

	var connectors []Connector
	if in.ShowDependencies {
		connectors = RouteDependencies(domain.EdgesOf(in.Tasks), bars)
	}

	l := &Layout{
		Window:       window,
		Zoom:         zoom,
		Metrics:      metrics,
		Width:        mapper.TotalWidth(),
		Height:       float64(len(rows)) * metrics.RowHeight,
		Header:       BuildHeader(window, zoom, in.Today),
		Rows:         rows,
		Bars:         bars,
		Connectors:   connectors,
		CriticalPath: critical.IDs(),
	}
	if today := truncateDay(in.Today); !in.Today.IsZero() && window.Contains(today) {
		x := mapper.DateToX(today)
		l.TodayX = &x
	}
	return l
}

// Mapper rebuilds the coordinate mapper the layout was computed with.
func (l *Layout) Mapper() Mapper {
	return NewMapper(l.Window, l.Zoom)
}

// BarFor returns the bar of taskID, if it was placed.
func (l *Layout) BarFor(taskID string) (TaskBar, bool) {
	for _, b := range l.Bars {
		if b.TaskID == taskID {
			return b, true
		}
	}
	return TaskBar{}, false
}

// HitTest returns the task whose bar covers pixel (x, y).
func (l *Layout) HitTest(x, y float64) (string, bool) {
	for i := len(l.Bars) - 1; i >= 0; i-- {
		if l.Bars[i].Contains(x, y) {
			return l.Bars[i].TaskID, true
		}
	}
	return "", false
}

// RowAt returns the visible row under vertical offset y.
func (l *Layout) RowAt(y float64) (VisibleRow, bool) {
	if y < 0 || l.Metrics.RowHeight <= 0 {
		return VisibleRow{}, false
	}
	idx := int(y / l.Metrics.RowHeight)
	if idx >= len(l.Rows) {
		return VisibleRow{}, false
	}
	return l.Rows[idx], true
}
