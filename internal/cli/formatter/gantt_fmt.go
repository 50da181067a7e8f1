package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ganttline/internal/gantt"
)

const (
	defaultChartWidth   = 100
	defaultSidebarWidth = 28
	minTimelineWidth    = 20

	progressRune  = '█'
	remainderRune = '▒'
	milestoneRune = '◆'
	todayRune     = '┊'
)

// GanttOptions controls the terminal rendering of a layout.
type GanttOptions struct {
	Title        string
	Width        int
	SidebarWidth int
	// Cursor highlights one visible row; -1 disables the highlight.
	Cursor int
	// HideDependencies drops the dependency list under the chart.
	HideDependencies bool
}

// FormatGantt renders a layout as a terminal chart: an indented task
// sidebar, the two header rows and one line of bar glyphs per visible row.
// Pixel positions are scaled down to character columns.
func FormatGantt(l *gantt.Layout, opts GanttOptions) string {
	if l == nil || l.Empty || len(l.Rows) == 0 {
		msg := gantt.EmptyMessage
		if l != nil && l.Message != "" {
			msg = l.Message
		}
		return Dim(msg) + "\n"
	}

	c := newCanvas(l, opts)
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(Header(opts.Title) + "\n")
	}
	b.WriteString(c.headerLine(l.Header.Primary, StyleHeader) + "\n")
	b.WriteString(c.headerLine(l.Header.Secondary, StyleDim) + "\n")

	bars := make(map[string]gantt.TaskBar, len(l.Bars))
	for _, bar := range l.Bars {
		bars[bar.TaskID] = bar
	}
	critical := gantt.NewCriticalSet(l.CriticalPath...)
	for _, row := range l.Rows {
		bar, ok := bars[row.Task.ID]
		var bp *gantt.TaskBar
		if ok {
			bp = &bar
		}
		b.WriteString(c.sidebarCell(row, row.Index == opts.Cursor, critical.Has(row.Task.ID)))
		b.WriteString(c.barLine(bp))
		b.WriteString("\n")
	}

	if !opts.HideDependencies && len(l.Connectors) > 0 {
		b.WriteString("\n" + FormatDependencies(l) + "\n")
	}
	return b.String()
}

// FormatDependencies lists the routed connectors of l by task title.
func FormatDependencies(l *gantt.Layout) string {
	titles := make(map[string]string, len(l.Rows))
	for _, r := range l.Rows {
		titles[r.Task.ID] = r.Task.Title
	}
	var b strings.Builder
	b.WriteString(Header("Dependencies"))
	for _, c := range l.Connectors {
		line := fmt.Sprintf("%s → %s  %s", titles[c.PredecessorID], titles[c.SuccessorID], c.Type)
		if c.LagDays != 0 {
			line += fmt.Sprintf(" %+dd", c.LagDays)
		}
		if c.Critical {
			line = StyleRed.Render(line + "  critical")
		}
		b.WriteString("\n  " + line)
	}
	return b.String()
}

type canvas struct {
	sidebar  int
	width    int
	scale    float64
	todayCol int
}

func newCanvas(l *gantt.Layout, opts GanttOptions) canvas {
	total := opts.Width
	if total <= 0 {
		total = defaultChartWidth
	}
	sidebar := opts.SidebarWidth
	if sidebar <= 0 {
		sidebar = defaultSidebarWidth
	}
	width := max(total-sidebar-1, minTimelineWidth)
	c := canvas{
		sidebar:  sidebar,
		width:    width,
		scale:    math.Max(float64(l.Width)/float64(width), 0.01),
		todayCol: -1,
	}
	if l.TodayX != nil {
		c.todayCol = c.col(*l.TodayX)
	}
	return c
}

// col maps a pixel X to a character column, clamped to the canvas.
func (c canvas) col(x float64) int {
	return max(0, min(int(math.Floor(x/c.scale)), c.width-1))
}

func (c canvas) headerLine(cells []gantt.HeaderCell, style lipgloss.Style) string {
	line := []rune(strings.Repeat(" ", c.width))
	for _, cell := range cells {
		from := c.col(float64(cell.X))
		room := c.col(float64(cell.X+cell.Width)) - from
		label := []rune(cell.Label)
		if room < len(label) {
			continue
		}
		copy(line[from:], label)
	}
	return strings.Repeat(" ", c.sidebar+1) + style.Render(string(line))
}

func (c canvas) sidebarCell(row gantt.VisibleRow, selected, critical bool) string {
	glyph := "  "
	switch {
	case row.HasChildren && row.Expanded:
		glyph = "▾ "
	case row.HasChildren:
		glyph = "▸ "
	}
	prefix := strings.Repeat("  ", row.Task.Depth) + glyph
	marker := ""
	if critical {
		marker = " *"
	}
	room := c.sidebar - len([]rune(prefix)) - len(marker)
	title := Truncate(row.Task.Title, max(room, 1))

	style := StyleFg
	if selected {
		style = StyleHeader
	}
	text := prefix + style.Render(title)
	if critical {
		text += StyleRed.Render(marker)
	}
	return PadRight(text, c.sidebar) + " "
}

func (c canvas) barLine(bar *gantt.TaskBar) string {
	background := func(from, to int) string {
		var b strings.Builder
		for i := from; i < to; i++ {
			if i == c.todayCol {
				b.WriteString(StyleRed.Render(string(todayRune)))
			} else {
				b.WriteByte(' ')
			}
		}
		return b.String()
	}
	if bar == nil {
		return background(0, c.width)
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Palette.Border))
	if bar.Critical {
		style = style.Bold(true)
	}

	if bar.Kind == gantt.KindMilestone {
		at := c.col(bar.Left + bar.Width/2)
		return background(0, at) + style.Render(string(milestoneRune)) + background(at+1, c.width)
	}

	from := c.col(bar.Left)
	to := max(c.col(bar.Right()-0.01), from)
	n := to - from + 1
	done := 0
	if bar.Width > 0 {
		done = int(math.Round(bar.ProgressWidth / bar.Width * float64(n)))
	}
	glyphs := strings.Repeat(string(progressRune), done) + strings.Repeat(string(remainderRune), n-done)
	return background(0, from) + style.Render(glyphs) + background(to+1, c.width)
}
