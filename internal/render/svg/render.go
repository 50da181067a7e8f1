// Package svg composites a computed gantt layout into a standalone SVG
// document: sidebar, two header rows, grid, bars and dependency paths.
package svg

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/ganttline/internal/gantt"
)

// Options carries per-render settings.
type Options struct {
	Title string
	Theme Theme
}

// Render writes the SVG document for l to w.
func Render(w io.Writer, l *gantt.Layout, opts Options) error {
	_, err := io.WriteString(w, RenderString(l, opts))
	return err
}

// RenderString returns the SVG document for l.
func RenderString(l *gantt.Layout, opts Options) string {
	theme := opts.Theme
	if theme.Font.Size <= 0 {
		theme = DefaultTheme()
	}
	r := &renderer{theme: theme, title: opts.Title}
	if l == nil || l.Empty || len(l.Rows) == 0 {
		r.empty(l)
	} else {
		r.chart(l)
	}
	return r.b.String()
}

type renderer struct {
	b     strings.Builder
	theme Theme
	title string
}

func (r *renderer) printf(format string, args ...any) {
	fmt.Fprintf(&r.b, format, args...)
}

func (r *renderer) open(width, height float64) {
	t := r.theme
	r.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
`, num(width), num(height), num(width), num(height))
	if r.title != "" {
		r.printf("<title>%s</title>\n", escapeXML(r.title))
	}
	m := gantt.ArrowMarker
	r.printf(`<defs>
<style>
text { font-family: %s; font-size: %dpx; }
.header-text { fill: %s; }
.sidebar-text { fill: %s; }
.bar-text { font-size: %dpx; }
.empty-text { fill: %s; font-size: %dpx; }
</style>
<marker id="%s" markerWidth="%s" markerHeight="%s" refX="%s" refY="%s" orient="auto" markerUnits="userSpaceOnUse">
<polygon points="%s" fill="context-stroke"/>
</marker>
</defs>
<rect width="100%%" height="100%%" fill="%s"/>
`, escapeXML(t.Font.Family), t.Font.Size,
		t.Colors.HeaderText, t.Colors.SidebarText, max(t.Font.Size-1, 1),
		t.Colors.EmptyText, t.Font.Size+2,
		m.ID, num(m.Width), num(m.Height), num(m.RefX), num(m.RefY), m.Polygon,
		t.Colors.Background)
}

func (r *renderer) empty(l *gantt.Layout) {
	msg := gantt.EmptyMessage
	if l != nil && l.Message != "" {
		msg = l.Message
	}
	w := float64(r.theme.Layout.EmptyWidth)
	h := float64(r.theme.Layout.EmptyHeight)
	r.open(w, h)
	r.printf(`<text class="empty-text" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%s</text>
`, num(w/2), num(h/2), escapeXML(msg))
	r.b.WriteString("</svg>\n")
}

func (r *renderer) chart(l *gantt.Layout) {
	t := r.theme
	sidebar := float64(t.Layout.SidebarWidth)
	headerH := float64(t.Layout.HeaderRowHeight) * 2
	width := sidebar + float64(l.Width)
	height := headerH + l.Height

	r.open(width, height)
	r.sidebar(l, headerH)

	r.printf(`<defs>
<clipPath id="timeline-clip"><rect x="0" y="0" width="%d" height="%s"/></clipPath>
</defs>
<g class="timeline" transform="translate(%s,0)" clip-path="url(#timeline-clip)">
`, l.Width, num(height), num(sidebar))
	r.header(l)
	r.printf(`<g class="grid" transform="translate(0,%s)">
`, num(headerH))
	r.grid(l)
	r.connectors(l)
	r.bars(l)
	r.b.WriteString("</g>\n</g>\n</svg>\n")
}

func (r *renderer) sidebar(l *gantt.Layout, headerH float64) {
	t := r.theme
	if t.Layout.SidebarWidth == 0 {
		return
	}
	sw := float64(t.Layout.SidebarWidth)
	r.printf(`<g class="sidebar">
<rect x="0" y="0" width="%s" height="%s" fill="%s"/>
<rect x="0" y="0" width="%s" height="%s" fill="%s"/>
`, num(sw), num(headerH+l.Height), t.Colors.SidebarBackground,
		num(sw), num(headerH), t.Colors.HeaderBackground)
	if r.title != "" {
		r.printf(`<text class="header-text" x="8" y="%s" dominant-baseline="middle" font-weight="bold">%s</text>
`, num(headerH/2), escapeXML(r.title))
	}
	rowH := l.Metrics.RowHeight
	for _, row := range l.Rows {
		y := headerH + float64(row.Index)*rowH + rowH/2
		x := 8 + float64(row.Task.Depth*t.Layout.IndentWidth)
		glyph := ""
		switch {
		case row.HasChildren && row.Expanded:
			glyph = "▾ "
		case row.HasChildren:
			glyph = "▸ "
		}
		r.printf(`<text class="sidebar-text" x="%s" y="%s" dominant-baseline="middle">%s%s</text>
`, num(x), num(y), glyph, escapeXML(row.Task.Title))
	}
	r.printf(`<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>
</g>
`, num(sw), num(sw), num(headerH+l.Height), t.Colors.HeaderBorder)
}

func (r *renderer) header(l *gantt.Layout) {
	t := r.theme
	rowH := float64(t.Layout.HeaderRowHeight)
	r.b.WriteString("<g class=\"header\">\n")
	for i, cells := range [][]gantt.HeaderCell{l.Header.Primary, l.Header.Secondary} {
		y := float64(i) * rowH
		for _, c := range cells {
			fill := t.Colors.HeaderBackground
			if c.Weekend {
				fill = t.Colors.Weekend
			}
			r.printf(`<rect x="%d" y="%s" width="%d" height="%s" fill="%s" stroke="%s"/>
`, c.X, num(y), c.Width, num(rowH), fill, t.Colors.HeaderBorder)
			weight := ""
			if c.Today {
				weight = ` font-weight="bold"`
			}
			r.printf(`<text class="header-text" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle"%s>%s</text>
`, num(float64(c.X)+float64(c.Width)/2), num(y+rowH/2), weight, escapeXML(c.Label))
		}
	}
	r.b.WriteString("</g>\n")
}

func (r *renderer) grid(l *gantt.Layout) {
	t := r.theme
	r.b.WriteString("<g class=\"gridlines\">\n")
	for _, c := range l.Header.Secondary {
		if c.Weekend {
			r.printf(`<rect x="%d" y="0" width="%d" height="%s" fill="%s"/>
`, c.X, c.Width, num(l.Height), t.Colors.Weekend)
		}
		r.printf(`<line x1="%d" y1="0" x2="%d" y2="%s" stroke="%s"/>
`, c.X, c.X, num(l.Height), t.Colors.Grid)
	}
	for i := range l.Rows {
		y := float64(i+1) * l.Metrics.RowHeight
		r.printf(`<line x1="0" y1="%s" x2="%d" y2="%s" stroke="%s"/>
`, num(y), l.Width, num(y), t.Colors.Grid)
	}
	if l.TodayX != nil {
		r.printf(`<line class="today" x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>
`, num(*l.TodayX), num(*l.TodayX), num(l.Height), t.Colors.Today)
	}
	r.b.WriteString("</g>\n")
}

func (r *renderer) connectors(l *gantt.Layout) {
	if len(l.Connectors) == 0 {
		return
	}
	t := r.theme
	r.b.WriteString("<g class=\"dependencies\" fill=\"none\">\n")
	for _, c := range l.Connectors {
		stroke, sw := t.Colors.Connector, "1.5"
		if c.Critical {
			stroke, sw = t.Colors.CriticalConnector, "2"
		}
		r.printf(`<path d="%s" stroke="%s" stroke-width="%s" marker-end="url(#%s)"><title>%s</title></path>
`, c.Path(), stroke, sw, gantt.ArrowMarker.ID,
			escapeXML(fmt.Sprintf("%s → %s (%s, lag %d)", c.PredecessorID, c.SuccessorID, c.Type, c.LagDays)))
	}
	r.b.WriteString("</g>\n")
}

func (r *renderer) bars(l *gantt.Layout) {
	r.b.WriteString("<g class=\"bars\">\n")
	for _, b := range l.Bars {
		if b.Kind == gantt.KindMilestone {
			r.milestone(b)
			continue
		}
		r.bar(b)
	}
	r.b.WriteString("</g>\n")
}

func (r *renderer) bar(b gantt.TaskBar) {
	t := r.theme
	rx := t.Layout.CornerRadius
	r.printf(`<g class="bar" data-task-id="%s">
<title>%s</title>
<rect x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s" stroke="%s"/>
`, escapeXML(b.TaskID), escapeXML(barTooltip(b)),
		num(b.Left), num(b.Top), num(b.Width), num(b.Height), rx, b.Palette.Background, b.Palette.Border)
	if b.ProgressWidth > 0 {
		r.printf(`<rect class="progress" x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s" fill-opacity="%s"/>
`, num(b.Left), num(b.Top), num(b.ProgressWidth), num(b.Height), rx, t.Colors.ProgressFill, num(t.ProgressOpacity))
	}
	if t.Layout.AccentWidth > 0 {
		r.printf(`<rect class="accent" x="%s" y="%s" width="%d" height="%s" fill="%s"/>
`, num(b.Left), num(b.Top), t.Layout.AccentWidth, num(b.Height), b.Accent)
	}
	if b.Critical {
		r.printf(`<rect class="critical" x="%s" y="%s" width="%s" height="%s" rx="%d" fill="none" stroke="%s" stroke-width="2"/>
`, num(b.Left-2), num(b.Top-2), num(b.Width+4), num(b.Height+4), rx+2, gantt.CriticalRingColor)
	}
	if t.ShowBarLabels && b.Width >= 48 {
		r.printf(`<text class="bar-text" x="%s" y="%s" dominant-baseline="middle" fill="%s">%s</text>
`, num(b.Left+float64(t.Layout.AccentWidth)+4), num(b.MidY()), b.Palette.Text, escapeXML(truncate(b.Title, int(b.Width/7))))
	}
	r.b.WriteString("</g>\n")
}

func (r *renderer) milestone(b gantt.TaskBar) {
	cx, cy := b.Left+b.Width/2, b.MidY()
	hw, hh := b.Width/2, b.Height/2
	points := fmt.Sprintf("%s,%s %s,%s %s,%s %s,%s",
		num(cx), num(cy-hh), num(cx+hw), num(cy), num(cx), num(cy+hh), num(cx-hw), num(cy))
	stroke, sw := b.Palette.Border, "1"
	if b.Critical {
		stroke, sw = gantt.CriticalRingColor, "2"
	}
	r.printf(`<g class="milestone" data-task-id="%s">
<title>%s</title>
<polygon points="%s" fill="%s" stroke="%s" stroke-width="%s"/>
</g>
`, escapeXML(b.TaskID), escapeXML(barTooltip(b)), points, b.Palette.Border, stroke, sw)
}

func barTooltip(b gantt.TaskBar) string {
	s := fmt.Sprintf("%s [%s] %d%%", b.Title, b.Status, b.Progress)
	if b.Assignee != "" {
		s += " · " + b.Assignee
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 1 || len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// num formats a pixel value to at most two decimals, without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
