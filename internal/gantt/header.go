package gantt

import (
	"fmt"
	"math"
	"time"
)

// HeaderCell is one label cell in a header row. X and Width are in pixels
// relative to the timeline origin; Width is always a whole multiple of the
// zoom column width. The first week cell may start left of zero.
type HeaderCell struct {
	Label   string
	X       int
	Width   int
	Start   time.Time
	Weekend bool
	Today   bool
}

// Header holds the coarse (Primary) and fine (Secondary) label rows.
type Header struct {
	Primary   []HeaderCell
	Secondary []HeaderCell
}

// Width is the summed width of the secondary row.
func (h Header) Width() int {
	total := 0
	for _, c := range h.Secondary {
		total += c.Width
	}
	return total
}

// BuildHeader walks the window one zoom unit at a time using calendar
// arithmetic only. Week walks start on the Monday on or before the window
// start; month walks start on the first of the start month.
//
// At week zoom the first cell is placed where the Mapper puts its Monday,
// which is at or left of zero, so week boundaries line up with mapped
// dates. A trailing week is added when the shift would leave the right
// edge of the grid uncovered. Labels come from the calendar; at month zoom
// they drift from mapped dates by the 30-day approximation.
func BuildHeader(window DateWindow, zoom ZoomConfig, today time.Time) Header {
	m := NewMapper(window, zoom)
	zoom = m.Zoom()
	col := zoom.ColumnWidth
	todayDay := truncateDay(today)

	first := unitStart(window.Start, zoom.Unit)
	x := 0
	if zoom.Unit == UnitWeek {
		x = int(math.Floor(m.DateToX(first)))
	}
	n := m.Columns()
	if end := x + n*col; end < m.TotalWidth() {
		n++
	}

	units := make([]time.Time, 0, n)
	cur := first
	for i := 0; i < n; i++ {
		units = append(units, cur)
		cur = nextUnit(cur, zoom.Unit)
	}

	var h Header
	for _, u := range units {
		cell := HeaderCell{
			Label: secondaryLabel(u, zoom.Unit),
			X:     x,
			Width: col,
			Start: u,
		}
		if zoom.Unit == UnitDay {
			wd := u.Weekday()
			cell.Weekend = wd == time.Saturday || wd == time.Sunday
		}
		cell.Today = !todayDay.Before(u) && todayDay.Before(nextUnit(u, zoom.Unit))
		h.Secondary = append(h.Secondary, cell)

		label := primaryLabel(u, zoom.Unit)
		if n := len(h.Primary); n > 0 && h.Primary[n-1].Label == label {
			h.Primary[n-1].Width += col
		} else {
			h.Primary = append(h.Primary, HeaderCell{Label: label, X: x, Width: col, Start: u})
		}
		x += col
	}
	return h
}

func unitStart(t time.Time, unit Unit) time.Time {
	t = truncateDay(t)
	switch unit {
	case UnitWeek:
		// Monday on or before t.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset)
	case UnitMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

func nextUnit(t time.Time, unit Unit) time.Time {
	switch unit {
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	case UnitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func secondaryLabel(t time.Time, unit Unit) string {
	switch unit {
	case UnitWeek:
		end := t.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", t.Format("Jan 2"), end.Format("Jan 2"))
	case UnitMonth:
		return t.Format("Jan")
	default:
		return t.Format("2")
	}
}

func primaryLabel(t time.Time, unit Unit) string {
	if unit == UnitMonth {
		return t.Format("2006")
	}
	return t.Format("January 2006")
}
