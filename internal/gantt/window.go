package gantt

import (
	"math"
	"time"
)

const (
	// WindowPadDays is added before the earliest and after the latest date.
	WindowPadDays = 14
	// MinWindowDays is the minimum visible span; End is extended to meet it.
	MinWindowDays = 30
)

// DateWindow is the visible calendar range for one render pass.
type DateWindow struct {
	Start     time.Time
	End       time.Time
	TotalDays int
}

// ResolveWindow computes the padded visible window from the task set's
// min/max dates. Nil bounds fall back to the other bound, then to today.
// It never fails and never produces a span shorter than MinWindowDays.
func ResolveWindow(minDate, maxDate *time.Time, today time.Time) DateWindow {
	lo, hi := minDate, maxDate
	if lo == nil {
		lo = hi
	}
	if hi == nil {
		hi = lo
	}
	var start, end time.Time
	if lo == nil {
		start = truncateDay(today)
		end = start
	} else {
		start = truncateDay(*lo)
		end = truncateDay(*hi)
	}
	if end.Before(start) {
		start, end = end, start
	}

	start = start.AddDate(0, 0, -WindowPadDays)
	end = end.AddDate(0, 0, WindowPadDays)

	if minEnd := start.AddDate(0, 0, MinWindowDays); end.Before(minEnd) {
		end = minEnd
	}

	return DateWindow{
		Start:     start,
		End:       end,
		TotalDays: int(math.Ceil(end.Sub(start).Hours() / 24)),
	}
}

// Contains reports whether t falls inside [Start, End).
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// truncateDay drops the time-of-day, normalizing to UTC midnight of the
// calendar date as written.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
