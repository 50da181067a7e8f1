package gantt

import (
	"math"
	"time"
)

// Mapper converts calendar dates to X offsets and back for one window and
// zoom level. It is the single source of geometry for bars and connectors.
type Mapper struct {
	window DateWindow
	zoom   ZoomConfig
}

// NewMapper builds a mapper for window at zoom. A zoom config with a
// non-positive width or divisor is replaced by the table entry for its level.
func NewMapper(window DateWindow, zoom ZoomConfig) Mapper {
	if zoom.DaysPerColumn <= 0 || zoom.ColumnWidth <= 0 {
		zoom = ZoomConfigFor(zoom.Level)
	}
	return Mapper{window: window, zoom: zoom}
}

// Window is the date window X=0 is anchored to.
func (m Mapper) Window() DateWindow { return m.window }

// Zoom is the effective zoom config, after defaults were applied.
func (m Mapper) Zoom() ZoomConfig { return m.zoom }

// DateToX returns the pixel offset of t from the window start. Week and
// month zoom are fractional: a date inside a column maps inside it.
func (m Mapper) DateToX(t time.Time) float64 {
	days := t.Sub(m.window.Start).Hours() / 24
	return days / m.zoom.DaysPerColumn * float64(m.zoom.ColumnWidth)
}

// XToDate inverts DateToX, floored to a whole calendar day.
func (m Mapper) XToDate(x float64) time.Time {
	days := x / float64(m.zoom.ColumnWidth) * m.zoom.DaysPerColumn
	return m.window.Start.AddDate(0, 0, int(math.Floor(days)))
}

// DaysForPixels converts a horizontal pixel delta into whole days, rounded
// to the nearest day.
func (m Mapper) DaysForPixels(dx float64) int {
	return int(math.Round(dx / float64(m.zoom.ColumnWidth) * m.zoom.DaysPerColumn))
}

// Columns is the number of zoom columns covering the window, rounded up.
func (m Mapper) Columns() int {
	return int(math.Ceil(float64(m.window.TotalDays) / m.zoom.DaysPerColumn))
}

// TotalWidth is the scrollable timeline width in pixels.
func (m Mapper) TotalWidth() int {
	return m.Columns() * m.zoom.ColumnWidth
}
