package gantt

import (
	"testing"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestZoomConfigFor(t *testing.T) {
	dayCfg := ZoomConfigFor(domain.ZoomDay)
	assert.Equal(t, 40, dayCfg.ColumnWidth)
	assert.Equal(t, UnitDay, dayCfg.Unit)
	assert.Equal(t, 1.0, dayCfg.DaysPerColumn)

	week := ZoomConfigFor(domain.ZoomWeek)
	assert.Equal(t, 80, week.ColumnWidth)
	assert.Equal(t, 7.0, week.DaysPerColumn)

	month := ZoomConfigFor(domain.ZoomMonth)
	assert.Equal(t, 120, month.ColumnWidth)
	assert.Equal(t, 30.0, month.DaysPerColumn)
}

func TestZoomConfigFor_UnknownFallsBackToDay(t *testing.T) {
	cfg := ZoomConfigFor(domain.ZoomLevel("quarter"))
	assert.Equal(t, domain.ZoomDay, cfg.Level)
}

func TestZoomInOut(t *testing.T) {
	assert.Equal(t, domain.ZoomWeek, ZoomOut(domain.ZoomDay))
	assert.Equal(t, domain.ZoomMonth, ZoomOut(domain.ZoomWeek))
	assert.Equal(t, domain.ZoomMonth, ZoomOut(domain.ZoomMonth))

	assert.Equal(t, domain.ZoomWeek, ZoomIn(domain.ZoomMonth))
	assert.Equal(t, domain.ZoomDay, ZoomIn(domain.ZoomWeek))
	assert.Equal(t, domain.ZoomDay, ZoomIn(domain.ZoomDay))

	assert.Equal(t, domain.ZoomDay, ZoomIn(domain.ZoomLevel("bogus")))
}
