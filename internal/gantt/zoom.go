package gantt

import "github.com/alexanderramin/ganttline/internal/domain"

// Unit is the calendar bucket one header column represents.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// ZoomConfig maps a zoom level to a column width and aggregation unit.
// DaysPerColumn is the divisor the Mapper uses; month is approximated as 30.
type ZoomConfig struct {
	Level         domain.ZoomLevel
	ColumnWidth   int
	Unit          Unit
	DaysPerColumn float64
}

var zoomTable = map[domain.ZoomLevel]ZoomConfig{
	domain.ZoomDay:   {Level: domain.ZoomDay, ColumnWidth: 40, Unit: UnitDay, DaysPerColumn: 1},
	domain.ZoomWeek:  {Level: domain.ZoomWeek, ColumnWidth: 80, Unit: UnitWeek, DaysPerColumn: 7},
	domain.ZoomMonth: {Level: domain.ZoomMonth, ColumnWidth: 120, Unit: UnitMonth, DaysPerColumn: 30},
}

// ZoomConfigFor looks up the configuration for level. Unknown levels fall
// back to day zoom.
func ZoomConfigFor(level domain.ZoomLevel) ZoomConfig {
	if cfg, ok := zoomTable[level]; ok {
		return cfg
	}
	return zoomTable[domain.ZoomDay]
}

// ZoomLevels lists the levels from most to least detailed.
func ZoomLevels() []domain.ZoomLevel {
	return []domain.ZoomLevel{domain.ZoomDay, domain.ZoomWeek, domain.ZoomMonth}
}

// ZoomIn returns the next more detailed level, or level itself at the end.
func ZoomIn(level domain.ZoomLevel) domain.ZoomLevel {
	levels := ZoomLevels()
	for i, l := range levels {
		if l == level && i > 0 {
			return levels[i-1]
		}
	}
	return ZoomConfigFor(level).Level
}

// ZoomOut returns the next less detailed level, or level itself at the end.
func ZoomOut(level domain.ZoomLevel) domain.ZoomLevel {
	levels := ZoomLevels()
	for i, l := range levels {
		if l == level && i < len(levels)-1 {
			return levels[i+1]
		}
	}
	return ZoomConfigFor(level).Level
}
