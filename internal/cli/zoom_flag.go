package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

// zoomFlag is a pflag.Value accepting day, week or month.
type zoomFlag struct {
	level domain.ZoomLevel
}

var _ pflag.Value = (*zoomFlag)(nil)

func (z *zoomFlag) String() string { return string(z.level) }

func (z *zoomFlag) Set(s string) error {
	level, err := domain.ParseZoomLevel(s)
	if err != nil {
		return err
	}
	z.level = level
	return nil
}

func (z *zoomFlag) Type() string { return "zoom" }

func addZoomFlag(fs *pflag.FlagSet, z *zoomFlag) {
	levels := make([]string, 0, 3)
	for _, l := range gantt.ZoomLevels() {
		levels = append(levels, string(l))
	}
	fs.Var(z, "zoom", "Zoom level ("+strings.Join(levels, "|")+"); defaults to the configured zoom")
}
