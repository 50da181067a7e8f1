package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/controller"
)

func newGanttCmd(app *App) *cobra.Command {
	var (
		flags viewFlags
		from  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "gantt [PROJECT]",
		Short: "Print a project timeline to the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := app.openFromArgs(cmd, args, from, &flags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGantt(ctl.Layout(), formatter.GanttOptions{
				Title:            ctl.Snapshot().ProjectName,
				Width:            terminalWidth(width),
				Cursor:           -1,
				HideDependencies: !ctl.State().ShowDependencies,
			}))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "Read a saved gantt JSON payload instead of a project")
	cmd.Flags().IntVar(&width, "width", 0, "Chart width in columns (default $COLUMNS or 100)")
	return cmd
}

// openFromArgs loads either --from FILE or the PROJECT argument.
func (app *App) openFromArgs(cmd *cobra.Command, args []string, from string, flags *viewFlags) (*controller.Controller, error) {
	switch {
	case from != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either PROJECT or --from, not both")
	case from != "":
		return app.openFile(from, flags)
	case len(args) == 1:
		return app.openTimeline(cmd.Context(), args[0], flags, nil)
	default:
		return nil, fmt.Errorf("PROJECT or --from is required")
	}
}

func terminalWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 100
}
