package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/contract"
)

func newTUICmd(app *App) *cobra.Command {
	var (
		flags viewFlags
		from  string
	)

	cmd := &cobra.Command{
		Use:   "tui [PROJECT]",
		Short: "Open an interactive timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.newTimelineView(cmd, args, from, &flags)
			if err != nil {
				return err
			}
			p := tea.NewProgram(v, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "Browse a saved gantt JSON payload (read-only)")
	return cmd
}

// newTimelineView builds the interactive view for a project or a saved
// payload. Payload views have no command port.
func (app *App) newTimelineView(cmd *cobra.Command, args []string, from string, flags *viewFlags) (*ganttView, error) {
	switch {
	case from != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either PROJECT or --from, not both")
	case from != "":
		resp, err := contract.LoadGanttFile(from)
		if err != nil {
			return nil, err
		}
		v := newGanttView(cmd.Context(), app, "", flags)
		v.ctl.Load(resp.ToSnapshot())
		flags.collapseListed(v.ctl)
		return v, nil
	case len(args) == 1:
		projectID, err := resolveProjectID(cmd.Context(), app, args[0])
		if err != nil {
			return nil, err
		}
		if app.Port == nil {
			return nil, errNoPort
		}
		return newGanttView(cmd.Context(), app, projectID, flags), nil
	default:
		return nil, fmt.Errorf("PROJECT or --from is required")
	}
}
