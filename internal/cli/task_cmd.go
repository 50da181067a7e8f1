package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Change task dates",
	}
	cmd.AddCommand(
		newTaskDatesCmd(app),
		newTaskShiftCmd(app, "move", "Shift a task's start and end by N days"),
		newTaskShiftCmd(app, "resize", "Move a task's end date by N days"),
	)
	return cmd
}

func newTaskDatesCmd(app *App) *cobra.Command {
	var (
		start, end           string
		clearStart, clearEnd bool
	)

	cmd := &cobra.Command{
		Use:   "dates TASK",
		Short: "Set or clear a task's planned dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Port == nil {
				return errNoPort
			}
			req := contract.DateUpdateRequest{ClearStart: clearStart, ClearEnd: clearEnd}
			if start != "" {
				req.PlannedStartDate = &start
			}
			if end != "" {
				req.PlannedEndDate = &end
			}
			if err := contract.JoinErrors(req.Validate()); err != nil {
				return err
			}
			if err := app.Port.UpdateTaskDates(cmd.Context(), args[0], req); err != nil {
				return fmt.Errorf("updating dates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Planned start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the planned start date")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Remove the planned end date")
	return cmd
}

// newTaskShiftCmd runs the same date arithmetic as a drag in the TUI.
func newTaskShiftCmd(app *App, use, short string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   use + " PROJECT TASK",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days == 0 {
				return fmt.Errorf("--days must not be zero")
			}
			var flags viewFlags
			ctl, err := app.openTimeline(cmd.Context(), args[0], &flags, nil)
			if err != nil {
				return err
			}
			dx := pixelsForDays(ctl.Layout(), days)
			if use == "move" {
				err = ctl.MoveTask(cmd.Context(), args[1], dx)
			} else {
				err = ctl.ResizeTask(cmd.Context(), args[1], dx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of days (negative moves earlier)")
	return cmd
}

// pixelsForDays is the drag distance covering days at the layout's zoom.
func pixelsForDays(l *gantt.Layout, days int) float64 {
	return float64(days) * float64(l.Zoom.ColumnWidth) / l.Zoom.DaysPerColumn
}
