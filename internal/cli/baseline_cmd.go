package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Save and list planned-date baselines",
	}
	cmd.AddCommand(newBaselineSaveCmd(app), newBaselineListCmd(app))
	return cmd
}

func newBaselineSaveCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save PROJECT",
		Short: "Snapshot the planned dates of every task in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && app.interactive() {
				if err := baselineNameForm(&name).Run(); err != nil {
					return err
				}
			}
			if err := validateBaselineName(name); err != nil {
				return fmt.Errorf("baseline name: %w", err)
			}

			var flags viewFlags
			ctl, err := app.openTimeline(cmd.Context(), args[0], &flags, nil)
			if err != nil {
				return err
			}
			if err := ctl.SaveBaseline(cmd.Context(), name); err != nil {
				return fmt.Errorf("saving baseline: %w", err)
			}

			label := name
			if label == "" {
				label = "(unnamed)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved baseline %s: %d tasks\n",
				label, len(ctl.Snapshot().Tasks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Baseline name")
	return cmd
}

func newBaselineListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List saved baselines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			baselines, err := app.Baselines.List(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(baselines) == 0 {
				fmt.Fprintln(out, "No baselines saved.")
				return nil
			}
			fmt.Fprintln(out, formatter.FormatBaselineList(baselines))
			return nil
		},
	}
}
