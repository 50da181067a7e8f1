package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/contract"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage task dependencies",
	}
	cmd.AddCommand(newDepAddCmd(app), newDepRemoveCmd(app))
	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var (
		depType string
		lag     int
	)

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Make SUCCESSOR depend on PREDECESSOR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.DependencyRequest{
				PredecessorID:  args[0],
				SuccessorID:    args[1],
				DependencyType: depType,
				LagDays:        lag,
			}
			if err := sendDependency(cmd, app, req, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s → %s (%s)\n", args[0], args[1], req.Edge().Type)
			return nil
		},
	}

	cmd.Flags().StringVarP(&depType, "type", "t", "FS", "Dependency type: FS, SS, FF or SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days")
	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PREDECESSOR SUCCESSOR",
		Aliases: []string{"remove"},
		Short:   "Remove a dependency",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.DependencyRequest{PredecessorID: args[0], SuccessorID: args[1]}
			if err := sendDependency(cmd, app, req, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s → %s\n", args[0], args[1])
			return nil
		},
	}
}

func sendDependency(cmd *cobra.Command, app *App, req contract.DependencyRequest, create bool) error {
	if app.Port == nil {
		return errNoPort
	}
	if err := contract.JoinErrors(req.Validate()); err != nil {
		return err
	}
	if create {
		return app.Port.CreateDependency(cmd.Context(), req)
	}
	return app.Port.DeleteDependency(cmd.Context(), req)
}
