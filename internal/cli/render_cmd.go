package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/render/svg"
)

func newRenderCmd(app *App) *cobra.Command {
	var (
		flags     viewFlags
		from      string
		out       string
		title     string
		themePath string
	)

	cmd := &cobra.Command{
		Use:   "render [PROJECT]",
		Short: "Render a project timeline to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := app.openFromArgs(cmd, args, from, &flags)
			if err != nil {
				return err
			}
			theme := app.Theme
			if themePath != "" {
				if theme, err = svg.LoadTheme(themePath); err != nil {
					return err
				}
			}
			opts := svg.Options{
				Title: domain.CoalesceStr(title, ctl.Snapshot().ProjectName),
				Theme: theme,
			}

			if out == "" || out == "-" {
				return svg.Render(cmd.OutOrStdout(), ctl.Layout(), opts)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := svg.Render(f, ctl.Layout(), opts); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "Read a saved gantt JSON payload instead of a project")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title (default the project name)")
	cmd.Flags().StringVar(&themePath, "theme", "", "Theme YAML file (overrides the configured theme)")
	return cmd
}
