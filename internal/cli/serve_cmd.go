package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/httpserver"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr      string
		rateLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gantt REST API and SVG charts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := httpserver.Config{
				Addr:            addr,
				RateLimitPerMin: rateLimit,
				Logger:          app.logger(),
				Theme:           app.Theme,
				Memo:            app.Memo,
				Now:             app.Now,
				Projects:        app.Projects,
				Gantt:           app.Gantt,
				Schedule:        app.Schedule,
				Baselines:       app.Baselines,
				Policy:          controller.ExpandAllOnLoad,
			}
			if app.Config != nil {
				cfg.Mode = app.Config.Server.Mode
				cfg.Policy = app.Config.ExpansionPolicy
				if !cmd.Flags().Changed("addr") {
					cfg.Addr = app.Config.Server.Addr
				}
				if !cmd.Flags().Changed("rate-limit") {
					cfg.RateLimitPerMin = app.Config.Server.RateLimitPerMin
				}
			}

			srv, err := httpserver.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", cfg.Addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 600, "Requests per minute per client (0 disables)")
	return cmd
}
