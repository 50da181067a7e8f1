package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttline/internal/config"
	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/render/svg"
	"github.com/alexanderramin/ganttline/internal/service"
)

// Port is what the timeline commands talk to: the local services or a
// remote API.
type Port interface {
	controller.Source
	controller.CommandPort
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Gantt     service.GanttService
	Schedule  service.ScheduleService
	Baselines service.BaselineService
	Import    service.ImportService

	// Port serves gantt, tui, render, task, dep and baseline save.
	Port Port

	Config *config.Config
	Theme  svg.Theme
	Logger *slog.Logger
	Memo   *gantt.Memo
	Now    func() time.Time

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "ganttline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ganttline",
		Short:         "Gantt timelines for project plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newImportCmd(app),
		newGanttCmd(app),
		newRenderCmd(app),
		newTUICmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newBaselineCmd(app),
		newServeCmd(app),
	)

	return root
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

func (app *App) logger() *slog.Logger {
	if app.Logger != nil {
		return app.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// newController builds a controller for one project. Commands issued
// through it are refetched from Port when a project id is set.
func (app *App) newController(projectID string, view controller.ViewState, notifier controller.Notifier, extra ...func(*controller.Options)) *controller.Controller {
	opts := controller.Options{
		ProjectID: projectID,
		Commands:  app.Port,
		Notifier:  notifier,
		Observer:  controller.NewLogObserver(app.logger()),
		View:      &view,
		Memo:      app.Memo,
		Now:       app.now,
	}
	if projectID != "" {
		opts.Source = app.Port
	}
	if app.Config != nil {
		opts.Policy = app.Config.ExpansionPolicy
	}
	for _, fn := range extra {
		fn(&opts)
	}
	return controller.New(opts)
}

// defaultView is the configured starting view.
func (app *App) defaultView() controller.ViewState {
	view := controller.DefaultViewState()
	if app.Config != nil && app.Config.DefaultZoom != "" {
		view.Zoom = app.Config.DefaultZoom
	}
	return view
}
