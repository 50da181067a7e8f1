package cli

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// viewFlags are the view-state flags shared by gantt, render and tui.
type viewFlags struct {
	zoom       zoomFlag
	collapse   []string
	noCritical bool
	noDeps     bool
	filter     string
	statuses   []string
}

func (f *viewFlags) register(fs *pflag.FlagSet) {
	addZoomFlag(fs, &f.zoom)
	fs.StringSliceVar(&f.collapse, "collapse", nil, "Task IDs to show collapsed")
	fs.BoolVar(&f.noCritical, "no-critical", false, "Hide the critical path highlight")
	fs.BoolVar(&f.noDeps, "no-deps", false, "Hide dependency connectors")
	fs.StringVar(&f.filter, "filter", "", "Only show tasks whose title or assignee contains this text")
	fs.StringSliceVar(&f.statuses, "status", nil, "Only show tasks with these statuses")
}

func (f *viewFlags) view(app *App) controller.ViewState {
	view := app.defaultView()
	if f.zoom.level != "" {
		view.Zoom = f.zoom.level
	}
	view.ShowCriticalPath = !f.noCritical
	view.ShowDependencies = !f.noDeps
	view.Filter.Text = f.filter
	for _, s := range f.statuses {
		view.Filter.Statuses = append(view.Filter.Statuses, domain.TaskStatus(s))
	}
	return view
}

// collapseListed collapses the flagged parents after a load re-seeded the
// expansion set.
func (f *viewFlags) collapseListed(ctl *controller.Controller) {
	for _, id := range f.collapse {
		if ctl.State().Expanded.Has(id) {
			ctl.ToggleExpand(id)
		}
	}
}

// openTimeline resolves ref and loads the project through app.Port.
func (app *App) openTimeline(ctx context.Context, ref string, f *viewFlags, notifier controller.Notifier) (*controller.Controller, error) {
	projectID, err := resolveProjectID(ctx, app, ref)
	if err != nil {
		return nil, err
	}
	if app.Port == nil {
		return nil, errNoPort
	}
	ctl := app.newController(projectID, f.view(app), notifier)
	if err := ctl.Refresh(ctx); err != nil {
		return nil, err
	}
	f.collapseListed(ctl)
	return ctl, nil
}

// openFile loads a saved gantt payload without any backend.
func (app *App) openFile(path string, f *viewFlags) (*controller.Controller, error) {
	resp, err := contract.LoadGanttFile(path)
	if err != nil {
		return nil, err
	}
	ctl := app.newController("", f.view(app), nil)
	ctl.Load(resp.ToSnapshot())
	f.collapseListed(ctl)
	return ctl, nil
}
