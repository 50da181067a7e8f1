package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

// chartHeaderLines is the number of header rows FormatGantt prints above
// the first task row when no title is set.
const chartHeaderLines = 2

// timelineLoadedMsg carries the result of a (re)fetch.
type timelineLoadedMsg struct{ err error }

// commandDoneMsg carries the result of an outbound command.
type commandDoneMsg struct {
	done string
	err  error
}

type ganttKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Open        key.Binding
	Earlier     key.Binding
	Later       key.Binding
	Shorter     key.Binding
	Longer      key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Critical    key.Binding
	Deps        key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Baseline    key.Binding
	Filter      key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultGanttKeys() ganttKeyMap {
	return ganttKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "details")),
		Earlier:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "move ±1 day")),
		Later:       key.NewBinding(key.WithKeys("l", "right")),
		Shorter:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H/L", "resize ±1 day")),
		Longer:      key.NewBinding(key.WithKeys("L")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:     key.NewBinding(key.WithKeys("-")),
		Critical:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "critical path")),
		Deps:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dependencies")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e/E", "expand/collapse all")),
		CollapseAll: key.NewBinding(key.WithKeys("E")),
		Baseline:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "save baseline")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k ganttKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Earlier, k.ZoomIn, k.Filter, k.Help, k.Quit}
}

func (k ganttKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Open},
		{k.Earlier, k.Shorter, k.ZoomIn, k.Baseline},
		{k.Critical, k.Deps, k.ExpandAll, k.Filter},
		{k.Refresh, k.Help, k.Quit},
	}
}

// ganttView hosts one timeline controller in the terminal.
type ganttView struct {
	ctx   context.Context
	ctl   *controller.Controller
	flags *viewFlags

	keys     ganttKeyMap
	help     help.Model
	vp       viewport.Model
	filter   textinput.Model
	notes    chan controller.Notification
	width    int
	height   int
	cursor   int
	loaded   bool
	loading  bool
	filterOn bool
	detailID string
	status   string
	errored  bool
	quitting bool
}

func newGanttView(ctx context.Context, app *App, projectID string, flags *viewFlags) *ganttView {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "title or assignee"
	ti.CharLimit = 100

	v := &ganttView{
		ctx:    ctx,
		flags:  flags,
		keys:   defaultGanttKeys(),
		help:   help.New(),
		vp:     viewport.New(0, 0),
		filter: ti,
		notes:  make(chan controller.Notification, 16),
	}
	notifier := controller.NotifierFunc(func(_ context.Context, n controller.Notification) {
		select {
		case v.notes <- n:
		default:
		}
	})
	v.ctl = app.newController(projectID, flags.view(app), notifier, func(o *controller.Options) {
		o.Navigator = v
		if projectID == "" {
			o.Commands = nil
		}
	})
	return v
}

// OpenTask shows the task detail panel.
func (v *ganttView) OpenTask(_ context.Context, taskID string) error {
	if v.taskByID(taskID) == nil {
		return fmt.Errorf("%w: %s", controller.ErrUnknownTask, taskID)
	}
	v.detailID = taskID
	return nil
}

func (v *ganttView) Init() tea.Cmd {
	if v.ctl.Snapshot() != nil {
		v.loaded = true
		return nil
	}
	v.loading = true
	return v.refresh()
}

func (v *ganttView) refresh() tea.Cmd {
	ctl, ctx := v.ctl, v.ctx
	return func() tea.Msg {
		return timelineLoadedMsg{err: ctl.Refresh(ctx)}
	}
}

// run executes fn off the update loop and reports done on success.
func (v *ganttView) run(done string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return commandDoneMsg{done: done, err: fn(ctx)}
	}
}

func (v *ganttView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.help.Width = msg.Width
		v.resize()
		return v, nil

	case timelineLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.setStatus(msg.err.Error(), true)
			return v, nil
		}
		if !v.loaded {
			v.flags.collapseListed(v.ctl)
			v.loaded = true
		}
		v.clampCursor()
		return v, nil

	case commandDoneMsg:
		v.clampCursor()
		if msg.err != nil {
			v.setStatus(v.lastNotification(msg.err), true)
			return v, nil
		}
		v.drainNotes()
		v.setStatus(msg.done, false)
		return v, nil

	case tea.KeyMsg:
		if v.filterOn {
			return v.updateFilter(msg)
		}
		if v.detailID != "" {
			if msg.String() == "esc" || msg.String() == "o" || key.Matches(msg, v.keys.Quit) {
				v.detailID = ""
			}
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *ganttView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		v.quitting = true
		return v, tea.Quit
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		v.resize()
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.ctl.Layout().Rows)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.ZoomIn):
		v.ctl.ZoomIn()
	case key.Matches(msg, v.keys.ZoomOut):
		v.ctl.ZoomOut()
	case key.Matches(msg, v.keys.Critical):
		v.ctl.ToggleCriticalPath()
	case key.Matches(msg, v.keys.Deps):
		v.ctl.ToggleDependencies()
	case key.Matches(msg, v.keys.ExpandAll):
		v.ctl.ExpandAll()
	case key.Matches(msg, v.keys.CollapseAll):
		v.ctl.CollapseAll()
		v.clampCursor()
	case key.Matches(msg, v.keys.Filter):
		v.filterOn = true
		v.filter.SetValue(v.ctl.State().Filter.Text)
		v.resize()
		return v, v.filter.Focus()
	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.refresh()
	case key.Matches(msg, v.keys.Baseline):
		if v.ctl.BaselineInFlight() {
			v.setStatus(controller.ErrBaselineInFlight.Error(), true)
			return v, nil
		}
		v.setStatus("Saving baseline…", false)
		return v, v.run("Baseline saved", func(ctx context.Context) error {
			return v.ctl.SaveBaseline(ctx, "")
		})
	default:
		return v.handleRowKey(msg)
	}
	return v, nil
}

// handleRowKey handles the keys that act on the task under the cursor.
func (v *ganttView) handleRowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := v.currentRow()
	if !ok {
		return v, nil
	}
	id := row.Task.ID
	l := v.ctl.Layout()

	switch {
	case key.Matches(msg, v.keys.Toggle):
		if v.ctl.HasChildren(id) {
			v.ctl.ToggleExpand(id)
		}
	case key.Matches(msg, v.keys.Open):
		if err := v.ctl.OnTaskClick(v.ctx, id); err != nil {
			v.setStatus(err.Error(), true)
		}
	case key.Matches(msg, v.keys.Earlier), key.Matches(msg, v.keys.Later):
		dx := pixelsForDays(l, 1)
		if key.Matches(msg, v.keys.Earlier) {
			dx = -dx
		}
		return v, v.run("Moved "+row.Task.Title, func(ctx context.Context) error {
			return v.ctl.MoveTask(ctx, id, dx)
		})
	case key.Matches(msg, v.keys.Shorter), key.Matches(msg, v.keys.Longer):
		dx := pixelsForDays(l, 1)
		if key.Matches(msg, v.keys.Shorter) {
			dx = -dx
		}
		return v, v.run("Resized "+row.Task.Title, func(ctx context.Context) error {
			return v.ctl.ResizeTask(ctx, id, dx)
		})
	}
	return v, nil
}

func (v *ganttView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f := v.ctl.State().Filter
		f.Text = strings.TrimSpace(v.filter.Value())
		v.ctl.SetFilter(f)
		v.closeFilter()
		v.cursor = 0
		return v, nil
	case "esc":
		v.closeFilter()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

func (v *ganttView) closeFilter() {
	v.filterOn = false
	v.filter.Blur()
	v.resize()
}

func (v *ganttView) currentRow() (gantt.VisibleRow, bool) {
	rows := v.ctl.Layout().Rows
	if v.cursor < 0 || v.cursor >= len(rows) {
		return gantt.VisibleRow{}, false
	}
	return rows[v.cursor], true
}

func (v *ganttView) clampCursor() {
	n := len(v.ctl.Layout().Rows)
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *ganttView) setStatus(s string, isErr bool) {
	v.status = s
	v.errored = isErr
}

// drainNotes empties the notification buffer and returns the last message.
func (v *ganttView) drainNotes() string {
	var last string
	for {
		select {
		case n := <-v.notes:
			last = n.Message
		default:
			return last
		}
	}
}

func (v *ganttView) lastNotification(err error) string {
	if msg := v.drainNotes(); msg != "" {
		return msg
	}
	if errors.Is(err, controller.ErrBaselineInFlight) {
		return err.Error()
	}
	return "error: " + err.Error()
}

func (v *ganttView) taskByID(id string) *domain.Task {
	snap := v.ctl.Snapshot()
	if snap == nil {
		return nil
	}
	for _, t := range snap.Tasks {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

// chromeHeight is the number of lines outside the chart viewport.
func (v *ganttView) chromeHeight() int {
	h := 2 + strings.Count(v.help.View(v.keys), "\n") + 1
	if v.filterOn {
		h++
	}
	return h
}

func (v *ganttView) resize() {
	v.vp.Width = v.width
	v.vp.Height = max(v.height-v.chromeHeight(), 1)
}

// follow scrolls the viewport so the cursor row stays visible.
func (v *ganttView) follow() {
	line := v.cursor + chartHeaderLines
	switch {
	case v.cursor == 0:
		v.vp.SetYOffset(0)
	case line < v.vp.YOffset:
		v.vp.SetYOffset(line)
	case line >= v.vp.YOffset+v.vp.Height:
		v.vp.SetYOffset(line - v.vp.Height + 1)
	}
}

func (v *ganttView) View() string {
	if v.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.titleLine() + "\n")

	if v.detailID != "" {
		if t := v.taskByID(v.detailID); t != nil {
			b.WriteString(formatter.FormatTaskDetail(t) + "\n")
			b.WriteString(formatter.Dim("esc to close") + "\n")
			return b.String()
		}
	}

	switch {
	case v.loading && !v.loaded:
		b.WriteString(formatter.Dim("Loading timeline…") + "\n")
	default:
		l := v.ctl.Layout()
		v.vp.SetContent(formatter.FormatGantt(l, formatter.GanttOptions{
			Width:            v.chartWidth(),
			Cursor:           v.cursor,
			HideDependencies: !v.ctl.State().ShowDependencies,
		}))
		v.follow()
		b.WriteString(v.vp.View() + "\n")
	}

	if v.filterOn {
		b.WriteString(v.filter.View() + "\n")
	}
	if v.status != "" {
		if v.errored {
			b.WriteString(formatter.StyleRed.Render(v.status) + "\n")
		} else {
			b.WriteString(formatter.StyleGreen.Render(v.status) + "\n")
		}
	} else {
		b.WriteString("\n")
	}
	b.WriteString(v.help.View(v.keys))
	return b.String()
}

func (v *ganttView) titleLine() string {
	name := "Timeline"
	if snap := v.ctl.Snapshot(); snap != nil && snap.ProjectName != "" {
		name = snap.ProjectName
	}
	s := v.ctl.State()
	flags := fmt.Sprintf("zoom %s", s.Zoom)
	if s.ShowCriticalPath {
		flags += " · critical"
	}
	if s.ShowDependencies {
		flags += " · deps"
	}
	if s.Filter.Text != "" {
		flags += fmt.Sprintf(" · filter %q", s.Filter.Text)
	}
	return formatter.StyleHeader.Render(name) + "  " + formatter.Dim(flags)
}

func (v *ganttView) chartWidth() int {
	if v.width > 0 {
		return v.width
	}
	return terminalWidth(0)
}
