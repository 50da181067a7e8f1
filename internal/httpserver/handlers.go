package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/render/svg"
)

func (srv *Server) handleListProjects(c *gin.Context) {
	projects, err := srv.projects.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectJSON(p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out, "count": len(out)})
}

// fetch resolves a project by id or short id and loads its gantt payload.
func (srv *Server) fetch(ctx context.Context, ref string) (*contract.GanttResponse, error) {
	p, err := srv.projects.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return srv.gantt.GetGantt(ctx, p.ID)
}

func (srv *Server) handleGetGantt(c *gin.Context) {
	resp, err := srv.fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (srv *Server) handleGetLayout(c *gin.Context) {
	l, _, ok := srv.layoutFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newLayoutJSON(l))
}

func (srv *Server) handleGanttSVG(c *gin.Context) {
	l, resp, ok := srv.layoutFor(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	opts := svg.Options{Title: domain.CoalesceStr(c.Query("title"), resp.ProjectName), Theme: srv.theme}
	if err := svg.Render(&buf, l, opts); err != nil {
		abort(c, fmt.Errorf("rendering svg: %w", err))
		return
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", buf.Bytes())
}

// layoutFor fetches the project and computes its layout for the view
// described by the query string. It writes the error response itself.
func (srv *Server) layoutFor(c *gin.Context) (*gantt.Layout, *contract.GanttResponse, bool) {
	view, collapsed, err := parseView(c)
	if err != nil {
		badRequest(c, err)
		return nil, nil, false
	}
	resp, err := srv.fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return nil, nil, false
	}

	ctl := controller.New(controller.Options{
		ProjectID: resp.ProjectID,
		Policy:    srv.policy,
		View:      &view,
		Memo:      srv.memo,
		Now:       srv.now,
	})
	ctl.Load(resp.ToSnapshot())
	for _, id := range collapsed {
		if ctl.State().Expanded.Has(id) {
			ctl.ToggleExpand(id)
		}
	}
	return ctl.Layout(), resp, true
}

// parseView reads zoom, collapsed, critical, deps, q and status.
func parseView(c *gin.Context) (controller.ViewState, []string, error) {
	view := controller.DefaultViewState()
	if z := c.Query("zoom"); z != "" {
		level, err := domain.ParseZoomLevel(z)
		if err != nil {
			return view, nil, err
		}
		view.Zoom = level
	}
	for key, dst := range map[string]*bool{
		"critical": &view.ShowCriticalPath,
		"deps":     &view.ShowDependencies,
	} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return view, nil, fmt.Errorf("%s: expected a boolean, got %q", key, raw)
		}
		*dst = v
	}
	view.Filter.Text = c.Query("q")
	for _, s := range splitList(c.Query("status")) {
		view.Filter.Statuses = append(view.Filter.Statuses, domain.TaskStatus(s))
	}
	return view, splitList(c.Query("collapsed")), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (srv *Server) handleListBaselines(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := srv.projects.Resolve(ctx, c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	baselines, err := srv.baselines.List(ctx, p.ID)
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]baselineJSON, 0, len(baselines))
	for _, b := range baselines {
		out = append(out, newBaselineJSON(b))
	}
	c.JSON(http.StatusOK, gin.H{"baselines": out, "count": len(out)})
}

func (srv *Server) handleUpdateDates(c *gin.Context) {
	var req contract.DateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("decoding body: %w", err))
		return
	}
	if err := srv.schedule.UpdateDates(c.Request.Context(), c.Param("id"), req); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (srv *Server) handleCreateDependency(c *gin.Context) {
	var req contract.DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("decoding body: %w", err))
		return
	}
	if err := srv.schedule.CreateDependency(c.Request.Context(), req); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (srv *Server) handleDeleteDependency(c *gin.Context) {
	var req contract.DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("decoding body: %w", err))
		return
	}
	if err := srv.schedule.DeleteDependency(c.Request.Context(), req); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (srv *Server) handleCreateBaselines(c *gin.Context) {
	var req contract.BaselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("decoding body: %w", err))
		return
	}
	b, err := srv.baselines.CreateBulk(c.Request.Context(), req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBaselineJSON(b))
}
