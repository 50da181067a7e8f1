// Package httpserver exposes the gantt services over a gin REST API and
// serves rendered SVG charts.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/render/svg"
	"github.com/alexanderramin/ganttline/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Config is the dependency bag passed to New.
type Config struct {
	Addr            string
	Mode            string
	RateLimitPerMin int
	Logger          *slog.Logger
	Theme           svg.Theme
	Policy          controller.ExpansionPolicy
	Memo            *gantt.Memo
	Now             func() time.Time

	Projects  service.ProjectService
	Gantt     service.GanttService
	Schedule  service.ScheduleService
	Baselines service.BaselineService
}

// Server holds the gin engine and the services behind it.
type Server struct {
	gin     *gin.Engine
	addr    string
	logger  *slog.Logger
	theme   svg.Theme
	policy  controller.ExpansionPolicy
	memo    *gantt.Memo
	now     func() time.Time
	limiter *rateLimiter

	projects  service.ProjectService
	gantt     service.GanttService
	schedule  service.ScheduleService
	baselines service.BaselineService
}

func New(cfg Config) (*Server, error) {
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	gin.SetMode(cfg.Mode)

	srv := &Server{
		gin:       gin.New(),
		addr:      cfg.Addr,
		logger:    cfg.Logger,
		theme:     cfg.Theme,
		policy:    cfg.Policy,
		memo:      cfg.Memo,
		now:       cfg.Now,
		projects:  cfg.Projects,
		gantt:     cfg.Gantt,
		schedule:  cfg.Schedule,
		baselines: cfg.Baselines,
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin > 0 {
		srv.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	if srv.theme.Font.Size <= 0 {
		srv.theme = svg.DefaultTheme()
	}
	if srv.memo == nil {
		srv.memo = gantt.NewMemo(gantt.DefaultMemoSize)
	}
	if srv.now == nil {
		srv.now = time.Now
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv *Server) validate() error {
	switch {
	case srv.logger == nil:
		return errors.New("logger is required")
	case srv.projects == nil:
		return errors.New("project service is required")
	case srv.gantt == nil:
		return errors.New("gantt service is required")
	case srv.schedule == nil:
		return errors.New("schedule service is required")
	case srv.baselines == nil:
		return errors.New("baseline service is required")
	}
	return nil
}

// Handler returns the router, for tests and for embedding.
func (srv *Server) Handler() http.Handler { return srv.gin }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	if srv.addr == "" {
		return errors.New("listen address is required")
	}
	hs := &http.Server{
		Addr:              srv.addr,
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("http server listening", "addr", srv.addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.logger.Info("http server shutting down")
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return <-errCh
}
