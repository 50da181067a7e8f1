package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/ganttline/internal/apiclient"
	"github.com/alexanderramin/ganttline/internal/cli"
	"github.com/alexanderramin/ganttline/internal/config"
	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/render/svg"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	// Wire services
	ganttSvc := service.NewGanttService(projectRepo, taskRepo, depRepo, observer)
	scheduleSvc := service.NewScheduleService(uow, observer)
	baselineSvc := service.NewBaselineService(baselineRepo, uow, observer)

	theme, err := svg.LoadTheme(cfg.Theme)
	if err != nil {
		return err
	}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo),
		Gantt:     ganttSvc,
		Schedule:  scheduleSvc,
		Baselines: baselineSvc,
		Import:    service.NewImportService(uow, observer),
		Port:      service.NewLocalPort(ganttSvc, scheduleSvc, baselineSvc),
		Config:    cfg,
		Theme:     theme,
		Logger:    logger,
		Memo:      gantt.NewMemo(gantt.DefaultMemoSize),
	}

	// Timeline commands go to a remote server when one is configured.
	if cfg.API.BaseURL != "" {
		apiCfg := apiclient.DefaultConfig()
		apiCfg.BaseURL = cfg.API.BaseURL
		apiCfg.Timeout = cfg.API.Timeout
		apiCfg.MaxRetries = cfg.API.MaxRetries
		app.Port = apiclient.New(apiCfg, apiclient.NewLogObserver(logger))
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
