package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/legoplanner/legoplanner/internal/cli"
	"github.com/legoplanner/legoplanner/internal/config"
	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/editing"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	console := config.NewConsoleSink(os.Stderr)
	logger, err := config.NewLogger(cfg.Logging, console)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Open database
	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", zap.String("path", cfg.DB))

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	assigneeRepo := repository.NewSQLiteAssigneeRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewZapUseCaseObserver(logger)

	// Wire services
	gridSvc := service.NewGridService(projectRepo, assigneeRepo, assignmentRepo)

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, assignmentRepo, observer),
		Assignees:   service.NewAssigneeService(assigneeRepo, observer),
		Assignments: service.NewAssignmentService(assignmentRepo, uow, observer),
		Grid:        gridSvc,
		Reports:     service.NewReportService(gridSvc),
		Import:      service.NewImportService(projectRepo, assigneeRepo, assignmentRepo, uow, observer),
		Config:      &cfg,
		Logger:      logger,
		Console:     console,
	}

	// The grid is interactive only when both ends are a terminal.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
	}

	if cfg.Grid.SystemClip {
		if editing.SystemClipboardAvailable() {
			app.Clipboard = editing.OSClipboard{}
		} else {
			logger.Debug("no system clipboard utility found; copy stays in process")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
