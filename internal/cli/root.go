package cli

import (
	"time"

	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/config"
	"github.com/legoplanner/legoplanner/internal/editing"
	"github.com/legoplanner/legoplanner/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Assignees   service.AssigneeService
	Assignments service.AssignmentService
	Grid        service.GridService
	Reports     service.ReportService
	Import      service.ImportService

	// Optional port overrides for the interactive grid. Nil falls back to
	// Grid and Assignments.
	GridBuilder app.GridUseCase
	Editor      app.EditUseCase

	Config *config.Config
	Logger *zap.Logger

	// Console is the logger's stderr sink. The interactive grid mutes it
	// while the alternate screen is up. Nil when logs go elsewhere.
	Console *config.ConsoleSink

	// Clipboard backs grid copy and paste. Nil keeps clips in process.
	Clipboard editing.SystemClipboard

	// IsInteractive reports whether stdin/stdout is a terminal. Nil means no.
	IsInteractive func() bool

	// Now is the clock used for "current quarter" defaults. Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// muteConsoleLogs silences stderr logging until the returned func runs.
func (a *App) muteConsoleLogs() func() {
	if a.Console == nil {
		return func() {}
	}
	return a.Console.Mute()
}

func (a *App) gridConfig() config.GridConfig {
	if a.Config != nil {
		return a.Config.Grid
	}
	return config.Default("").Grid
}

// NewRootCmd creates the top-level "legoplanner" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "legoplanner",
		Short:         "Quarterly team capacity planner",
		Long:          "Plan who works on which project, week by week, across 13-week quarters.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newWeeksCmd(app),
		newProjectCmd(app),
		newAssigneeCmd(app),
		newAssignCmd(app),
		newUnassignCmd(app),
		newGridCmd(app),
		newReportCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newConfigCmd(app),
	)

	return root
}
