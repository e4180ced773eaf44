package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/spf13/cobra"
)

func newGridCmd(app *App) *cobra.Command {
	var teams []string
	var static, all bool

	cmd := &cobra.Command{
		Use:   "grid [QUARTER]",
		Short: "Show the assignment grid for a quarter",
		Long: `Show assignees against the 13 weeks of a quarter.

On a terminal the grid is interactive: move with the arrow keys, assign with
space, paint with p, copy and paste with y and v, undo with u. Press ? for
every shortcut. When output is not a terminal, or with --static, a plain
table is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := resolveQuarter(app, args)
			if err != nil {
				return err
			}
			req := contract.NewGridRequest(q)
			req.Teams = teams
			req.IncludeInactive = all
			cfg := app.gridConfig()

			if static || !app.interactive() {
				view, err := app.gridUseCase().Build(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGrid(view, cfg.ShowWeekDates))
				return nil
			}

			model := newGridModel(cmd.Context(), app.gridUseCase(), app.editUseCase(), req, gridOptions{
				HistoryLimit: cfg.HistoryLimit,
				DefaultAlloc: cfg.DefaultAlloc,
				AllocStep:    cfg.AllocStep,
				ShowDates:    cfg.ShowWeekDates,
				Clipboard:    app.Clipboard,
				Logger:       app.logger().Named("grid"),
			})
			defer app.muteConsoleLogs()()
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringSliceVar(&teams, "team", nil, "Only these teams (repeatable)")
	cmd.Flags().BoolVar(&static, "static", false, "Print a plain table even on a terminal")
	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated assignees")

	return cmd
}
