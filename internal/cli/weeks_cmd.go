package cli

import (
	"fmt"
	"strconv"

	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/spf13/cobra"
)

func newWeeksCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "weeks [QUARTER]",
		Short: "Show the 13 week buckets of a quarter",
		Example: `  legoplanner weeks
  legoplanner weeks 2025-Q1 --json
  legoplanner weeks year 2026`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := resolveQuarter(app, args)
			if err != nil {
				return err
			}
			ws, err := q.Weeks()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Quarter weeks.Quarter `json:"quarter"`
					Weeks   []weeks.Week  `json:"weeks"`
				}{q, ws})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeeks(q, ws, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.AddCommand(newWeeksYearCmd(app))

	return cmd
}

func newWeeksYearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "year [YEAR]",
		Short: "Show all four quarters of a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := currentQuarter(app.now()).Year
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = y
			}

			quarters := make([][]weeks.Week, 0, 4)
			for q := 1; q <= 4; q++ {
				ws, err := weeks.GenerateWeeks(year, q)
				if err != nil {
					return err
				}
				quarters = append(quarters, ws)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatYear(year, quarters, app.now()))
			return nil
		},
	}
}
