package cli

import (
	"fmt"

	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var teams []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report [QUARTER]",
		Short: "Capacity and effort summary for a quarter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := resolveQuarter(app, args)
			if err != nil {
				return err
			}
			req := contract.NewCapacityRequest(q)
			req.Teams = teams

			report, err := app.Reports.Capacity(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCapacityReport(report))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&teams, "team", nil, "Only these teams (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
