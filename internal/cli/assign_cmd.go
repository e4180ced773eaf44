package cli

import (
	"fmt"
	"time"

	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rangeFlags are the week-range flags shared by assign and unassign.
type rangeFlags struct {
	from, to string
	count    int
	quarter  weeks.Quarter
	qv       *quarterValue
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	r.qv = newQuarterValue(&r.quarter)
	cmd.Flags().StringVar(&r.from, "from", "", "First week (YYYY-MM-DD or 2025-Q1/W3); dates snap to Monday")
	cmd.Flags().StringVar(&r.to, "to", "", "Last week, inclusive")
	cmd.Flags().IntVar(&r.count, "weeks", 0, "Number of weeks starting at --from")
	cmd.Flags().Var(r.qv, "quarter", "Every week of a quarter instead of --from/--to")
}

func (r *rangeFlags) resolve() (time.Time, time.Time, error) {
	if r.qv.set {
		if r.from != "" || r.to != "" || r.count != 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("--quarter cannot be combined with --from, --to or --weeks")
		}
		ws, err := r.quarter.Weeks()
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return ws[0].Start, ws[len(ws)-1].Start, nil
	}
	return parseWeekRange(r.from, r.to, r.count)
}

func newAssignCmd(app *App) *cobra.Command {
	var rf rangeFlags
	var alloc, note string

	cmd := &cobra.Command{
		Use:   "assign ASSIGNEE PROJECT",
		Short: "Put someone on a project for a range of weeks",
		Long: `Put someone on a project for a range of weeks.

The project's share of each week is set to --alloc; other projects in the
same weeks are left alone, so a week can end up over-allocated.`,
		Example: `  legoplanner assign Ada CAS01 --from 2025-01-06 --weeks 4 --alloc 50
  legoplanner assign Ada CAS01 --quarter 2025-Q2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			who, err := resolveAssignee(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, args[1])
			if err != nil {
				return err
			}
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}
			pct := app.gridConfig().DefaultAlloc
			if alloc != "" {
				if pct, err = parseAllocation(alloc); err != nil {
					return fmt.Errorf("--alloc: %w", err)
				}
			}

			cs, err := app.Assignments.Assign(ctx, contract.AssignRequest{
				AssigneeID:    who.ID,
				ProjectID:     p.ID,
				From:          from,
				To:            to,
				AllocationPct: pct,
				Note:          note,
			})
			if err != nil {
				return err
			}

			app.logger().Debug("assigned",
				zap.String("assignee", who.Name), zap.String("project", p.ShortID), zap.Int("cells", len(cs.Changes)))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChangeset(cs))
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&alloc, "alloc", "", "Share of each week in percent (default from config)")
	cmd.Flags().StringVar(&note, "note", "", "Note stored on each assignment")

	return cmd
}

func newUnassignCmd(app *App) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "unassign ASSIGNEE PROJECT",
		Short: "Take someone off a project for a range of weeks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			who, err := resolveAssignee(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, args[1])
			if err != nil {
				return err
			}
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}

			cs, err := app.Assignments.Unassign(ctx, who.ID, p.ID, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChangeset(cs))
			return nil
		},
	}

	rf.register(cmd)

	return cmd
}
