package cli

import (
	"fmt"
	"strings"

	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/spf13/cobra"
)

func newAssigneeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignee",
		Aliases: []string{"assignees", "people"},
		Short:   "Manage the people who can be assigned",
	}

	cmd.AddCommand(
		newAssigneeAddCmd(app),
		newAssigneeListCmd(app),
		newAssigneeUpdateCmd(app),
		newAssigneeDeactivateCmd(app),
		newAssigneeRemoveCmd(app),
	)

	return cmd
}

func newAssigneeAddCmd(app *App) *cobra.Command {
	var v assigneeFormValues
	var email string

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add an assignee",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Name = args[0]
			}
			if (v.Name == "" || v.Team == "") && app.interactive() {
				if err := assigneeForm(&v, configuredTeams(app)).Run(); err != nil {
					return err
				}
			}
			if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Team) == "" {
				return fmt.Errorf("a name and --team are required")
			}

			a := &domain.Assignee{
				Name:  v.Name,
				Team:  strings.TrimSpace(v.Team),
				Role:  v.Role,
				Email: email,
			}
			if v.Capacity != "" {
				pct, err := parseAllocation(v.Capacity)
				if err != nil {
					return fmt.Errorf("--capacity: %w", err)
				}
				a.CapacityPct = pct
			}

			if err := app.Assignees.Create(cmd.Context(), a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d%%)\n", a.Name, a.Team, a.CapacityPct)
			return nil
		},
	}

	cmd.Flags().StringVar(&v.Team, "team", "", "Team the assignee belongs to")
	cmd.Flags().StringVar(&v.Role, "role", "", "Role, e.g. designer")
	cmd.Flags().StringVar(&v.Capacity, "capacity", "", "Weekly capacity in percent (default 100)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")

	return cmd
}

func newAssigneeListCmd(app *App) *cobra.Command {
	var all, asJSON bool
	var team string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignees",
		RunE: func(cmd *cobra.Command, args []string) error {
			assignees, err := app.Assignees.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if team != "" {
				filtered := assignees[:0]
				for _, a := range assignees {
					if strings.EqualFold(a.Team, team) {
						filtered = append(filtered, a)
					}
				}
				assignees = filtered
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, assigneesJSON(assignees))
			}
			if len(assignees) == 0 {
				fmt.Fprintln(out, "No assignees found.")
				return nil
			}
			fmt.Fprintln(out, formatter.FormatAssigneeList(assignees))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated assignees")
	cmd.Flags().StringVar(&team, "team", "", "Only this team")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func newAssigneeUpdateCmd(app *App) *cobra.Command {
	var name, team, role, capacity, email string
	var active bool

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update an assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveAssignee(ctx, app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				a.Name = name
			}
			if flags.Changed("team") {
				a.Team = team
			}
			if flags.Changed("role") {
				a.Role = role
			}
			if flags.Changed("email") {
				a.Email = email
			}
			if flags.Changed("capacity") {
				pct, err := parseAllocation(capacity)
				if err != nil {
					return fmt.Errorf("--capacity: %w", err)
				}
				a.CapacityPct = pct
			}
			if flags.Changed("active") {
				a.Active = active
			}

			if err := app.Assignees.Update(ctx, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", a.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&team, "team", "", "Team")
	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&capacity, "capacity", "", "Weekly capacity in percent")
	cmd.Flags().BoolVar(&active, "active", true, "Reactivate (--active) or deactivate (--active=false)")

	return cmd
}

func newAssigneeDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate NAME",
		Short: "Hide an assignee from the grid; history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveAssignee(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Assignees.Deactivate(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s\n", a.Name)
			return nil
		},
	}
}

func newAssigneeRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete an assignee and all of their assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveAssignee(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Delete %s and all of their assignments?", a.Name)
				if err := wizardConfirm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Assignees.Delete(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", a.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

type assigneeJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	Team        string `json:"team"`
	CapacityPct int    `json:"capacityPct"`
	Active      bool   `json:"active"`
}

func assigneesJSON(assignees []*domain.Assignee) []assigneeJSON {
	out := make([]assigneeJSON, 0, len(assignees))
	for _, a := range assignees {
		out = append(out, assigneeJSON{
			ID:          a.ID,
			Name:        a.Name,
			Email:       a.Email,
			Role:        a.Role,
			Team:        a.Team,
			CapacityPct: a.CapacityPct,
			Active:      a.Active,
		})
	}
	return out
}
