package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectUpdateCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var v projectFormValues
	var description, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (v.ShortID == "" || v.Name == "" || v.Team == "") && app.interactive() {
				if err := projectForm(&v, configuredTeams(app)).Run(); err != nil {
					return err
				}
			}
			if v.ShortID == "" || v.Name == "" || v.Team == "" {
				return fmt.Errorf("--id, --name and --team are required")
			}

			p := &domain.Project{
				ShortID:     v.ShortID,
				Name:        v.Name,
				Team:        strings.TrimSpace(v.Team),
				Description: description,
				Status:      domain.ProjectStatus(v.Status),
				Color:       color,
			}
			if v.Priority != "" {
				n, err := strconv.Atoi(strings.TrimSpace(v.Priority))
				if err != nil {
					return fmt.Errorf("invalid priority %q", v.Priority)
				}
				p.Priority = n
			}

			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&v.ShortID, "id", "", "Short ID (2-6 uppercase letters + 1-4 digits, e.g. CAS01)")
	cmd.Flags().StringVar(&v.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&v.Team, "team", "", "Owning team")
	cmd.Flags().StringVar(&v.Status, "status", "", "Initial status (planned|active|paused|done)")
	cmd.Flags().StringVar(&v.Priority, "priority", "", "Priority from 1 (highest) to 5")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&color, "color", "", "Grid color as #RRGGBB (default picked from the palette)")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var statuses, teams []string
	var search, groupBy string
	var all, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidGroupKeys[groupBy] {
				return fmt.Errorf("invalid --group-by %q (team|status|priority)", groupBy)
			}
			f := repository.ProjectFilter{Teams: teams, Search: search, IncludeArchived: all}
			for _, s := range statuses {
				s = strings.ToLower(strings.TrimSpace(s))
				if !domain.ValidProjectStatuses[s] {
					return fmt.Errorf("invalid --status %q", s)
				}
				f.Statuses = append(f.Statuses, domain.ProjectStatus(s))
			}

			projects, err := app.Projects.List(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, projectsJSON(projects))
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			if groupBy != "" {
				groups := app.Projects.Group(projects, domain.GroupKey(groupBy))
				fmt.Fprintln(out, formatter.FormatProjectGroups(groups))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only these statuses (repeatable)")
	cmd.Flags().StringSliceVar(&teams, "team", nil, "Only these teams (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Match short ID, name or description")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "Group by team, status or priority")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show project details and who is assigned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			assignments, err := app.Assignments.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			names, err := assigneeNames(cmd, app)
			if err != nil {
				return err
			}

			data := formatter.ProjectInspectData{
				Project: p,
				Effort:  formatter.SummariseAssignments(assignments, names),
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectInspect(data))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var shortID, name, team, description, status, color string
	var priority int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("id") {
				p.ShortID = shortID
			}
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("team") {
				p.Team = team
			}
			if flags.Changed("description") {
				p.Description = description
			}
			if flags.Changed("status") {
				s := strings.ToLower(status)
				if s == string(domain.ProjectArchived) {
					return fmt.Errorf("use 'project archive' to archive a project")
				}
				p.Status = domain.ProjectStatus(s)
			}
			if flags.Changed("priority") {
				p.Priority = priority
			}
			if flags.Changed("color") {
				p.Color = color
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "New short ID")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&team, "team", "", "Owning team")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&status, "status", "", "Project status (planned|active|paused|done)")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority from 1 (highest) to 5")
	cmd.Flags().StringVar(&color, "color", "", "Grid color as #RRGGBB")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project; its assignments stay on the grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.ShortID)
			return nil
		},
	}
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive ID",
		Short: "Unarchive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Unarchive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived project %s\n", p.ShortID)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if force && !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Delete %s and all of its assignments?", p.ShortID)
				if err := wizardConfirm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Projects.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.ShortID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Also delete the project's assignments")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// projectJSON is the --json shape of a project.
type projectJSON struct {
	ID          string  `json:"id"`
	ShortID     string  `json:"shortId"`
	Name        string  `json:"name"`
	Team        string  `json:"team"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
	Color       string  `json:"color"`
	ArchivedAt  *string `json:"archivedAt,omitempty"`
}

func projectsJSON(projects []*domain.Project) []projectJSON {
	out := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		pj := projectJSON{
			ID:          p.ID,
			ShortID:     p.ShortID,
			Name:        p.Name,
			Team:        p.Team,
			Description: p.Description,
			Status:      string(p.Status),
			Priority:    p.Priority,
			Color:       p.Color,
		}
		if p.ArchivedAt != nil {
			s := p.ArchivedAt.Format(time.RFC3339)
			pj.ArchivedAt = &s
		}
		out = append(out, pj)
	}
	return out
}

func assigneeNames(cmd *cobra.Command, app *App) (map[string]string, error) {
	assignees, err := app.Assignees.List(cmd.Context(), true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(assignees))
	for _, a := range assignees {
		names[a.ID] = a.Name
	}
	return names, nil
}

func configuredTeams(app *App) []string {
	if app.Config == nil {
		return nil
	}
	return app.Config.Teams
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
