package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

// AssigneeEffort summarises one person's weeks on a project.
type AssigneeEffort struct {
	Name        string
	Weeks       int
	PersonWeeks float64
	First       time.Time
	Last        time.Time
}

// ProjectInspectData holds all data needed to render a project inspect view.
type ProjectInspectData struct {
	Project *domain.Project
	Effort  []AssigneeEffort
}

// SummariseAssignments folds a project's assignments per assignee, ordered
// by effort then name. names maps assignee IDs to display names.
func SummariseAssignments(assignments []domain.Assignment, names map[string]string) []AssigneeEffort {
	byID := make(map[string]*AssigneeEffort)
	var order []string
	for _, a := range assignments {
		e := byID[a.AssigneeID]
		if e == nil {
			name := names[a.AssigneeID]
			if name == "" {
				name = a.AssigneeID
			}
			e = &AssigneeEffort{Name: name, First: a.WeekStart, Last: a.WeekStart}
			byID[a.AssigneeID] = e
			order = append(order, a.AssigneeID)
		}
		e.Weeks++
		e.PersonWeeks += float64(a.AllocationPct) / 100
		if a.WeekStart.Before(e.First) {
			e.First = a.WeekStart
		}
		if a.WeekStart.After(e.Last) {
			e.Last = a.WeekStart
		}
	}
	out := make([]AssigneeEffort, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PersonWeeks != out[j].PersonWeeks {
			return out[i].PersonWeeks > out[j].PersonWeeks
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func projectRows(projects []*domain.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		if strings.TrimSpace(id) == "" {
			id = "--"
		}
		rows = append(rows, []string{
			Swatch(p.Color, " "+id+" "),
			Bold(p.Name),
			TeamBadge(p.Team),
			StatusPill(p.Status),
			PriorityBadge(p.Priority),
		})
	}
	return rows
}

var projectHeaders = []string{"ID", "NAME", "TEAM", "STATUS", "PRI"}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	return RenderBox("Projects", RenderTable(projectHeaders, projectRows(projects)))
}

// FormatProjectGroups renders one table per group under its heading.
func FormatProjectGroups(groups []contract.ProjectGroup) string {
	if len(groups) == 1 && groups[0].Key == "" {
		return FormatProjectList(groups[0].Projects)
	}
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		key := g.Key
		if key == "" {
			key = "(none)"
		}
		b.WriteString(Header(fmt.Sprintf("%s (%d)", key, len(g.Projects))))
		b.WriteString("\n")
		b.WriteString(RenderTable(projectHeaders, projectRows(g.Projects)))
	}
	return RenderBox("Projects", strings.TrimRight(b.String(), "\n"))
}

// FormatProjectInspect renders project metadata beside its staffing.
func FormatProjectInspect(data ProjectInspectData) string {
	left := buildMetadataPanel(data.Project)
	right := buildEffortPanel(data.Effort)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildMetadataPanel(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(TeamBadge(p.Team) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS  "), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PRIORITY"), PriorityBadge(p.Priority)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID      "), Swatch(p.Color, " "+p.ShortID+" ")))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID    "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("COLOR   "), StyleFg.Render(p.Color)))
	if p.ArchivedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ARCHIVED"), Dim(p.ArchivedAt.Format(weeks.DateLayout))))
	}
	if p.Description != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(40).Foreground(ColorFg).Render(p.Description) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildEffortPanel(effort []AssigneeEffort) string {
	if len(effort) == 0 {
		return Dim("Nobody is assigned yet.")
	}
	rows := make([][]string, 0, len(effort))
	var total float64
	for _, e := range effort {
		total += e.PersonWeeks
		rows = append(rows, []string{
			StyleFg.Render(e.Name),
			fmt.Sprintf("%d", e.Weeks),
			FormatPersonWeeks(e.PersonWeeks),
			Dim(e.First.Format(weeks.DateLayout) + " → " + e.Last.Format(weeks.DateLayout)),
		})
	}
	table := RenderTable([]string{"ASSIGNEE", "WEEKS", "PW", "SPAN"}, rows)
	return table + Dim(fmt.Sprintf("%s person-weeks in total", FormatPersonWeeks(total)))
}
