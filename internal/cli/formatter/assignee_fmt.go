package formatter

import (
	"github.com/legoplanner/legoplanner/internal/domain"
)

// FormatAssigneeList renders assignees with their team and weekly capacity.
func FormatAssigneeList(assignees []*domain.Assignee) string {
	rows := make([][]string, 0, len(assignees))
	for _, a := range assignees {
		state := StyleGreen.Render("● Active")
		if !a.Active {
			state = StyleDim.Render("○ Inactive")
		}
		rows = append(rows, []string{
			Bold(a.Name),
			TeamBadge(a.Team),
			StyleFg.Render(a.Role),
			FormatPct(a.CapacityPct),
			state,
			TruncID(a.ID),
		})
	}
	return RenderBox("Assignees", RenderTable([]string{"NAME", "TEAM", "ROLE", "CAPACITY", "STATE", "ID"}, rows))
}
