package formatter

import (
	"fmt"
	"strings"

	"github.com/legoplanner/legoplanner/internal/contract"
)

// FormatCapacityReport renders utilisation per assignee and effort per
// project, followed by totals.
func FormatCapacityReport(r *contract.CapacityReport) string {
	var b strings.Builder

	b.WriteString(Header("Utilisation"))
	b.WriteString("\n")
	if len(r.Assignees) == 0 {
		b.WriteString(Dim("No assignees in scope.") + "\n")
	} else {
		rows := make([][]string, 0, len(r.Assignees))
		for _, a := range r.Assignees {
			over := Dim("0")
			if a.OverWeeks > 0 {
				over = StyleRed.Render(fmt.Sprintf("%d", a.OverWeeks))
			}
			rows = append(rows, []string{
				Bold(a.Name),
				TeamBadge(a.Team),
				FormatPersonWeeks(a.CapacityPW),
				FormatPersonWeeks(a.AllocatedPW),
				RenderUtilisation(a.UtilisationPct, 12),
				over,
				fmt.Sprintf("%d", a.FreeWeeks),
			})
		}
		b.WriteString(RenderTable([]string{"ASSIGNEE", "TEAM", "CAP PW", "ALLOC PW", "UTILISATION", "OVER", "FREE"}, rows))
	}

	b.WriteString("\n")
	b.WriteString(Header("Projects"))
	b.WriteString("\n")
	if len(r.Projects) == 0 {
		b.WriteString(Dim("Nothing planned this quarter.") + "\n")
	} else {
		rows := make([][]string, 0, len(r.Projects))
		for _, p := range r.Projects {
			span := Dim("--")
			if p.FirstWeek != nil && p.LastWeek != nil {
				span = fmt.Sprintf("W%d → W%d", p.FirstWeek.Number, p.LastWeek.Number)
			}
			rows = append(rows, []string{
				StyleFg.Render(p.ShortID),
				Bold(p.Name),
				TeamBadge(p.Team),
				FormatPersonWeeks(p.PersonWeeks),
				fmt.Sprintf("%d", p.Assignees),
				fmt.Sprintf("%d", p.PeakHeadcount),
				span,
			})
		}
		b.WriteString(RenderTable([]string{"ID", "NAME", "TEAM", "PW", "PEOPLE", "PEAK", "WEEKS"}, rows))
	}

	b.WriteString("\n")
	t := r.Totals
	b.WriteString(fmt.Sprintf("%s %s of %s person-weeks  %s",
		StyleDim.Render("TOTAL"),
		Bold(FormatPersonWeeks(t.AllocatedPW)),
		FormatPersonWeeks(t.CapacityPW),
		RenderUtilisation(t.UtilisationPct, 20)))
	if t.OverWeeks > 0 {
		b.WriteString("  " + StyleRed.Render(fmt.Sprintf("%d over-allocated weeks", t.OverWeeks)))
	}
	return RenderBox("Capacity "+r.Quarter.String(), b.String())
}
