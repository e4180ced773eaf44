package formatter

import (
	"fmt"
	"strings"

	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// CellLabel is the compact text of a grid cell: "CAS01 50" or, when the
// cell holds several projects, the short IDs joined with "+".
func CellLabel(cell contract.GridCell) string {
	switch len(cell.Entries) {
	case 0:
		return "·"
	case 1:
		e := cell.Entries[0]
		return fmt.Sprintf("%s %d", e.ShortID, e.AllocationPct)
	default:
		ids := make([]string, len(cell.Entries))
		for i, e := range cell.Entries {
			ids[i] = e.ShortID
		}
		return strings.Join(ids, "+")
	}
}

// RenderCell colors a cell: single-project cells take the project color,
// mixed cells follow their load.
func RenderCell(cell contract.GridCell) string {
	label := CellLabel(cell)
	switch {
	case len(cell.Entries) == 0:
		return StyleDim.Render(label)
	case cell.Over:
		return StyleRed.Bold(true).Render(label)
	case len(cell.Entries) == 1:
		return Swatch(cell.Entries[0].Color, label)
	default:
		return LoadColor(cell.Load).Render(label)
	}
}

// FormatGrid renders a grid view as a static table with a headcount footer.
func FormatGrid(view *contract.GridView, showDates bool) string {
	headers := make([]string, 0, len(view.Weeks)+1)
	headers = append(headers, "ASSIGNEE")
	for _, w := range view.Weeks {
		h := fmt.Sprintf("W%d", w.Number)
		if showDates {
			h += " " + w.Start.Format("01-02")
		}
		headers = append(headers, h)
	}

	rows := make([][]string, 0, len(view.Rows)+1)
	for _, r := range view.Rows {
		row := make([]string, 0, len(r.Cells)+1)
		row = append(row, Bold(r.Assignee.Name))
		for _, c := range r.Cells {
			row = append(row, RenderCell(c))
		}
		rows = append(rows, row)
	}
	footer := []string{Dim("headcount")}
	for _, n := range view.Headcount {
		footer = append(footer, Dim(fmt.Sprintf("%d", n)))
	}
	rows = append(rows, footer)

	body := RenderTable(headers, rows)
	if len(view.Rows) == 0 {
		body = Dim("No assignees in scope.") + "\n"
	}
	return RenderBox("Grid "+view.Quarter.String(), strings.TrimRight(body, "\n")+"\n\n"+gridLegend(view))
}

func gridLegend(view *contract.GridView) string {
	var used []string
	seen := make(map[string]bool)
	for _, r := range view.Rows {
		for _, c := range r.Cells {
			for _, e := range c.Entries {
				if seen[e.ProjectID] {
					continue
				}
				seen[e.ProjectID] = true
				label := e.ShortID
				if p := view.ProjectByID(e.ProjectID); p != nil {
					label += " " + p.Name
				}
				used = append(used, Swatch(e.Color, " "+label+" "))
			}
		}
	}
	loads := LoadIndicator(domain.LoadPartial) + "  " + LoadIndicator(domain.LoadFull) + "  " + LoadIndicator(domain.LoadOver)
	if len(used) == 0 {
		return loads
	}
	return strings.Join(used, " ") + "\n" + loads
}
