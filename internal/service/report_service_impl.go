package service

import (
	"context"
	"sort"

	"github.com/legoplanner/legoplanner/internal/contract"
)

type reportService struct {
	grid GridService
}

// NewReportService derives capacity reports from the same grid the
// interactive view shows, so both always agree.
func NewReportService(grid GridService) ReportService {
	return &reportService{grid: grid}
}

type projectTally struct {
	effort    contract.ProjectEffort
	pct       int
	assignees map[string]bool
	perWeek   []int
	first     int
	last      int
}

func (s *reportService) Capacity(ctx context.Context, req contract.CapacityRequest) (*contract.CapacityReport, error) {
	gridReq := contract.NewGridRequest(req.Quarter)
	gridReq.Teams = req.Teams
	view, err := s.grid.Build(ctx, gridReq)
	if err != nil {
		return nil, err
	}

	report := &contract.CapacityReport{
		Quarter:   view.Quarter,
		Weeks:     view.Weeks,
		Assignees: make([]contract.AssigneeUtilisation, 0, len(view.Rows)),
	}

	tallies := make(map[string]*projectTally)
	var totalCapacityPct, totalAllocatedPct int

	for _, row := range view.Rows {
		u := contract.AssigneeUtilisation{
			AssigneeID: row.Assignee.ID,
			Name:       row.Assignee.Name,
			Team:       row.Assignee.Team,
		}
		capacityPct := row.Assignee.CapacityPct * len(view.Weeks)
		allocatedPct := 0
		for col, cell := range row.Cells {
			allocatedPct += cell.TotalPct
			if cell.Over {
				u.OverWeeks++
			}
			if cell.TotalPct == 0 {
				u.FreeWeeks++
			}
			for _, e := range cell.Entries {
				t := tallies[e.ProjectID]
				if t == nil {
					t = &projectTally{
						assignees: make(map[string]bool),
						perWeek:   make([]int, len(view.Weeks)),
						first:     col,
						last:      col,
					}
					t.effort.ProjectID = e.ProjectID
					t.effort.ShortID = e.ShortID
					if p := view.ProjectByID(e.ProjectID); p != nil {
						t.effort.Name = p.Name
						t.effort.Team = p.Team
					}
					tallies[e.ProjectID] = t
				}
				t.pct += e.AllocationPct
				t.assignees[row.Assignee.ID] = true
				t.perWeek[col]++
				t.first = min(t.first, col)
				t.last = max(t.last, col)
			}
		}
		u.CapacityPW = personWeeks(capacityPct)
		u.AllocatedPW = personWeeks(allocatedPct)
		u.UtilisationPct = pctOf(u.AllocatedPW, u.CapacityPW)
		report.Assignees = append(report.Assignees, u)

		totalCapacityPct += capacityPct
		totalAllocatedPct += allocatedPct
		report.Totals.OverWeeks += u.OverWeeks
	}

	for _, t := range tallies {
		e := t.effort
		e.PersonWeeks = personWeeks(t.pct)
		e.Assignees = len(t.assignees)
		first, last := view.Weeks[t.first], view.Weeks[t.last]
		e.FirstWeek, e.LastWeek = &first, &last
		for _, n := range t.perWeek {
			e.PeakHeadcount = max(e.PeakHeadcount, n)
		}
		report.Projects = append(report.Projects, e)
	}
	sort.Slice(report.Projects, func(i, j int) bool {
		a, b := report.Projects[i], report.Projects[j]
		if a.PersonWeeks != b.PersonWeeks {
			return a.PersonWeeks > b.PersonWeeks
		}
		return a.ShortID < b.ShortID
	})

	report.Totals.CapacityPW = personWeeks(totalCapacityPct)
	report.Totals.AllocatedPW = personWeeks(totalAllocatedPct)
	report.Totals.UtilisationPct = pctOf(report.Totals.AllocatedPW, report.Totals.CapacityPW)
	return report, nil
}
