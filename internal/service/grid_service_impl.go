package service

import (
	"context"
	"fmt"

	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type gridService struct {
	projects    repository.ProjectRepo
	assignees   repository.AssigneeRepo
	assignments repository.AssignmentRepo
}

func NewGridService(projects repository.ProjectRepo, assignees repository.AssigneeRepo, assignments repository.AssignmentRepo) GridService {
	return &gridService{projects: projects, assignees: assignees, assignments: assignments}
}

// Build lays out one row per assignee in scope against the quarter's 13
// weeks. A project filter narrows the cells, not the rows, so free people
// stay visible for planning.
func (s *gridService) Build(ctx context.Context, req contract.GridRequest) (*contract.GridView, error) {
	ws, err := req.Quarter.Weeks()
	if err != nil {
		return nil, err
	}

	all, err := s.assignees.List(ctx, req.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	assignees := filterAssigneesByScope(all, req.Teams, req.AssigneeIDs)

	rowIDs := make([]string, len(assignees))
	for i, a := range assignees {
		rowIDs[i] = a.ID
	}

	var assignments []domain.Assignment
	if len(rowIDs) > 0 {
		assignments, err = s.assignments.ListByRange(ctx, ws[0].Start, ws[len(ws)-1].Start, repository.AssignmentFilter{
			AssigneeIDs: rowIDs,
			ProjectIDs:  req.ProjectIDs,
		})
		if err != nil {
			return nil, err
		}
	}

	projects, err := s.projects.List(ctx, repository.ProjectFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	byID := make(map[string]*domain.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	view := &contract.GridView{
		Quarter:   req.Quarter,
		Weeks:     ws,
		Rows:      make([]contract.GridRow, len(assignees)),
		Headcount: make([]int, len(ws)),
	}

	rowOf := make(map[string]int, len(assignees))
	for i, a := range assignees {
		rowOf[a.ID] = i
		cells := make([]contract.GridCell, len(ws))
		for j, w := range ws {
			cells[j] = contract.GridCell{
				Key:  domain.CellKey{AssigneeID: a.ID, WeekStart: w.Start},
				Load: domain.LoadFree,
			}
		}
		view.Rows[i] = contract.GridRow{Assignee: a, Cells: cells}
	}

	referenced := make(map[string]bool)
	for _, as := range assignments {
		row, ok := rowOf[as.AssigneeID]
		if !ok {
			continue
		}
		col := weeks.IndexOf(ws, as.WeekStart)
		if col < 0 {
			continue
		}
		entry := contract.GridEntry{
			AssignmentID:  as.ID,
			ProjectID:     as.ProjectID,
			AllocationPct: as.AllocationPct,
			Note:          as.Note,
		}
		if p := byID[as.ProjectID]; p != nil {
			entry.ShortID = p.ShortID
			entry.Color = p.Color
		}
		cell := &view.Rows[row].Cells[col]
		cell.Entries = append(cell.Entries, entry)
		cell.TotalPct += as.AllocationPct
		referenced[as.ProjectID] = true
	}

	for i := range view.Rows {
		capacity := view.Rows[i].Assignee.CapacityPct
		for j := range view.Rows[i].Cells {
			cell := &view.Rows[i].Cells[j]
			cell.Load = domain.ClassifyLoad(cell.TotalPct, capacity)
			cell.Over = cell.Load == domain.LoadOver
			if len(cell.Entries) > 0 {
				view.Headcount[j]++
			}
		}
	}

	// Active projects are offered for painting even before anyone is on them.
	for _, p := range projects {
		if referenced[p.ID] || !p.IsArchived() {
			view.Projects = append(view.Projects, p)
		}
	}

	return view, nil
}
