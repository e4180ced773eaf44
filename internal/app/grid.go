package app

import (
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type GridRequest struct {
	Quarter         weeks.Quarter
	Teams           []string
	AssigneeIDs     []string
	ProjectIDs      []string
	IncludeInactive bool
}

func NewGridRequest(q weeks.Quarter) GridRequest {
	return GridRequest{Quarter: q}
}

// GridEntry is one assignment as drawn in a cell.
type GridEntry struct {
	AssignmentID  string
	ProjectID     string
	ShortID       string
	Color         string
	AllocationPct int
	Note          string
}

type GridCell struct {
	Key      domain.CellKey
	Entries  []GridEntry
	TotalPct int
	Load     domain.LoadLevel
	Over     bool
}

// Contents returns the cell's entries as editable contents.
func (c GridCell) Contents() []CellContent {
	out := make([]CellContent, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, CellContent{ProjectID: e.ProjectID, AllocationPct: e.AllocationPct, Note: e.Note})
	}
	return out
}

type GridRow struct {
	Assignee *domain.Assignee
	Cells    []GridCell
}

// GridView is a quarter of weekly cells, one row per assignee.
type GridView struct {
	Quarter   weeks.Quarter
	Weeks     []weeks.Week
	Rows      []GridRow
	Projects  []*domain.Project
	Headcount []int
}

// Cell returns the cell at (row, col) and false when out of range.
func (g *GridView) Cell(row, col int) (GridCell, bool) {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Weeks) {
		return GridCell{}, false
	}
	return g.Rows[row].Cells[col], true
}

// ProjectByID looks up a project among those referenced by the view.
func (g *GridView) ProjectByID(id string) *domain.Project {
	for _, p := range g.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}
