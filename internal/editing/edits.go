package editing

import (
	"github.com/legoplanner/legoplanner/internal/contract"
)

// Assign puts projectID at pct into every cell of r, keeping the other
// projects already there.
func Assign(view *contract.GridView, r Rect, projectID string, pct int) contract.Changeset {
	cs := contract.Changeset{Label: "assign"}
	for _, p := range r.Positions() {
		cell, ok := view.Cell(p.Row, p.Col)
		if !ok {
			continue
		}
		before := cell.Contents()
		cs.Changes = append(cs.Changes, contract.CellChange{
			Key:    cell.Key,
			Before: before,
			After:  withProject(before, projectID, pct),
		})
	}
	return cs.Compact()
}

// Clear empties every cell of r.
func Clear(view *contract.GridView, r Rect) contract.Changeset {
	cs := contract.Changeset{Label: "clear"}
	for _, p := range r.Positions() {
		cell, ok := view.Cell(p.Row, p.Col)
		if !ok {
			continue
		}
		cs.Changes = append(cs.Changes, contract.CellChange{Key: cell.Key, Before: cell.Contents()})
	}
	return cs.Compact()
}

// Paste writes clip with its top-left corner at at. Cells falling off the
// grid are dropped. Pasted cells replace the target contents, empty ones
// included.
func Paste(view *contract.GridView, clip *Clip, at Pos) contract.Changeset {
	cs := contract.Changeset{Label: "paste"}
	if clip == nil {
		return cs
	}
	for r, row := range clip.Cells {
		for c, contents := range row {
			cell, ok := view.Cell(at.Row+r, at.Col+c)
			if !ok {
				continue
			}
			cs.Changes = append(cs.Changes, contract.CellChange{
				Key:    cell.Key,
				Before: cell.Contents(),
				After:  cloneCell(contents),
			})
		}
	}
	return cs.Compact()
}

// withProject sets projectID to pct in a cell, carrying over its note.
func withProject(cell []contract.CellContent, projectID string, pct int) []contract.CellContent {
	note := ""
	for _, c := range cell {
		if c.ProjectID == projectID {
			note = c.Note
		}
	}
	return contract.WithProject(cell, projectID, pct, note)
}

func cloneCell(cell []contract.CellContent) []contract.CellContent {
	if len(cell) == 0 {
		return nil
	}
	out := make([]contract.CellContent, len(cell))
	copy(out, cell)
	return out
}
