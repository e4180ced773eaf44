package editing

import (
	"github.com/legoplanner/legoplanner/internal/contract"
)

// Stroke collects the cells painted while paint mode is on so the whole
// stroke undoes as one step.
type Stroke struct {
	ProjectID string
	Pct       int
	changes   []contract.CellChange
	index     map[string]int
}

func NewStroke(projectID string, pct int) *Stroke {
	return &Stroke{ProjectID: projectID, Pct: pct, index: make(map[string]int)}
}

// Paint returns the one-cell changeset that puts the stroke's project on
// the cell at p. It is empty when the cell is off the grid or already
// painted.
func (s *Stroke) Paint(view *contract.GridView, p Pos) contract.Changeset {
	cell, ok := view.Cell(p.Row, p.Col)
	if !ok {
		return contract.Changeset{Label: "paint"}
	}
	before := cell.Contents()
	return contract.Changeset{
		Label: "paint",
		Changes: []contract.CellChange{{
			Key:    cell.Key,
			Before: before,
			After:  withProject(before, s.ProjectID, s.Pct),
		}},
	}.Compact()
}

// Record folds an applied changeset into the stroke. A cell visited twice
// keeps its first Before and its latest After.
func (s *Stroke) Record(applied contract.Changeset) {
	for _, c := range applied.Changes {
		k := c.Key.String()
		if i, ok := s.index[k]; ok {
			s.changes[i].After = c.After
			continue
		}
		s.index[k] = len(s.changes)
		s.changes = append(s.changes, c)
	}
}

// Changeset returns the stroke as a single undoable edit.
func (s *Stroke) Changeset() contract.Changeset {
	cs := contract.Changeset{Label: "paint", Changes: make([]contract.CellChange, len(s.changes))}
	copy(cs.Changes, s.changes)
	return cs.Compact()
}

func (s *Stroke) Len() int { return len(s.changes) }
