package app

import (
	"slices"
	"strings"

	"github.com/legoplanner/legoplanner/internal/domain"
)

// CellContent is one project placed in a grid cell.
type CellContent struct {
	ProjectID     string `json:"projectId" yaml:"projectId"`
	AllocationPct int    `json:"allocationPct" yaml:"allocationPct"`
	Note          string `json:"note,omitempty" yaml:"note,omitempty"`
}

// CellChange records the full contents of one cell before and after an edit.
type CellChange struct {
	Key    domain.CellKey
	Before []CellContent
	After  []CellContent
}

// IsNoop reports whether the change leaves the cell as it was.
func (c CellChange) IsNoop() bool {
	return ContentsEqual(c.Before, c.After)
}

// Changeset is the unit of undo: every cell touched by one user action.
type Changeset struct {
	Label   string
	Changes []CellChange

	// Restore marks a changeset produced by Invert. Its After contents were
	// stored once already, so they may name projects archived or assignees
	// deactivated since.
	Restore bool
}

// Invert returns the changeset that restores every cell to its Before state.
// Changes are reversed so a cell touched twice ends at its earliest Before.
func (cs Changeset) Invert() Changeset {
	out := Changeset{Label: cs.Label, Changes: make([]CellChange, len(cs.Changes)), Restore: true}
	for i, c := range cs.Changes {
		out.Changes[len(cs.Changes)-1-i] = CellChange{
			Key:    c.Key,
			Before: cloneContents(c.After),
			After:  cloneContents(c.Before),
		}
	}
	return out
}

// IsEmpty reports whether applying cs would change nothing.
func (cs Changeset) IsEmpty() bool {
	for _, c := range cs.Changes {
		if !c.IsNoop() {
			return false
		}
	}
	return true
}

// Compact drops no-op changes.
func (cs Changeset) Compact() Changeset {
	out := Changeset{Label: cs.Label, Restore: cs.Restore}
	for _, c := range cs.Changes {
		if !c.IsNoop() {
			out.Changes = append(out.Changes, c)
		}
	}
	return out
}

// Merge appends other's changes, keeping cs's label.
func (cs Changeset) Merge(other Changeset) Changeset {
	out := Changeset{Label: cs.Label, Changes: slices.Clone(cs.Changes), Restore: cs.Restore && other.Restore}
	out.Changes = append(out.Changes, other.Changes...)
	if out.Label == "" {
		out.Label = other.Label
	}
	return out
}

// ContentsEqual compares two cell contents ignoring order.
func ContentsEqual(a, b []CellContent) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := SortContents(a), SortContents(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// SortContents returns a copy ordered by project ID.
func SortContents(cs []CellContent) []CellContent {
	out := cloneContents(cs)
	slices.SortFunc(out, func(x, y CellContent) int {
		return strings.Compare(x.ProjectID, y.ProjectID)
	})
	return out
}

// WithProject returns cs with projectID set to pct, replacing any existing
// entry for that project.
func WithProject(cs []CellContent, projectID string, pct int, note string) []CellContent {
	out := WithoutProject(cs, projectID)
	return append(out, CellContent{ProjectID: projectID, AllocationPct: pct, Note: note})
}

// WithoutProject returns cs minus any entry for projectID.
func WithoutProject(cs []CellContent, projectID string) []CellContent {
	out := make([]CellContent, 0, len(cs))
	for _, c := range cs {
		if c.ProjectID != projectID {
			out = append(out, c)
		}
	}
	return out
}

// ContentsOf converts stored assignments into cell contents.
func ContentsOf(as []domain.Assignment) []CellContent {
	out := make([]CellContent, 0, len(as))
	for _, a := range as {
		out = append(out, CellContent{ProjectID: a.ProjectID, AllocationPct: a.AllocationPct, Note: a.Note})
	}
	return out
}

func cloneContents(cs []CellContent) []CellContent {
	if cs == nil {
		return nil
	}
	return slices.Clone(cs)
}
