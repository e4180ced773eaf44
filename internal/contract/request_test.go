package contract

import (
	"testing"
	"time"

	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/stretchr/testify/assert"
)

// --- Request constructor defaults ---

func TestNewGridRequest_SetsDefaults(t *testing.T) {
	q := weeks.Quarter{Year: 2025, Q: 2}
	req := NewGridRequest(q)

	assert.Equal(t, q, req.Quarter)
	assert.Nil(t, req.Teams)
	assert.Nil(t, req.AssigneeIDs)
	assert.Nil(t, req.ProjectIDs)
	assert.False(t, req.IncludeInactive)
}

func TestNewCapacityRequest_SetsDefaults(t *testing.T) {
	req := NewCapacityRequest(weeks.Quarter{Year: 2026, Q: 4})
	assert.Equal(t, "2026-Q4", req.Quarter.String())
	assert.Nil(t, req.Teams)
}

// --- Changeset ---

func key(id, date string) domain.CellKey {
	d, _ := time.Parse("2006-01-02", date)
	return domain.CellKey{AssigneeID: id, WeekStart: d}
}

func TestChangeset_InvertSwapsAndReverses(t *testing.T) {
	a := CellContent{ProjectID: "p1", AllocationPct: 50}
	b := CellContent{ProjectID: "p2", AllocationPct: 25}
	cs := Changeset{Label: "paint", Changes: []CellChange{
		{Key: key("u1", "2025-01-06"), Before: nil, After: []CellContent{a}},
		{Key: key("u1", "2025-01-13"), Before: []CellContent{b}, After: []CellContent{a}},
	}}

	inv := cs.Invert()
	assert.Equal(t, "paint", inv.Label)
	assert.Len(t, inv.Changes, 2)
	assert.Equal(t, "2025-01-13", inv.Changes[0].Key.WeekStart.Format("2006-01-02"))
	assert.Equal(t, []CellContent{b}, inv.Changes[0].After)
	assert.Nil(t, inv.Changes[1].After)
	assert.True(t, inv.Restore, "an inverse puts back stored contents")
	assert.False(t, cs.Restore)
	assert.Equal(t, cs.Changes, inv.Invert().Changes)
}

func TestChangeset_InvertRestoresEarliestBefore(t *testing.T) {
	k := key("u1", "2025-01-06")
	first := []CellContent{{ProjectID: "p1", AllocationPct: 10}}
	mid := []CellContent{{ProjectID: "p1", AllocationPct: 20}}
	last := []CellContent{{ProjectID: "p1", AllocationPct: 30}}
	cs := Changeset{Changes: []CellChange{
		{Key: k, Before: first, After: mid},
		{Key: k, Before: mid, After: last},
	}}

	// Applying the inverse in order leaves the cell at the last After written.
	inv := cs.Invert()
	assert.Equal(t, first, inv.Changes[len(inv.Changes)-1].After)
}

func TestChangeset_EmptyAndCompact(t *testing.T) {
	same := []CellContent{{ProjectID: "p1", AllocationPct: 40}, {ProjectID: "p2", AllocationPct: 60}}
	reordered := []CellContent{same[1], same[0]}
	cs := Changeset{Changes: []CellChange{
		{Key: key("u1", "2025-01-06"), Before: same, After: reordered},
	}}
	assert.True(t, cs.IsEmpty())
	assert.Empty(t, cs.Compact().Changes)

	cs.Changes = append(cs.Changes, CellChange{Key: key("u2", "2025-01-06"), After: same})
	assert.False(t, cs.IsEmpty())
	assert.Len(t, cs.Compact().Changes, 1)
}

func TestWithProject_ReplacesExistingEntry(t *testing.T) {
	cs := []CellContent{{ProjectID: "p1", AllocationPct: 50}, {ProjectID: "p2", AllocationPct: 50}}
	out := app.WithProject(cs, "p1", 75, "lead")

	assert.Len(t, out, 2)
	assert.Contains(t, out, CellContent{ProjectID: "p1", AllocationPct: 75, Note: "lead"})
	assert.Len(t, cs, 2, "input slice untouched")
	assert.Equal(t, 50, cs[0].AllocationPct)
}

// --- Error types ---

func TestEditError_ErrorString(t *testing.T) {
	err := &EditError{Code: EditErrArchivedProject, Message: "project OLD01 is archived"}
	assert.Equal(t, "ARCHIVED_PROJECT: project OLD01 is archived", err.Error())
}

func TestEditErrorCodes_AreDistinct(t *testing.T) {
	codes := []EditErrorCode{
		EditErrInvalidRange,
		EditErrInvalidAllocation,
		EditErrArchivedProject,
		EditErrInactiveAssignee,
		EditErrNotMonday,
	}
	seen := make(map[EditErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate error code: %s", c)
		seen[c] = true
	}
}
