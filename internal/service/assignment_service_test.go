package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentService_Assign_RangeNormalisedToMondays(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")

	// Wednesday to Sunday: both ends snap to the Monday on or before.
	cs, err := svc.Assign(context.Background(), contract.AssignRequest{
		AssigneeID:    ada.ID,
		ProjectID:     castle.ID,
		From:          date("2025-01-08"),
		To:            date("2025-01-26"),
		AllocationPct: 60,
	})
	require.NoError(t, err)
	require.Len(t, cs.Changes, 3)
	assert.Equal(t, "assign", cs.Label)
	assert.Equal(t, "2025-01-06", cs.Changes[0].Key.WeekStart.Format("2006-01-02"))
	assert.Equal(t, "2025-01-20", cs.Changes[2].Key.WeekStart.Format("2006-01-02"))

	for _, w := range []string{"2025-01-06", "2025-01-13", "2025-01-20"} {
		cell := r.cell(t, ada.ID, w)
		require.Len(t, cell, 1, w)
		assert.Equal(t, 60, cell[0].AllocationPct)
	}
	assert.Empty(t, r.cell(t, ada.ID, "2025-01-27"))
}

func TestAssignmentService_Assign_KeepsOtherProjectsInCell(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")
	space := r.seedProject(t, "Space")
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-06", 50)

	cs, err := svc.Assign(context.Background(), contract.AssignRequest{
		AssigneeID: ada.ID, ProjectID: space.ID, From: date("2025-01-06"), AllocationPct: 70,
	})
	require.NoError(t, err)
	require.Len(t, cs.Changes, 1)
	assert.Len(t, cs.Changes[0].Before, 1)
	assert.Len(t, cs.Changes[0].After, 2)

	cell := r.cell(t, ada.ID, "2025-01-06")
	assert.Len(t, cell, 2)
	assert.Equal(t, 120, domain.TotalAllocation(cell), "over-allocation is allowed and flagged elsewhere")
}

func TestAssignmentService_Assign_Rejections(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ctx := context.Background()
	ada := r.seedAssignee(t, "Ada")
	gone := r.seedAssignee(t, "Gone", testutil.Inactive())
	castle := r.seedProject(t, "Castle")
	old := r.seedProject(t, "Old")
	require.NoError(t, r.projects.Archive(ctx, old.ID))

	tests := []struct {
		name string
		req  contract.AssignRequest
		code contract.EditErrorCode
	}{
		{"zero allocation", contract.AssignRequest{AssigneeID: ada.ID, ProjectID: castle.ID, From: date("2025-01-06"), AllocationPct: 0}, contract.EditErrInvalidAllocation},
		{"over 100", contract.AssignRequest{AssigneeID: ada.ID, ProjectID: castle.ID, From: date("2025-01-06"), AllocationPct: 101}, contract.EditErrInvalidAllocation},
		{"reversed range", contract.AssignRequest{AssigneeID: ada.ID, ProjectID: castle.ID, From: date("2025-02-03"), To: date("2025-01-06"), AllocationPct: 50}, contract.EditErrInvalidRange},
		{"missing start", contract.AssignRequest{AssigneeID: ada.ID, ProjectID: castle.ID, AllocationPct: 50}, contract.EditErrInvalidRange},
		{"archived project", contract.AssignRequest{AssigneeID: ada.ID, ProjectID: old.ID, From: date("2025-01-06"), AllocationPct: 50}, contract.EditErrArchivedProject},
		{"inactive assignee", contract.AssignRequest{AssigneeID: gone.ID, ProjectID: castle.ID, From: date("2025-01-06"), AllocationPct: 50}, contract.EditErrInactiveAssignee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Assign(ctx, tt.req)
			var editErr *contract.EditError
			require.True(t, errors.As(err, &editErr), "got %v", err)
			assert.Equal(t, tt.code, editErr.Code)
		})
	}

	_, err := svc.Assign(ctx, contract.AssignRequest{AssigneeID: ada.ID, ProjectID: "missing", From: date("2025-01-06"), AllocationPct: 50})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssignmentService_Assign_RollsBackOnFailure(t *testing.T) {
	r := setupRepos(t)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")

	// Each empty cell costs one ExecContext (the clear) before its upsert.
	// Failing the third exec leaves two weeks written inside the tx.
	failUoW := &testutil.FailOnNthExecUoW{DB: r.db, FailOn: 3, Err: fmt.Errorf("injected cell failure")}
	svc := NewAssignmentService(r.assignments, failUoW)

	_, err := svc.Assign(context.Background(), contract.AssignRequest{
		AssigneeID: ada.ID, ProjectID: castle.ID,
		From: date("2025-01-06"), To: date("2025-01-27"), AllocationPct: 40,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected cell failure")

	as, err := r.assignments.ListByAssignee(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Empty(t, as, "transaction should have rolled back every week")
}

func TestAssignmentService_Unassign(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")
	space := r.seedProject(t, "Space")
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-06", 50)
	r.seedAssignment(t, ada.ID, space.ID, "2025-01-06", 50)
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-13", 50)

	cs, err := svc.Unassign(context.Background(), ada.ID, castle.ID, date("2025-01-06"), date("2025-01-27"))
	require.NoError(t, err)
	assert.Len(t, cs.Changes, 2, "untouched weeks are not recorded")

	cell := r.cell(t, ada.ID, "2025-01-06")
	require.Len(t, cell, 1)
	assert.Equal(t, space.ID, cell[0].ProjectID)
	assert.Empty(t, r.cell(t, ada.ID, "2025-01-13"))
}

func TestAssignmentService_ApplyChangeset_InverseUndoes(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ctx := context.Background()
	ada := r.seedAssignee(t, "Ada")
	bob := r.seedAssignee(t, "Bob")
	castle := r.seedProject(t, "Castle")
	space := r.seedProject(t, "Space")
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-06", 50)

	cs := contract.Changeset{Label: "paste", Changes: []contract.CellChange{
		{
			Key:   domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-06")},
			After: []contract.CellContent{{ProjectID: space.ID, AllocationPct: 100}},
		},
		{
			Key:   domain.CellKey{AssigneeID: bob.ID, WeekStart: date("2025-01-13")},
			After: []contract.CellContent{{ProjectID: castle.ID, AllocationPct: 25, Note: "review"}},
		},
	}}

	applied, err := svc.ApplyChangeset(ctx, cs)
	require.NoError(t, err)
	require.Len(t, applied.Changes, 2)
	assert.Equal(t, []contract.CellContent{{ProjectID: castle.ID, AllocationPct: 50}}, applied.Changes[0].Before,
		"before is read from the database, not trusted from the caller")

	cell := r.cell(t, ada.ID, "2025-01-06")
	require.Len(t, cell, 1)
	assert.Equal(t, space.ID, cell[0].ProjectID)
	bobCell := r.cell(t, bob.ID, "2025-01-13")
	require.Len(t, bobCell, 1)
	assert.Equal(t, "review", bobCell[0].Note)

	undone, err := svc.ApplyChangeset(ctx, applied.Invert())
	require.NoError(t, err)
	assert.Len(t, undone.Changes, 2)

	cell = r.cell(t, ada.ID, "2025-01-06")
	require.Len(t, cell, 1)
	assert.Equal(t, castle.ID, cell[0].ProjectID)
	assert.Equal(t, 50, cell[0].AllocationPct)
	assert.Empty(t, r.cell(t, bob.ID, "2025-01-13"))

	// Redo is the inverse of the undo.
	_, err = svc.ApplyChangeset(ctx, undone.Invert())
	require.NoError(t, err)
	assert.Equal(t, space.ID, r.cell(t, ada.ID, "2025-01-06")[0].ProjectID)
}

func TestAssignmentService_ApplyChangeset_Validation(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")

	_, err := svc.ApplyChangeset(context.Background(), contract.Changeset{Changes: []contract.CellChange{
		{Key: domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-07")}},
	}})
	var editErr *contract.EditError
	require.True(t, errors.As(err, &editErr))
	assert.Equal(t, contract.EditErrNotMonday, editErr.Code)

	_, err = svc.ApplyChangeset(context.Background(), contract.Changeset{Changes: []contract.CellChange{
		{
			Key:   domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-06")},
			After: []contract.CellContent{{ProjectID: castle.ID, AllocationPct: 0}},
		},
	}})
	require.True(t, errors.As(err, &editErr))
	assert.Equal(t, contract.EditErrInvalidAllocation, editErr.Code)
}

func TestAssignmentService_ApplyChangeset_NoopsSkipped(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-06", 50)

	applied, err := svc.ApplyChangeset(context.Background(), contract.Changeset{Changes: []contract.CellChange{
		{
			Key:   domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-06")},
			After: []contract.CellContent{{ProjectID: castle.ID, AllocationPct: 50}},
		},
		{Key: domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-13")}},
	}})
	require.NoError(t, err)
	assert.Empty(t, applied.Changes)
	assert.True(t, applied.IsEmpty())
}

func TestAssignmentService_ApplyChangeset_CellWithArchivedProject(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ctx := context.Background()
	ada := r.seedAssignee(t, "Ada")
	old := r.seedProject(t, "Old", testutil.WithShortID("OLD01"))
	castle := r.seedProject(t, "Castle")
	r.seedAssignment(t, ada.ID, old.ID, "2025-01-06", 50)
	require.NoError(t, r.projects.Archive(ctx, old.ID))
	key := domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-06")}

	t.Run("another project can join the cell", func(t *testing.T) {
		_, err := svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{
			Key: key,
			After: []contract.CellContent{
				{ProjectID: old.ID, AllocationPct: 50},
				{ProjectID: castle.ID, AllocationPct: 30},
			},
		}}})
		require.NoError(t, err)
		assert.Len(t, r.cell(t, ada.ID, "2025-01-06"), 2)
	})

	t.Run("clearing the cell can be undone", func(t *testing.T) {
		cleared, err := svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{Key: key}}})
		require.NoError(t, err)
		assert.Empty(t, r.cell(t, ada.ID, "2025-01-06"))

		_, err = svc.ApplyChangeset(ctx, cleared.Invert())
		require.NoError(t, err)
		assert.Len(t, r.cell(t, ada.ID, "2025-01-06"), 2)
	})

	t.Run("archived project cannot be added or resized", func(t *testing.T) {
		for _, after := range [][]contract.CellContent{
			{{ProjectID: old.ID, AllocationPct: 80}, {ProjectID: castle.ID, AllocationPct: 30}},
		} {
			_, err := svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{Key: key, After: after}}})
			var editErr *contract.EditError
			require.True(t, errors.As(err, &editErr))
			assert.Equal(t, contract.EditErrArchivedProject, editErr.Code)
		}

		_, err := svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{
			Key:   domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-13")},
			After: []contract.CellContent{{ProjectID: old.ID, AllocationPct: 50}},
		}}})
		var editErr *contract.EditError
		require.True(t, errors.As(err, &editErr))
		assert.Equal(t, contract.EditErrArchivedProject, editErr.Code)
	})
}

func TestAssignmentService_ApplyChangeset_InactiveAssigneeUndo(t *testing.T) {
	r := setupRepos(t)
	svc := NewAssignmentService(r.assignments, r.uow)
	ctx := context.Background()
	ada := r.seedAssignee(t, "Ada")
	castle := r.seedProject(t, "Castle")
	space := r.seedProject(t, "Space")
	r.seedAssignment(t, ada.ID, castle.ID, "2025-01-06", 40)
	require.NoError(t, r.assignees.Deactivate(ctx, ada.ID))
	key := domain.CellKey{AssigneeID: ada.ID, WeekStart: date("2025-01-06")}

	cleared, err := svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{Key: key}}})
	require.NoError(t, err)
	_, err = svc.ApplyChangeset(ctx, cleared.Invert())
	require.NoError(t, err, "restoring stored rows is allowed for an inactive assignee")
	require.Len(t, r.cell(t, ada.ID, "2025-01-06"), 1)

	_, err = svc.ApplyChangeset(ctx, contract.Changeset{Changes: []contract.CellChange{{
		Key: key,
		After: []contract.CellContent{
			{ProjectID: castle.ID, AllocationPct: 40},
			{ProjectID: space.ID, AllocationPct: 20},
		},
	}}})
	var editErr *contract.EditError
	require.True(t, errors.As(err, &editErr))
	assert.Equal(t, contract.EditErrInactiveAssignee, editErr.Code)
}
