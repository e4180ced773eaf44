package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/teatest"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gridFixture struct {
	app    *App
	castle *domain.Project
	space  *domain.Project
	ada    *domain.Assignee
	bob    *domain.Assignee
}

func newGridDriver(t *testing.T, edits app.EditUseCase) (*teatest.Driver, gridFixture) {
	t.Helper()
	a := testApp(t)
	castle, space, ada, bob := seedPlan(t, a)
	if edits == nil {
		edits = a.Assignments
	}

	m := newGridModel(context.Background(), a.Grid, edits,
		contract.NewGridRequest(weeks.Quarter{Year: 2025, Q: 1}),
		gridOptions{HistoryLimit: 100, DefaultAlloc: 100, AllocStep: 25})
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return d, gridFixture{app: a, castle: castle, space: space, ada: ada, bob: bob}
}

func gridOf(d *teatest.Driver) *gridModel {
	return d.Model.(*gridModel)
}

func TestGridModel_LoadsQuarter(t *testing.T) {
	d, _ := newGridDriver(t, nil)
	m := gridOf(d)

	require.NotNil(t, m.view)
	assert.False(t, m.loading)
	assert.Len(t, m.view.Rows, 2)
	assert.Len(t, m.view.Weeks, 13)
	assert.Equal(t, "Ada", m.view.Rows[0].Assignee.Name)

	view := d.View()
	assert.Contains(t, view, "GRID 2025-Q1")
	assert.Contains(t, view, "CAS01 Castle")
	assert.Contains(t, view, "@ 100%")
}

func TestGridModel_AssignUndoRedo(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressSpace()
	cell := cellOf(t, f.app, f.ada.ID, "2024-12-30")
	require.Len(t, cell, 1)
	assert.Equal(t, f.castle.ID, cell[0].ProjectID)
	assert.Equal(t, 100, cell[0].AllocationPct)

	c, ok := gridOf(d).view.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, 100, c.TotalPct, "grid reloads after each edit")

	d.PressKey('u')
	assert.Empty(t, cellOf(t, f.app, f.ada.ID, "2024-12-30"))
	assert.Contains(t, gridOf(d).status, "undid")

	d.Press(tea.KeyCtrlR)
	assert.Len(t, cellOf(t, f.app, f.ada.ID, "2024-12-30"), 1)
	assert.Contains(t, gridOf(d).status, "redid")

	d.Press(tea.KeyCtrlR)
	assert.Equal(t, "nothing to redo", gridOf(d).status)
}

func TestGridModel_PaintStrokeIsOneUndoStep(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressKey('p')
	assert.NotNil(t, gridOf(d).stroke)
	assert.Contains(t, d.View(), "PAINT")
	d.PressKey('l')
	d.PressKey('l')
	d.PressKey('p')
	assert.Nil(t, gridOf(d).stroke)

	for _, w := range []string{"2024-12-30", "2025-01-06", "2025-01-13"} {
		assert.Len(t, cellOf(t, f.app, f.ada.ID, w), 1, w)
	}
	undo, _ := gridOf(d).history.Depth()
	assert.Equal(t, 1, undo)

	d.PressKey('u')
	for _, w := range []string{"2024-12-30", "2025-01-06", "2025-01-13"} {
		assert.Empty(t, cellOf(t, f.app, f.ada.ID, w), w)
	}
}

func TestGridModel_CopyPasteAcrossRows(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressSpace()
	d.PressKey('y')
	assert.Contains(t, gridOf(d).status, "copied 1×1")
	d.PressKey('j')
	d.PressKey('v')

	cell := cellOf(t, f.app, f.bob.ID, "2024-12-30")
	require.Len(t, cell, 1)
	assert.Equal(t, f.castle.ID, cell[0].ProjectID)
	assert.Equal(t, 100, cell[0].AllocationPct)
}

func TestGridModel_CutThenPaste(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressSpace()
	d.PressKey('d')
	assert.Empty(t, cellOf(t, f.app, f.ada.ID, "2024-12-30"))

	d.PressKey('l')
	d.PressKey('v')
	assert.Len(t, cellOf(t, f.app, f.ada.ID, "2025-01-06"), 1)
}

func TestGridModel_AllocationAndProjectCycling(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressKey('-')
	assert.Equal(t, 75, gridOf(d).alloc)
	d.PressKey('+')
	d.PressKey('+')
	assert.Equal(t, 100, gridOf(d).alloc, "capped at 100")
	d.PressKey('-')

	d.PressKey(']')
	assert.Equal(t, f.space.ID, gridOf(d).activeProject)
	d.PressSpace()

	cell := cellOf(t, f.app, f.ada.ID, "2024-12-30")
	require.Len(t, cell, 1)
	assert.Equal(t, f.space.ID, cell[0].ProjectID)
	assert.Equal(t, 75, cell[0].AllocationPct)

	d.PressKey(']')
	assert.Equal(t, f.castle.ID, gridOf(d).activeProject, "cycling wraps")
}

func TestGridModel_SelectionClear(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.Press(tea.KeyShiftRight)
	d.Press(tea.KeyShiftDown)
	d.PressSpace()
	for _, id := range []string{f.ada.ID, f.bob.ID} {
		for _, w := range []string{"2024-12-30", "2025-01-06"} {
			assert.Len(t, cellOf(t, f.app, id, w), 1)
		}
	}

	d.PressKey('x')
	for _, id := range []string{f.ada.ID, f.bob.ID} {
		assert.Empty(t, cellOf(t, f.app, id, "2025-01-06"))
	}
	undo, _ := gridOf(d).history.Depth()
	assert.Equal(t, 2, undo)
}

func TestGridModel_FilterRows(t *testing.T) {
	d, _ := newGridDriver(t, nil)

	d.PressKey('/')
	assert.True(t, gridOf(d).filtering)
	d.Type("bob")
	d.PressEnter()

	m := gridOf(d)
	assert.False(t, m.filtering)
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, "Bob", m.view.Rows[0].Assignee.Name)
	assert.Len(t, m.full.Rows, 2)
	assert.Contains(t, d.View(), "filter: bob")

	d.PressKey('/')
	d.PressEsc()
	assert.Len(t, gridOf(d).view.Rows, 2)
}

func TestGridModel_SwitchQuarter(t *testing.T) {
	d, _ := newGridDriver(t, nil)

	d.PressKey('>')
	m := gridOf(d)
	assert.Equal(t, weeks.Quarter{Year: 2025, Q: 2}, m.req.Quarter)
	require.NotNil(t, m.full)
	assert.Equal(t, "2025-03-31", m.full.Weeks[0].Start.Format("2006-01-02"))
	assert.Contains(t, d.View(), "W14")

	d.PressKey('<')
	d.PressKey('<')
	assert.Equal(t, weeks.Quarter{Year: 2024, Q: 4}, gridOf(d).req.Quarter)
}

func TestGridModel_Quit(t *testing.T) {
	d, _ := newGridDriver(t, nil)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

type failingEditor struct{}

func (failingEditor) ApplyChangeset(context.Context, contract.Changeset) (contract.Changeset, error) {
	return contract.Changeset{}, errors.New("database is locked")
}

func TestGridModel_EditErrorShowsStatus(t *testing.T) {
	d, f := newGridDriver(t, failingEditor{})

	d.PressSpace()
	m := gridOf(d)
	assert.True(t, m.statusErr)
	assert.Contains(t, d.View(), "database is locked")
	assert.Empty(t, cellOf(t, f.app, f.ada.ID, "2024-12-30"))
	undo, _ := m.history.Depth()
	assert.Zero(t, undo)
}

func TestGridModel_UndoClearOfArchivedProject(t *testing.T) {
	d, f := newGridDriver(t, nil)

	d.PressSpace()
	require.NoError(t, f.app.Projects.Archive(context.Background(), f.castle.ID))

	d.PressKey('x')
	assert.Empty(t, cellOf(t, f.app, f.ada.ID, "2024-12-30"))

	d.PressKey('u')
	assert.False(t, gridOf(d).statusErr, gridOf(d).status)
	cell := cellOf(t, f.app, f.ada.ID, "2024-12-30")
	require.Len(t, cell, 1)
	assert.Equal(t, f.castle.ID, cell[0].ProjectID)
}

func TestGridModel_StaleLoadIsDropped(t *testing.T) {
	d, f := newGridDriver(t, nil)
	q1 := weeks.Quarter{Year: 2025, Q: 1}

	stale, err := f.app.Grid.Build(context.Background(), contract.NewGridRequest(q1))
	require.NoError(t, err)

	d.PressKey('>')
	require.Equal(t, weeks.Quarter{Year: 2025, Q: 2}, gridOf(d).req.Quarter)

	d.Send(gridLoadedMsg{quarter: q1, view: stale})
	m := gridOf(d)
	assert.Equal(t, weeks.Quarter{Year: 2025, Q: 2}, m.full.Quarter)
	assert.Equal(t, "2025-03-31", m.full.Weeks[0].Start.Format("2006-01-02"))
}
