package editing

import (
	"errors"
	"testing"

	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newView builds a grid of len(names) rows over 2025-Q1 with empty cells.
func newView(t *testing.T, names ...string) *contract.GridView {
	t.Helper()
	q := weeks.Quarter{Year: 2025, Q: 1}
	ws, err := q.Weeks()
	require.NoError(t, err)
	view := &contract.GridView{Quarter: q, Weeks: ws}
	for _, n := range names {
		a := &domain.Assignee{ID: "id-" + n, Name: n, CapacityPct: 100, Active: true}
		cells := make([]contract.GridCell, len(ws))
		for j, w := range ws {
			cells[j] = contract.GridCell{Key: domain.CellKey{AssigneeID: a.ID, WeekStart: w.Start}}
		}
		view.Rows = append(view.Rows, contract.GridRow{Assignee: a, Cells: cells})
	}
	return view
}

func put(view *contract.GridView, row, col int, entries ...contract.GridEntry) {
	cell := &view.Rows[row].Cells[col]
	cell.Entries = append(cell.Entries, entries...)
	for _, e := range entries {
		cell.TotalPct += e.AllocationPct
	}
}

func entry(projectID string, pct int) contract.GridEntry {
	return contract.GridEntry{ProjectID: projectID, ShortID: projectID, AllocationPct: pct}
}

func content(projectID string, pct int) contract.CellContent {
	return contract.CellContent{ProjectID: projectID, AllocationPct: pct}
}

// applyTo writes cs into view the way the assignment service would and
// returns it as applied.
func applyTo(view *contract.GridView) ApplyFunc {
	return func(cs contract.Changeset) (contract.Changeset, error) {
		for _, c := range cs.Changes {
			for i := range view.Rows {
				for j := range view.Rows[i].Cells {
					cell := &view.Rows[i].Cells[j]
					if cell.Key != c.Key {
						continue
					}
					cell.Entries, cell.TotalPct = nil, 0
					for _, a := range c.After {
						put(view, i, j, contract.GridEntry{ProjectID: a.ProjectID, AllocationPct: a.AllocationPct, Note: a.Note})
					}
				}
			}
		}
		return cs, nil
	}
}

func TestSelection_MoveExtendClamp(t *testing.T) {
	s := NewSelection(3, 13)

	s.Move(-1, -1)
	assert.Equal(t, Pos{}, s.Cursor, "clamped at the top-left corner")

	s.Move(1, 2)
	assert.True(t, s.IsSingle())
	assert.Equal(t, Rect{Top: 1, Left: 2, Bottom: 1, Right: 2}, s.Rect())

	s.Extend(5, -4)
	assert.Equal(t, Pos{Row: 1, Col: 2}, s.Anchor)
	assert.Equal(t, Pos{Row: 2, Col: 0}, s.Cursor)
	assert.Equal(t, Rect{Top: 1, Left: 0, Bottom: 2, Right: 2}, s.Rect())
	assert.Len(t, s.Rect().Positions(), 6)

	s.Collapse()
	assert.True(t, s.IsSingle())
	assert.Equal(t, Pos{Row: 2, Col: 0}, s.Anchor)

	s.SelectAll()
	assert.Equal(t, Rect{Top: 0, Left: 0, Bottom: 2, Right: 12}, s.Rect())

	s.Resize(2, 5)
	assert.Equal(t, Pos{Row: 1, Col: 4}, s.Cursor)
}

func TestSelection_EmptyGrid(t *testing.T) {
	s := NewSelection(0, 13)
	s.SelectAll()
	assert.True(t, s.Empty())
	assert.Empty(t, s.Rect().Positions())
}

func TestAssign_KeepsOtherProjectsAndSkipsNoops(t *testing.T) {
	view := newView(t, "Ada", "Bob")
	put(view, 0, 0, entry("space", 50))
	put(view, 1, 0, entry("castle", 40))

	cs := Assign(view, Rect{Top: 0, Left: 0, Bottom: 1, Right: 1}, "castle", 40)

	require.Len(t, cs.Changes, 3, "bob's first week already holds castle at 40")
	first := cs.Changes[0]
	assert.Equal(t, view.Rows[0].Cells[0].Key, first.Key)
	assert.True(t, contract.ContentsEqual(
		[]contract.CellContent{content("space", 50), content("castle", 40)}, first.After))
}

func TestAssign_KeepsNoteOfReassignedProject(t *testing.T) {
	view := newView(t, "Ada")
	put(view, 0, 3, contract.GridEntry{ProjectID: "castle", AllocationPct: 20, Note: "spike"})

	cs := Assign(view, Rect{Top: 0, Left: 3, Bottom: 0, Right: 3}, "castle", 60)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, []contract.CellContent{{ProjectID: "castle", AllocationPct: 60, Note: "spike"}}, cs.Changes[0].After)
}

func TestClear_OnlyTouchesFilledCells(t *testing.T) {
	view := newView(t, "Ada")
	put(view, 0, 1, entry("castle", 50))

	cs := Clear(view, Rect{Top: 0, Left: 0, Bottom: 0, Right: 12})
	require.Len(t, cs.Changes, 1)
	assert.Nil(t, cs.Changes[0].After)
	assert.Equal(t, []contract.CellContent{content("castle", 50)}, cs.Changes[0].Before)
}

func TestCopyPaste_ClipsAtEdges(t *testing.T) {
	view := newView(t, "Ada", "Bob")
	put(view, 0, 0, entry("castle", 50))
	put(view, 0, 1, entry("space", 30))
	put(view, 1, 1, entry("castle", 100))

	clip := CopyClip(view, Rect{Top: 0, Left: 0, Bottom: 1, Right: 1})
	assert.Equal(t, 2, clip.Height())
	assert.Equal(t, 2, clip.Width())

	cs := Paste(view, clip, Pos{Row: 1, Col: 12})
	require.Len(t, cs.Changes, 1, "only the top-left clip cell lands on the grid")
	assert.Equal(t, view.Rows[1].Cells[12].Key, cs.Changes[0].Key)
	assert.Equal(t, []contract.CellContent{content("castle", 50)}, cs.Changes[0].After)
}

func TestPaste_EmptyCellsClearTargets(t *testing.T) {
	view := newView(t, "Ada")
	put(view, 0, 5, entry("space", 30))
	clip := &Clip{Cells: [][][]contract.CellContent{{{content("castle", 50)}, nil}}}

	cs := Paste(view, clip, Pos{Row: 0, Col: 4})
	require.Len(t, cs.Changes, 2)
	assert.Nil(t, cs.Changes[1].After)
}

func TestTSV_RoundTrip(t *testing.T) {
	clip := &Clip{Cells: [][][]contract.CellContent{
		{{content("p-castle", 50), content("p-space", 25)}, nil},
		{nil, {content("p-space", 100)}},
	}}
	short := map[string]string{"p-castle": "CAS01", "p-space": "SPC01"}
	tsv := clip.TSV(func(id string) string { return short[id] })
	assert.Equal(t, "CAS01:50, SPC01:25\t\n\tSPC01:100", tsv)

	resolve := func(s string) (string, bool) {
		for id, sid := range short {
			if sid == s {
				return id, true
			}
		}
		return "", false
	}
	parsed, err := ParseTSV(tsv+"\n", resolve)
	require.NoError(t, err)
	assert.Equal(t, clip.Height(), parsed.Height())
	assert.Equal(t, clip.Width(), parsed.Width())
	assert.True(t, contract.ContentsEqual(clip.Cells[0][0], parsed.Cells[0][0]))
	assert.Empty(t, parsed.Cells[1][0])
}

func TestParseTSV_Errors(t *testing.T) {
	resolve := func(s string) (string, bool) { return "p-" + s, s == "CAS01" }

	tests := []struct {
		name string
		text string
		want string
	}{
		{"unknown project", "CAS01\tNOPE01:20", `row 1 column 2: unknown project "NOPE01"`},
		{"bad pct", "CAS01:abc", "invalid allocation"},
		{"out of range", "CAS01:0", "must be between 1 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTSV(tt.text, resolve)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseTSV("  \n", resolve)
	assert.ErrorIs(t, err, ErrEmptyClipboard)

	clip, err := ParseTSV("CAS01 ", resolve)
	require.NoError(t, err)
	assert.Equal(t, []contract.CellContent{content("p-CAS01", 100)}, clip.Cells[0][0])
}

type fakeSystemClipboard struct {
	text     string
	writeErr error
}

func (f *fakeSystemClipboard) ReadAll() (string, error) { return f.text, nil }

func (f *fakeSystemClipboard) WriteAll(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	return nil
}

func TestClipboard_PrefersExternalText(t *testing.T) {
	sys := &fakeSystemClipboard{}
	cb := NewClipboard(sys)
	resolve := func(s string) (string, bool) { return "p-" + s, true }

	_, err := cb.Contents(resolve)
	assert.ErrorIs(t, err, ErrEmptyClipboard)

	own := &Clip{Cells: [][][]contract.CellContent{{{{ProjectID: "p-CAS01", AllocationPct: 50, Note: "kept"}}}}}
	require.NoError(t, cb.Copy(own, "CAS01:50"))

	got, err := cb.Contents(resolve)
	require.NoError(t, err)
	assert.Same(t, own, got, "our own copy keeps notes")

	sys.text = "SPC01:20"
	got, err = cb.Contents(resolve)
	require.NoError(t, err)
	assert.Equal(t, []contract.CellContent{content("p-SPC01", 20)}, got.Cells[0][0])
}

func TestClipboard_SystemFailureKeepsBuffer(t *testing.T) {
	cb := NewClipboard(&fakeSystemClipboard{writeErr: errors.New("no xclip")})
	clip := &Clip{Cells: [][][]contract.CellContent{{nil}}}

	assert.Error(t, cb.Copy(clip, ""))
	got, err := cb.Contents(nil)
	require.NoError(t, err)
	assert.Same(t, clip, got)
}

func TestStroke_MergesRevisitedCells(t *testing.T) {
	view := newView(t, "Ada")
	put(view, 0, 0, entry("space", 50))
	apply := applyTo(view)
	stroke := NewStroke("castle", 50)

	for _, col := range []int{0, 1, 0, 2} {
		applied, err := apply(stroke.Paint(view, Pos{Row: 0, Col: col}))
		require.NoError(t, err)
		stroke.Record(applied)
	}
	assert.Empty(t, stroke.Paint(view, Pos{Row: 0, Col: 1}).Changes, "already painted")
	assert.Empty(t, stroke.Paint(view, Pos{Row: 4, Col: 0}).Changes, "off grid")

	cs := stroke.Changeset()
	require.Len(t, cs.Changes, 3)
	assert.Equal(t, []contract.CellContent{content("space", 50)}, cs.Changes[0].Before)

	h := NewHistory(0)
	h.Push(cs)
	_, err := h.Undo(apply)
	require.NoError(t, err)
	assert.Equal(t, 50, view.Rows[0].Cells[0].TotalPct)
	assert.Empty(t, view.Rows[0].Cells[1].Entries)
	assert.Empty(t, view.Rows[0].Cells[2].Entries)
}

func TestHistory_UndoRedo(t *testing.T) {
	view := newView(t, "Ada")
	apply := applyTo(view)
	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryLimit, h.Limit())

	_, err := h.Undo(apply)
	assert.ErrorIs(t, err, ErrNothingToUndo)

	first, _ := apply(Assign(view, Rect{Right: 1}, "castle", 50))
	h.Push(first)
	second, _ := apply(Assign(view, Rect{Right: 0}, "space", 25))
	h.Push(second)
	assert.Equal(t, 75, view.Rows[0].Cells[0].TotalPct)

	undone, err := h.Undo(apply)
	require.NoError(t, err)
	assert.Equal(t, "assign", undone.Label)
	assert.Equal(t, 50, view.Rows[0].Cells[0].TotalPct)
	assert.True(t, h.CanRedo())

	_, err = h.Redo(apply)
	require.NoError(t, err)
	assert.Equal(t, 75, view.Rows[0].Cells[0].TotalPct)

	_, _ = h.Undo(apply)
	h.Push(Clear(view, Rect{Right: 12}))
	assert.False(t, h.CanRedo(), "a new edit drops the redo stack")
	_, err = h.Redo(apply)
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestHistory_FailedApplyKeepsStacks(t *testing.T) {
	view := newView(t, "Ada")
	h := NewHistory(5)
	h.Push(Assign(view, Rect{}, "castle", 50))

	boom := errors.New("db locked")
	_, err := h.Undo(func(contract.Changeset) (contract.Changeset, error) { return contract.Changeset{}, boom })
	assert.ErrorIs(t, err, boom)
	undo, redo := h.Depth()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestHistory_Bounded(t *testing.T) {
	view := newView(t, "Ada")
	h := NewHistory(3)
	for col := 0; col < 5; col++ {
		h.Push(Assign(view, Rect{Left: col, Right: col}, "castle", 10+col))
	}
	undo, _ := h.Depth()
	assert.Equal(t, 3, undo)

	var pcts []int
	for h.CanUndo() {
		cs, err := h.Undo(func(cs contract.Changeset) (contract.Changeset, error) { return cs, nil })
		require.NoError(t, err)
		pcts = append(pcts, cs.Changes[0].Before[0].AllocationPct)
	}
	assert.Equal(t, []int{14, 13, 12}, pcts, "oldest edits fall off first")
}

func TestHistory_IgnoresEmpty(t *testing.T) {
	h := NewHistory(3)
	h.Push(contract.Changeset{Label: "noop"})
	assert.False(t, h.CanUndo())
}

func TestHistory_UndoAndRedoAreRestores(t *testing.T) {
	view := newView(t, "Ada")
	apply := applyTo(view)
	var seen []bool
	recording := func(cs contract.Changeset) (contract.Changeset, error) {
		seen = append(seen, cs.Restore)
		return apply(cs)
	}

	h := NewHistory(0)
	edit := Assign(view, Rect{}, "castle", 50)
	assert.False(t, edit.Restore)
	applied, err := apply(edit)
	require.NoError(t, err)
	h.Push(applied)

	_, err = h.Undo(recording)
	require.NoError(t, err)
	_, err = h.Redo(recording)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, seen)
}
