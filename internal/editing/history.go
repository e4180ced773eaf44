package editing

import (
	"errors"

	"github.com/legoplanner/legoplanner/internal/contract"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// ApplyFunc writes a changeset and returns what it actually changed.
type ApplyFunc func(contract.Changeset) (contract.Changeset, error)

// History is a bounded undo/redo stack of applied changesets.
type History struct {
	limit int
	undo  []contract.Changeset
	redo  []contract.Changeset
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a freshly applied edit. Empty changesets are ignored. A new
// edit discards everything that could have been redone.
func (h *History) Push(cs contract.Changeset) {
	if cs.IsEmpty() {
		return
	}
	h.pushUndo(cs)
	h.redo = nil
}

// Undo applies the inverse of the latest edit. The stacks only move when
// apply succeeds.
func (h *History) Undo(apply ApplyFunc) (contract.Changeset, error) {
	if len(h.undo) == 0 {
		return contract.Changeset{}, ErrNothingToUndo
	}
	top := h.undo[len(h.undo)-1]
	applied, err := apply(top.Invert())
	if err != nil {
		return contract.Changeset{}, err
	}
	h.undo = h.undo[:len(h.undo)-1]
	if applied.Label == "" {
		applied.Label = top.Label
	}
	h.redo = append(h.redo, applied.Invert())
	return applied, nil
}

// Redo re-applies the most recently undone edit.
func (h *History) Redo(apply ApplyFunc) (contract.Changeset, error) {
	if len(h.redo) == 0 {
		return contract.Changeset{}, ErrNothingToRedo
	}
	top := h.redo[len(h.redo)-1]
	applied, err := apply(top)
	if err != nil {
		return contract.Changeset{}, err
	}
	h.redo = h.redo[:len(h.redo)-1]
	if applied.Label == "" {
		applied.Label = top.Label
	}
	h.pushUndo(applied)
	return applied, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

func (h *History) Limit() int { return h.limit }

func (h *History) pushUndo(cs contract.Changeset) {
	h.undo = append(h.undo, cs)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
}
