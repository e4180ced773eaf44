package formatter

import (
	"fmt"

	"github.com/legoplanner/legoplanner/internal/contract"
)

// FormatChangeset summarises an applied edit, e.g. "assign: 4 cells updated".
func FormatChangeset(cs contract.Changeset) string {
	n := len(cs.Changes)
	label := cs.Label
	if label == "" {
		label = "edit"
	}
	if n == 0 {
		return Dim(label + ": nothing changed")
	}
	noun := "cells"
	if n == 1 {
		noun = "cell"
	}
	return StyleGreen.Render("✔ ") + fmt.Sprintf("%s: %d %s updated", label, n, noun)
}
