package editing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/legoplanner/legoplanner/internal/contract"
)

// Clip is a rectangular copy of cell contents, rows by weeks.
type Clip struct {
	Cells [][][]contract.CellContent
}

// CopyClip snapshots the cells of view inside r.
func CopyClip(view *contract.GridView, r Rect) *Clip {
	clip := &Clip{}
	for row := r.Top; row <= r.Bottom; row++ {
		var line [][]contract.CellContent
		for col := r.Left; col <= r.Right; col++ {
			cell, ok := view.Cell(row, col)
			if !ok {
				continue
			}
			line = append(line, cloneCell(cell.Contents()))
		}
		if line != nil {
			clip.Cells = append(clip.Cells, line)
		}
	}
	return clip
}

func (c *Clip) Height() int { return len(c.Cells) }

func (c *Clip) Width() int {
	w := 0
	for _, row := range c.Cells {
		w = max(w, len(row))
	}
	return w
}

// TSV renders the clip as tab-separated rows for spreadsheets. A cell lists
// its projects as SHORTID:PCT joined by commas. Notes are not carried.
func (c *Clip) TSV(shortIDOf func(projectID string) string) string {
	var b strings.Builder
	for i, row := range c.Cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			for k, e := range contract.SortContentsByID(cell) {
				if k > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s:%d", shortIDOf(e.ProjectID), e.AllocationPct)
			}
		}
	}
	return b.String()
}

// ParseTSV reads text written by TSV or typed in a spreadsheet. resolve maps
// a project short ID to its project ID. A bare short ID means 100%.
func ParseTSV(text string, resolve func(shortID string) (string, bool)) (*Clip, error) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyClipboard
	}
	clip := &Clip{}
	for i, line := range strings.Split(text, "\n") {
		var row [][]contract.CellContent
		for j, field := range strings.Split(line, "\t") {
			cell, err := parseTSVCell(field, resolve)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			row = append(row, cell)
		}
		clip.Cells = append(clip.Cells, row)
	}
	return clip, nil
}

func parseTSVCell(field string, resolve func(string) (string, bool)) ([]contract.CellContent, error) {
	var out []contract.CellContent
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		shortID, pctStr, hasPct := strings.Cut(part, ":")
		shortID = strings.TrimSpace(shortID)
		pct := 100
		if hasPct {
			n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(pctStr), "%"))
			if err != nil {
				return nil, fmt.Errorf("invalid allocation in %q", part)
			}
			pct = n
		}
		if pct < 1 || pct > 100 {
			return nil, fmt.Errorf("allocation %d%% must be between 1 and 100", pct)
		}
		projectID, ok := resolve(shortID)
		if !ok {
			return nil, fmt.Errorf("unknown project %q", shortID)
		}
		out = contract.WithProject(out, projectID, pct, "")
	}
	return out, nil
}
