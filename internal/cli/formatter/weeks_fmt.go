package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/legoplanner/legoplanner/internal/weeks"
)

// FormatWeeks renders a quarter's buckets. The week containing today is
// highlighted.
func FormatWeeks(q weeks.Quarter, ws []weeks.Week, today time.Time) string {
	rows := make([][]string, 0, len(ws))
	for i, w := range ws {
		pos := fmt.Sprintf("W%d", i+1)
		num := fmt.Sprintf("%d", w.Number)
		start, end := w.StartString(), w.EndString()
		if w.Contains(today) {
			pos = StyleHeader.Render(pos)
			start = StyleBold.Render(start)
			end = StyleBold.Render(end) + " " + StyleGreen.Render("◀ now")
		} else {
			start = StyleFg.Render(start)
			end = StyleFg.Render(end)
		}
		rows = append(rows, []string{pos, Dim(num), start, end})
	}
	return RenderBox(q.String(), strings.TrimRight(RenderTable([]string{"POS", "WEEK", "START", "END"}, rows), "\n"))
}

// FormatYear renders all four quarters of a year one after another.
func FormatYear(year int, quarters [][]weeks.Week, today time.Time) string {
	parts := make([]string, 0, len(quarters))
	for i, ws := range quarters {
		parts = append(parts, FormatWeeks(weeks.Quarter{Year: year, Q: i + 1}, ws, today))
	}
	return strings.Join(parts, "\n")
}
