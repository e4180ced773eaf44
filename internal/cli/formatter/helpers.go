package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPlanned:
		return StyleBlue.Render("◌ Planned")
	case domain.ProjectPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProjectDone:
		return StyleDim.Render("✔ Done")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge renders P1..P5, hotter for higher priorities.
func PriorityBadge(priority int) string {
	label := fmt.Sprintf("P%d", priority)
	switch {
	case priority <= 1:
		return StyleRed.Render(label)
	case priority == 2:
		return StyleYellow.Render(label)
	case priority >= domain.PriorityLowest:
		return StyleDim.Render(label)
	default:
		return StyleFg.Render(label)
	}
}

// TeamBadge returns a purple team label, or a dim placeholder.
func TeamBadge(team string) string {
	if team == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(team)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatPct renders an allocation percentage such as "50%".
func FormatPct(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// FormatPersonWeeks renders person-weeks with trailing zeros trimmed: 3, 2.5, 0.25.
func FormatPersonWeeks(pw float64) string {
	s := fmt.Sprintf("%.2f", pw)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
