package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorBg     = lipgloss.Color("#282828")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LoadColor returns the style for a week's load level.
func LoadColor(load domain.LoadLevel) lipgloss.Style {
	switch load {
	case domain.LoadOver:
		return StyleRed
	case domain.LoadFull:
		return StyleGreen
	case domain.LoadPartial:
		return StyleYellow
	default:
		return StyleDim
	}
}

// LoadIndicator returns a colored marker such as "▲ OVER".
func LoadIndicator(load domain.LoadLevel) string {
	switch load {
	case domain.LoadOver:
		return StyleRed.Render("▲ OVER")
	case domain.LoadFull:
		return StyleGreen.Render("● FULL")
	case domain.LoadPartial:
		return StyleYellow.Render("◐ PARTIAL")
	default:
		return StyleDim.Render("○ FREE")
	}
}

// Swatch renders text on the project's color.
func Swatch(color, text string) string {
	if color == "" {
		return StyleFg.Render(text)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(ColorBg).
		Render(text)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
