package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// plannerHuhTheme returns a huh theme using the Gruvbox palette.
func plannerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFormValues backs the interactive "project add" form.
type projectFormValues struct {
	ShortID  string
	Name     string
	Team     string
	Status   string
	Priority string
}

// projectForm asks for whatever "project add" was not given on the command line.
func projectForm(v *projectFormValues, teams []string) *huh.Form {
	if v.Status == "" {
		v.Status = string(domain.ProjectPlanned)
	}
	if v.Priority == "" {
		v.Priority = strconv.Itoa(domain.PriorityDefault)
	}

	statusOptions := make([]huh.Option[string], 0, len(domain.ProjectStatusOrder))
	for _, s := range domain.ProjectStatusOrder {
		if s == domain.ProjectArchived {
			continue
		}
		statusOptions = append(statusOptions, huh.NewOption(string(s), string(s)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Placeholder("CAS01").
				Value(&v.ShortID).
				Validate(validateShortID),
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(requiredText("name")),
			teamInput(&v.Team, teams),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&v.Status),
			huh.NewInput().
				Title("Priority (1 highest, 5 lowest)").
				Value(&v.Priority).
				Validate(validatePriority),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

// assigneeFormValues backs the interactive "assignee add" form.
type assigneeFormValues struct {
	Name     string
	Team     string
	Role     string
	Capacity string
}

func assigneeForm(v *assigneeFormValues, teams []string) *huh.Form {
	if v.Capacity == "" {
		v.Capacity = strconv.Itoa(domain.DefaultCapacityPct)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(requiredText("name")),
			teamInput(&v.Team, teams),
			huh.NewInput().
				Title("Role").
				Placeholder("engineer").
				Value(&v.Role),
			allocationInput("Capacity (%)", &v.Capacity),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

func requiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateShortID(s string) error {
	p := domain.Project{ShortID: strings.ToUpper(strings.TrimSpace(s))}
	return p.ValidateShortID()
}

func validatePriority(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < domain.PriorityHighest || v > domain.PriorityLowest {
		return fmt.Errorf("enter a number from %d to %d", domain.PriorityHighest, domain.PriorityLowest)
	}
	return nil
}

// validateAllocation accepts a whole percentage from 1 to 100, with or
// without a trailing %.
func validateAllocation(s string) error {
	_, err := parseAllocation(s)
	return err
}

func parseAllocation(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid allocation %q", s)
	}
	if v < 1 || v > 100 {
		return 0, fmt.Errorf("allocation must be between 1 and 100")
	}
	return v, nil
}
