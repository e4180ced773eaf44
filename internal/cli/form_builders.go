package cli

import "github.com/charmbracelet/huh"

// teamInput returns a team field that suggests the configured teams.
func teamInput(value *string, teams []string) *huh.Input {
	in := huh.NewInput().
		Title("Team").
		Value(value).
		Validate(requiredText("team"))
	if len(teams) > 0 {
		in = in.Placeholder(teams[0]).Suggestions(teams)
	}
	return in
}

// allocationInput returns a percentage field validated to 1..100.
func allocationInput(title string, value *string) *huh.Input {
	if title == "" {
		title = "Allocation (%)"
	}
	return huh.NewInput().
		Title(title).
		Placeholder("100").
		Value(value).
		Validate(validateAllocation)
}
