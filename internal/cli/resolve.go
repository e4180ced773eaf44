package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx, repository.ProjectFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}

	// 1. Exact short ID match (case-insensitive)
	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p, nil
		}
	}

	// 2. Exact UUID match
	for _, p := range projects {
		if p.ID == input {
			return p, nil
		}
	}

	// 3. UUID prefix match
	var matches []*domain.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		candidates := make([]string, 0, len(projects)*2)
		for _, p := range projects {
			candidates = append(candidates, p.ShortID, p.Name)
		}
		return nil, notFoundError("project", input, suggest(input, candidates))
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	p, err := resolveProject(ctx, app, input)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// resolveAssignee matches a name case-insensitively, then a UUID or UUID prefix.
func resolveAssignee(ctx context.Context, app *App, input string) (*domain.Assignee, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("assignee is required")
	}

	assignees, err := app.Assignees.List(ctx, true)
	if err != nil {
		return nil, err
	}

	for _, a := range assignees {
		if strings.EqualFold(a.Name, input) {
			return a, nil
		}
	}
	for _, a := range assignees {
		if a.ID == input {
			return a, nil
		}
	}
	var matches []*domain.Assignee
	for _, a := range assignees {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		names := make([]string, 0, len(assignees))
		for _, a := range assignees {
			names = append(names, a.Name)
		}
		return nil, notFoundError("assignee", input, suggest(input, names))
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("assignee ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// suggest returns the closest fuzzy matches for input among candidates,
// best first and without duplicates.
func suggest(input string, candidates []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range fuzzy.Find(input, candidates) {
		if m.Str == "" || seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func notFoundError(kind, input string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("%s not found: %q: %w", kind, input, repository.ErrNotFound)
	}
	return fmt.Errorf("%s not found: %q (did you mean %s?): %w",
		kind, input, strings.Join(quoteAll(suggestions), ", "), repository.ErrNotFound)
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
