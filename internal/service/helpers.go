package service

import (
	"strings"

	"github.com/legoplanner/legoplanner/internal/domain"
)

// stringSet builds a lookup from vals after applying norm.
func stringSet(vals []string, norm func(string) string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[norm(v)] = true
	}
	return set
}

// filterAssigneesByScope keeps assignees whose team and ID are in scope.
// Empty scopes match everything.
func filterAssigneesByScope(assignees []*domain.Assignee, teams, ids []string) []*domain.Assignee {
	teamSet := stringSet(teams, strings.ToLower)
	idSet := stringSet(ids, func(s string) string { return s })
	if teamSet == nil && idSet == nil {
		return assignees
	}
	var out []*domain.Assignee
	for _, a := range assignees {
		if teamSet != nil && !teamSet[strings.ToLower(a.Team)] {
			continue
		}
		if idSet != nil && !idSet[a.ID] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// personWeeks converts a sum of weekly percentages into person-weeks.
func personWeeks(pct int) float64 {
	return float64(pct) / 100
}

func pctOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
