package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

// Existing lists entities already in the database that assignments may
// reference. Keys are upper-cased short IDs and lower-cased names.
type Existing struct {
	ShortIDs      map[string]bool
	AssigneeNames map[string]bool
}

// ValidateDocument checks the document for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDocument(doc *Document, existing Existing) []error {
	var errs []error

	if doc.Version != 0 && doc.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("version: unsupported value %d (expected %d)", doc.Version, CurrentVersion))
	}

	shortIDs := make(map[string]bool)
	errs = append(errs, validateProjects(doc.Projects, existing, shortIDs)...)

	names := make(map[string]bool)
	errs = append(errs, validateAssignees(doc.Assignees, existing, names)...)

	errs = append(errs, validateAssignments(doc.Assignments, existing, shortIDs, names)...)

	return errs
}

func validateProjects(projects []ProjectImport, existing Existing, seen map[string]bool) []error {
	var errs []error
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		id := strings.ToUpper(strings.TrimSpace(p.ShortID))

		dp := domain.Project{ShortID: id, Name: p.Name, Status: domain.ProjectStatus(p.Status), Color: p.Color}
		if p.Priority != nil {
			dp.Priority = *p.Priority
		}
		dp.ApplyDefaults()
		if err := dp.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}

		if id == "" {
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s: duplicate short_id %q", prefix, id))
		}
		if existing.ShortIDs[id] {
			errs = append(errs, fmt.Errorf("%s: project %q already exists", prefix, id))
		}
		seen[id] = true
	}
	return errs
}

func validateAssignees(assignees []AssigneeImport, existing Existing, seen map[string]bool) []error {
	var errs []error
	for i, a := range assignees {
		prefix := fmt.Sprintf("assignees[%d]", i)
		da := domain.Assignee{Name: a.Name, Email: a.Email, CapacityPct: domain.DefaultCapacityPct}
		if a.CapacityPct != nil {
			da.CapacityPct = *a.CapacityPct
		}
		if err := da.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}

		name := strings.ToLower(strings.TrimSpace(a.Name))
		if name == "" {
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name %q", prefix, a.Name))
		}
		if existing.AssigneeNames[name] {
			errs = append(errs, fmt.Errorf("%s: assignee %q already exists", prefix, a.Name))
		}
		seen[name] = true
	}
	return errs
}

func validateAssignments(as []AssignmentImport, existing Existing, shortIDs, names map[string]bool) []error {
	var errs []error
	for i, a := range as {
		prefix := fmt.Sprintf("assignments[%d]", i)

		project := strings.ToUpper(strings.TrimSpace(a.Project))
		if project == "" {
			errs = append(errs, fmt.Errorf("%s.project is required", prefix))
		} else if !shortIDs[project] && !existing.ShortIDs[project] {
			errs = append(errs, fmt.Errorf("%s.project: unknown project %q", prefix, a.Project))
		}

		name := strings.ToLower(strings.TrimSpace(a.Assignee))
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.assignee is required", prefix))
		} else if !names[name] && !existing.AssigneeNames[name] {
			errs = append(errs, fmt.Errorf("%s.assignee: unknown assignee %q", prefix, a.Assignee))
		}

		if a.AllocationPct < 1 || a.AllocationPct > 100 {
			errs = append(errs, fmt.Errorf("%s.allocation_pct: %d must be between 1 and 100", prefix, a.AllocationPct))
		}

		if _, err := a.Mondays(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

// Mondays expands Week or From/To into the week starts it covers.
func (a AssignmentImport) Mondays() ([]time.Time, error) {
	hasWeek := strings.TrimSpace(a.Week) != ""
	hasRange := strings.TrimSpace(a.From) != "" || strings.TrimSpace(a.To) != ""
	switch {
	case hasWeek && hasRange:
		return nil, fmt.Errorf("set either week or from/to, not both")
	case hasWeek:
		m, err := parseImportWeek("week", a.Week)
		if err != nil {
			return nil, err
		}
		return []time.Time{m}, nil
	case hasRange:
		from, err := parseImportWeek("from", a.From)
		if err != nil {
			return nil, err
		}
		to, err := parseImportWeek("to", a.To)
		if err != nil {
			return nil, err
		}
		if to.Before(from) {
			return nil, fmt.Errorf("to %s is before from %s", a.To, a.From)
		}
		var out []time.Time
		for m := from; !m.After(to); m = m.AddDate(0, 0, 7) {
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("week or from/to is required")
	}
}

// parseImportWeek accepts a Monday date or a quarter week ref. Unlike the
// CLI, import files must name Mondays exactly.
func parseImportWeek(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	if strings.Contains(s, "/") {
		ref, err := weeks.ParseWeekRef(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", field, err)
		}
		w, err := ref.Resolve()
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", field, err)
		}
		return w.Start, nil
	}
	d, err := time.Parse(weeks.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	if !weeks.IsMonday(d) {
		return time.Time{}, fmt.Errorf("%s: %s is a %s, expected a Monday", field, s, d.Weekday())
	}
	return d, nil
}
