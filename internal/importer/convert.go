package importer

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

// PlannedAssignment is one week of an imported assignment, still keyed by
// the human references used in the file.
type PlannedAssignment struct {
	AssigneeName   string
	ProjectShortID string
	WeekStart      time.Time
	AllocationPct  int
	Note           string
}

// Converted holds the domain objects produced from a Document.
type Converted struct {
	Projects    []*domain.Project
	Assignees   []*domain.Assignee
	Assignments []PlannedAssignment
}

// Convert transforms a validated Document into domain objects ready for persistence.
// Call ValidateDocument first; Convert assumes the document is valid.
func Convert(doc *Document) (*Converted, error) {
	now := time.Now().UTC()
	out := &Converted{}

	for _, p := range doc.Projects {
		project := &domain.Project{
			ID:          uuid.New().String(),
			ShortID:     strings.ToUpper(strings.TrimSpace(p.ShortID)),
			Name:        strings.TrimSpace(p.Name),
			Team:        strings.TrimSpace(p.Team),
			Description: p.Description,
			Status:      domain.ProjectStatus(p.Status),
			Color:       p.Color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if p.Priority != nil {
			project.Priority = *p.Priority
		}
		project.ApplyDefaults()
		if project.Status == domain.ProjectArchived {
			archivedAt := now
			project.ArchivedAt = &archivedAt
		}
		out.Projects = append(out.Projects, project)
	}

	for _, a := range doc.Assignees {
		out.Assignees = append(out.Assignees, &domain.Assignee{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(a.Name),
			Email:       a.Email,
			Role:        a.Role,
			Team:        strings.TrimSpace(a.Team),
			CapacityPct: domain.IntFromPtrWithDefault(domain.DefaultCapacityPct, a.CapacityPct),
			Active:      domain.BoolFromPtrWithDefault(true, a.Active),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, a := range doc.Assignments {
		mondays, err := a.Mondays()
		if err != nil {
			return nil, err
		}
		for _, m := range mondays {
			out.Assignments = append(out.Assignments, PlannedAssignment{
				AssigneeName:   strings.TrimSpace(a.Assignee),
				ProjectShortID: strings.ToUpper(strings.TrimSpace(a.Project)),
				WeekStart:      m,
				AllocationPct:  a.AllocationPct,
				Note:           a.Note,
			})
		}
	}

	return out, nil
}

// Build renders stored entities as a Document. Consecutive weeks with the
// same assignee, project, allocation and note collapse into one from/to entry.
func Build(projects []*domain.Project, assignees []*domain.Assignee, assignments []domain.Assignment) *Document {
	doc := &Document{Version: CurrentVersion}

	shortIDs := make(map[string]string, len(projects))
	for _, p := range projects {
		shortIDs[p.ID] = p.ShortID
		priority := p.Priority
		doc.Projects = append(doc.Projects, ProjectImport{
			ShortID:     p.ShortID,
			Name:        p.Name,
			Team:        p.Team,
			Description: p.Description,
			Status:      string(p.Status),
			Priority:    &priority,
			Color:       p.Color,
		})
	}

	names := make(map[string]string, len(assignees))
	for _, a := range assignees {
		names[a.ID] = a.Name
		capacity := a.CapacityPct
		active := a.Active
		doc.Assignees = append(doc.Assignees, AssigneeImport{
			Name:        a.Name,
			Email:       a.Email,
			Role:        a.Role,
			Team:        a.Team,
			CapacityPct: &capacity,
			Active:      &active,
		})
	}

	sorted := make([]domain.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := shortIDs[a.ProjectID]; !ok {
			continue
		}
		if _, ok := names[a.AssigneeID]; !ok {
			continue
		}
		sorted = append(sorted, a)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if names[a.AssigneeID] != names[b.AssigneeID] {
			return names[a.AssigneeID] < names[b.AssigneeID]
		}
		if shortIDs[a.ProjectID] != shortIDs[b.ProjectID] {
			return shortIDs[a.ProjectID] < shortIDs[b.ProjectID]
		}
		return a.WeekStart.Before(b.WeekStart)
	})

	var run *AssignmentImport
	var runEnd time.Time
	flush := func() {
		if run == nil {
			return
		}
		if run.From == runEnd.Format(weeks.DateLayout) {
			run.Week, run.From = run.From, ""
		} else {
			run.To = runEnd.Format(weeks.DateLayout)
		}
		doc.Assignments = append(doc.Assignments, *run)
		run = nil
	}
	for _, a := range sorted {
		name, shortID := names[a.AssigneeID], shortIDs[a.ProjectID]
		if run != nil && run.Assignee == name && run.Project == shortID &&
			run.AllocationPct == a.AllocationPct && run.Note == a.Note &&
			a.WeekStart.Equal(runEnd.AddDate(0, 0, 7)) {
			runEnd = a.WeekStart
			continue
		}
		flush()
		run = &AssignmentImport{
			Assignee:      name,
			Project:       shortID,
			From:          a.WeekStart.Format(weeks.DateLayout),
			AllocationPct: a.AllocationPct,
			Note:          a.Note,
		}
		runEnd = a.WeekStart
	}
	flush()

	return doc
}
