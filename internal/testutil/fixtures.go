package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/domain"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithTeam(team string) ProjectOption {
	return func(p *domain.Project) {
		p.Team = team
	}
}

func WithPriority(n int) ProjectOption {
	return func(p *domain.Project) {
		p.Priority = n
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Team:      "core",
		Status:    domain.ProjectActive,
		Priority:  domain.PriorityDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Color == "" {
		p.Color = domain.DefaultColor(p.ShortID)
	}
	return p
}

// Assignee options
type AssigneeOption func(*domain.Assignee)

func WithAssigneeTeam(team string) AssigneeOption {
	return func(a *domain.Assignee) {
		a.Team = team
	}
}

func WithCapacity(pct int) AssigneeOption {
	return func(a *domain.Assignee) {
		a.CapacityPct = pct
	}
}

func WithRole(role string) AssigneeOption {
	return func(a *domain.Assignee) {
		a.Role = role
	}
}

func Inactive() AssigneeOption {
	return func(a *domain.Assignee) {
		a.Active = false
	}
}

func NewTestAssignee(name string, opts ...AssigneeOption) *domain.Assignee {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Assignee{
		ID:          uuid.New().String(),
		Name:        name,
		Team:        "core",
		CapacityPct: domain.DefaultCapacityPct,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTestAssignment places assignee on project for the week starting monday.
func NewTestAssignment(assigneeID, projectID string, monday time.Time, pct int) *domain.Assignment {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Assignment{
		ID:            uuid.New().String(),
		AssigneeID:    assigneeID,
		ProjectID:     projectID,
		WeekStart:     monday,
		AllocationPct: pct,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Date parses a YYYY-MM-DD literal, panicking on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
