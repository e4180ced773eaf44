package repository

import (
	"context"
	"errors"
	"time"

	"github.com/legoplanner/legoplanner/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ProjectFilter narrows a project listing. Zero values match everything.
type ProjectFilter struct {
	Statuses        []domain.ProjectStatus
	Teams           []string
	Search          string
	IncludeArchived bool
}

// AssignmentFilter narrows an assignment range query.
type AssignmentFilter struct {
	AssigneeIDs []string
	ProjectIDs  []string
	Teams       []string
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AssigneeRepo interface {
	Create(ctx context.Context, a *domain.Assignee) error
	GetByID(ctx context.Context, id string) (*domain.Assignee, error)
	GetByName(ctx context.Context, name string) (*domain.Assignee, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Assignee, error)
	Update(ctx context.Context, a *domain.Assignee) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Upsert(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByRange(ctx context.Context, from, to time.Time, f AssignmentFilter) ([]domain.Assignment, error)
	ListByCell(ctx context.Context, key domain.CellKey) ([]domain.Assignment, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Assignment, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteCell(ctx context.Context, key domain.CellKey) error
	DeleteRange(ctx context.Context, assigneeID, projectID string, from, to time.Time) (int, error)
}
