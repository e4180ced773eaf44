package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/importer"
	"github.com/legoplanner/legoplanner/internal/repository"
)

// ErrConflict is returned when a write would break a uniqueness or
// lifecycle rule (duplicate short ID, deleting a project still in use).
var ErrConflict = errors.New("conflict")

// ErrImportInvalid wraps the collected validation errors of an import.
var ErrImportInvalid = errors.New("import validation failed")

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, f repository.ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
	Group(projects []*domain.Project, by domain.GroupKey) []ProjectGroup
}

type ProjectGroup = contract.ProjectGroup

type AssigneeService interface {
	Create(ctx context.Context, a *domain.Assignee) error
	GetByID(ctx context.Context, id string) (*domain.Assignee, error)
	GetByName(ctx context.Context, name string) (*domain.Assignee, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Assignee, error)
	Update(ctx context.Context, a *domain.Assignee) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AssignmentService interface {
	Assign(ctx context.Context, req contract.AssignRequest) (contract.Changeset, error)
	Unassign(ctx context.Context, assigneeID, projectID string, from, to time.Time) (contract.Changeset, error)
	ApplyChangeset(ctx context.Context, cs contract.Changeset) (contract.Changeset, error)
	ListByCell(ctx context.Context, key domain.CellKey) ([]domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Assignment, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Assignment, error)
}

type GridService interface {
	Build(ctx context.Context, req contract.GridRequest) (*contract.GridView, error)
}

type ReportService interface {
	Capacity(ctx context.Context, req contract.CapacityRequest) (*contract.CapacityReport, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*contract.ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*contract.ImportResult, error)
	Export(ctx context.Context, w io.Writer, format importer.Format, includeArchived bool) error
}
