package app

import (
	"context"
	"time"

	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/importer"
)

// AssignRequest places one assignee on one project for an inclusive range
// of weeks. From and To are normalised to their Mondays.
type AssignRequest struct {
	AssigneeID    string
	ProjectID     string
	From          time.Time
	To            time.Time
	AllocationPct int
	Note          string
}

type GridUseCase interface {
	Build(ctx context.Context, req GridRequest) (*GridView, error)
}

type CapacityUseCase interface {
	Capacity(ctx context.Context, req CapacityRequest) (*CapacityReport, error)
}

// EditUseCase is what the interactive grid needs to mutate cells.
type EditUseCase interface {
	ApplyChangeset(ctx context.Context, cs Changeset) (Changeset, error)
}

type AssignUseCase interface {
	Assign(ctx context.Context, req AssignRequest) (Changeset, error)
	Unassign(ctx context.Context, assigneeID, projectID string, from, to time.Time) (Changeset, error)
	EditUseCase
}

type ImportResult struct {
	Projects    []*domain.Project
	Assignees   []*domain.Assignee
	Assignments int
}

type ImportUseCase interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*ImportResult, error)
}

type EditErrorCode string

const (
	EditErrInvalidRange      EditErrorCode = "INVALID_RANGE"
	EditErrInvalidAllocation EditErrorCode = "INVALID_ALLOCATION"
	EditErrArchivedProject   EditErrorCode = "ARCHIVED_PROJECT"
	EditErrInactiveAssignee  EditErrorCode = "INACTIVE_ASSIGNEE"
	EditErrNotMonday         EditErrorCode = "NOT_MONDAY"
)

// EditError is returned when a requested cell edit violates a planning rule.
type EditError struct {
	Code    EditErrorCode
	Message string
}

func (e *EditError) Error() string {
	return string(e.Code) + ": " + e.Message
}
