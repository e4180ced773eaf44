package contract

import "github.com/legoplanner/legoplanner/internal/app"

type CellContent = app.CellContent

type CellChange = app.CellChange

type Changeset = app.Changeset

type AssignRequest = app.AssignRequest

type ImportResult = app.ImportResult

type EditErrorCode = app.EditErrorCode

const (
	EditErrInvalidRange      EditErrorCode = app.EditErrInvalidRange
	EditErrInvalidAllocation EditErrorCode = app.EditErrInvalidAllocation
	EditErrArchivedProject   EditErrorCode = app.EditErrArchivedProject
	EditErrInactiveAssignee  EditErrorCode = app.EditErrInactiveAssignee
	EditErrNotMonday         EditErrorCode = app.EditErrNotMonday
)

type EditError = app.EditError

func WithProject(cs []CellContent, projectID string, pct int, note string) []CellContent {
	return app.WithProject(cs, projectID, pct, note)
}

func WithoutProject(cs []CellContent, projectID string) []CellContent {
	return app.WithoutProject(cs, projectID)
}

func ContentsEqual(a, b []CellContent) bool {
	return app.ContentsEqual(a, b)
}

func SortContentsByID(cs []CellContent) []CellContent {
	return app.SortContents(cs)
}

type ProjectGroup = app.ProjectGroup
