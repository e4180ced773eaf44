package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db          *sql.DB
	projects    repository.ProjectRepo
	assignees   repository.AssigneeRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:          database,
		projects:    repository.NewSQLiteProjectRepo(database),
		assignees:   repository.NewSQLiteAssigneeRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		uow:         testutil.NewTestUoW(database),
	}
}

func (r repos) seedProject(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

func (r repos) seedAssignee(t *testing.T, name string, opts ...testutil.AssigneeOption) *domain.Assignee {
	t.Helper()
	a := testutil.NewTestAssignee(name, opts...)
	require.NoError(t, r.assignees.Create(context.Background(), a))
	return a
}

func (r repos) seedAssignment(t *testing.T, assigneeID, projectID, week string, pct int) {
	t.Helper()
	a := testutil.NewTestAssignment(assigneeID, projectID, testutil.Date(week), pct)
	require.NoError(t, r.assignments.Upsert(context.Background(), a))
}

func (r repos) cell(t *testing.T, assigneeID, week string) []domain.Assignment {
	t.Helper()
	as, err := r.assignments.ListByCell(context.Background(), domain.CellKey{AssigneeID: assigneeID, WeekStart: testutil.Date(week)})
	require.NoError(t, err)
	return as
}

func date(s string) time.Time {
	return testutil.Date(s)
}
