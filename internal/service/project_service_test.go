package service

import (
	"context"
	"testing"

	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_Defaults(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(r.projects, r.assignments)

	proj := &domain.Project{Name: "  Pirate Ship ", ShortID: "pir01"}
	require.NoError(t, svc.Create(ctx, proj))

	assert.NotEmpty(t, proj.ID, "UUID should be generated")
	assert.Equal(t, "PIR01", proj.ShortID)
	assert.Equal(t, "Pirate Ship", proj.Name)
	assert.Equal(t, domain.ProjectPlanned, proj.Status, "status should default to planned")
	assert.Equal(t, domain.PriorityDefault, proj.Priority)
	assert.Equal(t, domain.DefaultColor("PIR01"), proj.Color)

	fetched, err := svc.GetByShortID(ctx, "pir01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
}

func TestProjectService_Create_InvalidShortID(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects, r.assignments)

	tests := []struct {
		name    string
		shortID string
	}{
		{"empty", ""},
		{"no digits", "PIRATE"},
		{"one letter", "P01"},
		{"too many digits", "PIR12345"},
		{"symbols", "PI-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &domain.Project{Name: "X", ShortID: tt.shortID})
			assert.Error(t, err)
		})
	}
}

func TestProjectService_Create_DuplicateShortID(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects, r.assignments)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.Project{Name: "One", ShortID: "DUP01"}))
	err := svc.Create(ctx, &domain.Project{Name: "Two", ShortID: "dup01"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), `already used by "One"`)
}

func TestProjectService_Update_KeepsOwnShortID(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects, r.assignments)
	ctx := context.Background()

	p := &domain.Project{Name: "Train", ShortID: "TRN01"}
	require.NoError(t, svc.Create(ctx, p))
	other := &domain.Project{Name: "Tram", ShortID: "TRM01"}
	require.NoError(t, svc.Create(ctx, other))

	p.Priority = 1
	require.NoError(t, svc.Update(ctx, p))

	p.ShortID = "TRM01"
	assert.ErrorIs(t, svc.Update(ctx, p), ErrConflict)
}

func TestProjectService_List_ArchivedStatusImpliesIncludeArchived(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects, r.assignments)
	ctx := context.Background()

	live := r.seedProject(t, "Live")
	old := r.seedProject(t, "Old")
	require.NoError(t, svc.Archive(ctx, old.ID))

	list, err := svc.List(ctx, repository.ProjectFilter{Statuses: []domain.ProjectStatus{domain.ProjectArchived}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.ID, list[0].ID)

	list, err = svc.List(ctx, repository.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)
}

func TestProjectService_Delete(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects, r.assignments)
	ctx := context.Background()

	who := r.seedAssignee(t, "Ada")
	busy := r.seedProject(t, "Busy")
	r.seedAssignment(t, who.ID, busy.ID, "2025-01-06", 50)

	t.Run("refuses unarchived", func(t *testing.T) {
		err := svc.Delete(ctx, busy.ID, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be archived")
	})

	require.NoError(t, svc.Archive(ctx, busy.ID))

	t.Run("refuses while assignments remain", func(t *testing.T) {
		err := svc.Delete(ctx, busy.ID, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Contains(t, err.Error(), "1 assignments")
	})

	t.Run("force removes project and assignments", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, busy.ID, true))
		_, err := svc.GetByID(ctx, busy.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Empty(t, r.cell(t, who.ID, "2025-01-06"))
	})

	t.Run("archived and unused deletes without force", func(t *testing.T) {
		idle := r.seedProject(t, "Idle")
		require.NoError(t, svc.Archive(ctx, idle.ID))
		require.NoError(t, svc.Delete(ctx, idle.ID, false))
	})
}

func TestProjectService_Group(t *testing.T) {
	svc := NewProjectService(nil, nil)
	mk := func(id, team string, st domain.ProjectStatus, prio int) *domain.Project {
		return &domain.Project{ID: id, Team: team, Status: st, Priority: prio}
	}
	projects := []*domain.Project{
		mk("a", "zeta", domain.ProjectActive, 2),
		mk("b", "", domain.ProjectPaused, 1),
		mk("c", "Alpha", domain.ProjectPlanned, 2),
		mk("d", "zeta", domain.ProjectActive, 5),
	}

	keys := func(gs []ProjectGroup) []string {
		var out []string
		for _, g := range gs {
			out = append(out, g.Key)
		}
		return out
	}

	byTeam := svc.Group(projects, domain.GroupTeam)
	assert.Equal(t, []string{"Alpha", "zeta", ""}, keys(byTeam))
	assert.Len(t, byTeam[1].Projects, 2)
	assert.Equal(t, "a", byTeam[1].Projects[0].ID, "input order kept inside a group")

	byStatus := svc.Group(projects, domain.GroupStatus)
	assert.Equal(t, []string{"active", "planned", "paused"}, keys(byStatus))

	byPriority := svc.Group(projects, domain.GroupPriority)
	assert.Equal(t, []string{"P1", "P2", "P5"}, keys(byPriority))

	none := svc.Group(projects, domain.GroupNone)
	require.Len(t, none, 1)
	assert.Len(t, none[0].Projects, 4)
}

func TestProjectService_ObserverSeesFailures(t *testing.T) {
	r := setupRepos(t)
	obs := &recordingObserver{}
	svc := NewProjectService(r.projects, r.assignments, obs)

	_ = svc.Create(context.Background(), &domain.Project{Name: "Bad", ShortID: "bad"})
	p := testutil.NewTestProject("Fine")
	require.NoError(t, svc.Create(context.Background(), &domain.Project{Name: p.Name, ShortID: p.ShortID}))

	require.Len(t, obs.events, 2)
	assert.Equal(t, "project-create", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.Error(t, obs.events[0].Err)
	assert.Equal(t, "bad", obs.events[0].Fields["short_id"])
	assert.True(t, obs.events[1].Success)
}
