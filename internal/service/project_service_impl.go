package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
)

type projectService struct {
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	observer    UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, assignments repository.AssignmentRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects:    projects,
		assignments: assignments,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project-create", time.Now().UTC(), map[string]any{"short_id": p.ShortID}, &err)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.Name = strings.TrimSpace(p.Name)
	p.ApplyDefaults()
	if err = p.Validate(); err != nil {
		return err
	}
	if err = s.ensureShortIDFree(ctx, p.ShortID, p.ID); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == domain.ProjectArchived && p.ArchivedAt == nil {
		p.ArchivedAt = &now
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, shortID)
}

func (s *projectService) List(ctx context.Context, f repository.ProjectFilter) ([]*domain.Project, error) {
	for _, st := range f.Statuses {
		if st == domain.ProjectArchived {
			f.IncludeArchived = true
		}
	}
	return s.projects.List(ctx, f)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project-update", time.Now().UTC(), map[string]any{"short_id": p.ShortID}, &err)

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.ApplyDefaults()
	if err = p.Validate(); err != nil {
		return err
	}
	if err = s.ensureShortIDFree(ctx, p.ShortID, p.ID); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project-archive", time.Now().UTC(), map[string]any{"project_id": id}, &err)
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project-unarchive", time.Now().UTC(), map[string]any{"project_id": id}, &err)
	return s.projects.Unarchive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	fields := map[string]any{"project_id": id, "force": force}
	defer observe(ctx, s.observer, "project-delete", time.Now().UTC(), fields, &err)

	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsArchived() {
			return fmt.Errorf("project must be archived before deletion (use --force to override): %w", ErrConflict)
		}
		n, err := s.assignments.CountByProject(ctx, id)
		if err != nil {
			return err
		}
		fields["assignments"] = n
		if n > 0 {
			return fmt.Errorf("project %s still has %d assignments (use --force to delete them too): %w", p.ShortID, n, ErrConflict)
		}
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) ensureShortIDFree(ctx context.Context, shortID, selfID string) error {
	existing, err := s.projects.GetByShortID(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("short ID %s is already used by %q: %w", shortID, existing.Name, ErrConflict)
	}
	return nil
}

// Group buckets projects by key, preserving the input order inside each
// bucket. Team groups sort alphabetically with the unnamed team last,
// status groups follow ProjectStatusOrder and priority groups go 1..5.
func (s *projectService) Group(projects []*domain.Project, by domain.GroupKey) []ProjectGroup {
	if by == domain.GroupNone {
		return []ProjectGroup{{Key: "", Projects: projects}}
	}

	keyOf := func(p *domain.Project) string {
		switch by {
		case domain.GroupTeam:
			return strings.TrimSpace(p.Team)
		case domain.GroupStatus:
			return string(p.Status)
		case domain.GroupPriority:
			return "P" + strconv.Itoa(p.Priority)
		}
		return ""
	}

	index := make(map[string]int)
	var groups []ProjectGroup
	for _, p := range projects {
		k := keyOf(p)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, ProjectGroup{Key: k})
		}
		groups[i].Projects = append(groups[i].Projects, p)
	}

	rank := func(k string) string { return k }
	if by == domain.GroupStatus {
		order := make(map[string]int, len(domain.ProjectStatusOrder))
		for i, st := range domain.ProjectStatusOrder {
			order[string(st)] = i
		}
		rank = func(k string) string { return fmt.Sprintf("%02d", order[k]) }
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if by == domain.GroupTeam && (a == "" || b == "") {
			return b == "" && a != ""
		}
		if by == domain.GroupTeam {
			return strings.ToLower(a) < strings.ToLower(b)
		}
		return rank(a) < rank(b)
	})
	return groups
}
