package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
)

type assigneeService struct {
	assignees repository.AssigneeRepo
	observer  UseCaseObserver
}

func NewAssigneeService(assignees repository.AssigneeRepo, observers ...UseCaseObserver) AssigneeService {
	return &assigneeService{assignees: assignees, observer: useCaseObserverOrNoop(observers)}
}

func (s *assigneeService) Create(ctx context.Context, a *domain.Assignee) (err error) {
	defer observe(ctx, s.observer, "assignee-create", time.Now().UTC(), map[string]any{"name": a.Name}, &err)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Active = true
	a.Name = strings.TrimSpace(a.Name)
	if a.CapacityPct == 0 {
		a.CapacityPct = domain.DefaultCapacityPct
	}
	if err = a.Validate(); err != nil {
		return err
	}
	if err = s.ensureNameFree(ctx, a.Name, a.ID); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.assignees.Create(ctx, a)
}

func (s *assigneeService) GetByID(ctx context.Context, id string) (*domain.Assignee, error) {
	return s.assignees.GetByID(ctx, id)
}

func (s *assigneeService) GetByName(ctx context.Context, name string) (*domain.Assignee, error) {
	return s.assignees.GetByName(ctx, strings.TrimSpace(name))
}

func (s *assigneeService) List(ctx context.Context, includeInactive bool) ([]*domain.Assignee, error) {
	return s.assignees.List(ctx, includeInactive)
}

func (s *assigneeService) Update(ctx context.Context, a *domain.Assignee) (err error) {
	defer observe(ctx, s.observer, "assignee-update", time.Now().UTC(), map[string]any{"assignee_id": a.ID}, &err)

	a.Name = strings.TrimSpace(a.Name)
	if err = a.Validate(); err != nil {
		return err
	}
	if err = s.ensureNameFree(ctx, a.Name, a.ID); err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	return s.assignees.Update(ctx, a)
}

func (s *assigneeService) Deactivate(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "assignee-deactivate", time.Now().UTC(), map[string]any{"assignee_id": id}, &err)
	return s.assignees.Deactivate(ctx, id)
}

func (s *assigneeService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "assignee-delete", time.Now().UTC(), map[string]any{"assignee_id": id}, &err)
	if _, err = s.assignees.GetByID(ctx, id); err != nil {
		return err
	}
	return s.assignees.Delete(ctx, id)
}

func (s *assigneeService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.assignees.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("assignee %q already exists: %w", existing.Name, ErrConflict)
	}
	return nil
}
