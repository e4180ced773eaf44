package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/repository"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewAssignmentService(assignments repository.AssignmentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *assignmentService) ListByCell(ctx context.Context, key domain.CellKey) ([]domain.Assignment, error) {
	return s.assignments.ListByCell(ctx, key)
}

func (s *assignmentService) ListByProject(ctx context.Context, projectID string) ([]domain.Assignment, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *assignmentService) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Assignment, error) {
	return s.assignments.ListByAssignee(ctx, assigneeID)
}

// Assign sets the project's allocation in every cell of the range, leaving
// the assignee's other projects in those weeks untouched.
func (s *assignmentService) Assign(ctx context.Context, req contract.AssignRequest) (applied contract.Changeset, err error) {
	fields := map[string]any{
		"assignee_id": req.AssigneeID,
		"project_id":  req.ProjectID,
		"alloc_pct":   req.AllocationPct,
	}
	defer observe(ctx, s.observer, "assign", time.Now().UTC(), fields, &err)

	if req.AllocationPct < 1 || req.AllocationPct > 100 {
		return applied, &contract.EditError{
			Code:    contract.EditErrInvalidAllocation,
			Message: fmt.Sprintf("allocation %d%% must be between 1 and 100", req.AllocationPct),
		}
	}
	mondays, err := mondayRange(req.From, req.To)
	if err != nil {
		return applied, err
	}
	fields["weeks"] = len(mondays)

	applied = contract.Changeset{Label: "assign"}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkAssignable(ctx, tx, req.AssigneeID, req.ProjectID); err != nil {
			return err
		}
		repo := repository.NewSQLiteAssignmentRepo(tx)
		for _, m := range mondays {
			key := domain.CellKey{AssigneeID: req.AssigneeID, WeekStart: m}
			before, err := cellContents(ctx, repo, key)
			if err != nil {
				return err
			}
			change := contract.CellChange{
				Key:    key,
				Before: before,
				After:  app.WithProject(before, req.ProjectID, req.AllocationPct, req.Note),
			}
			if err := writeCell(ctx, repo, change); err != nil {
				return err
			}
			applied.Changes = append(applied.Changes, change)
		}
		return nil
	})
	if err != nil {
		return contract.Changeset{}, err
	}
	return applied.Compact(), nil
}

// Unassign removes the project from every cell of the range.
func (s *assignmentService) Unassign(ctx context.Context, assigneeID, projectID string, from, to time.Time) (applied contract.Changeset, err error) {
	fields := map[string]any{"assignee_id": assigneeID, "project_id": projectID}
	defer observe(ctx, s.observer, "unassign", time.Now().UTC(), fields, &err)

	mondays, err := mondayRange(from, to)
	if err != nil {
		return applied, err
	}

	applied = contract.Changeset{Label: "unassign"}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteAssignmentRepo(tx)
		for _, m := range mondays {
			key := domain.CellKey{AssigneeID: assigneeID, WeekStart: m}
			before, err := cellContents(ctx, repo, key)
			if err != nil {
				return err
			}
			change := contract.CellChange{Key: key, Before: before, After: app.WithoutProject(before, projectID)}
			if change.IsNoop() {
				continue
			}
			if err := writeCell(ctx, repo, change); err != nil {
				return err
			}
			applied.Changes = append(applied.Changes, change)
		}
		return nil
	})
	if err != nil {
		return contract.Changeset{}, err
	}
	fields["cells"] = len(applied.Changes)
	return applied, nil
}

// ApplyChangeset writes every listed cell's After contents in one
// transaction. The returned changeset carries the Before contents actually
// found in the database, so its inverse is an exact undo even if the caller's
// view was stale.
func (s *assignmentService) ApplyChangeset(ctx context.Context, cs contract.Changeset) (applied contract.Changeset, err error) {
	fields := map[string]any{"label": cs.Label, "cells": len(cs.Changes)}
	defer observe(ctx, s.observer, "apply-changeset", time.Now().UTC(), fields, &err)

	for _, c := range cs.Changes {
		if !weeks.IsMonday(c.Key.WeekStart) {
			return applied, &contract.EditError{
				Code:    contract.EditErrNotMonday,
				Message: fmt.Sprintf("cell %s does not start on a Monday", c.Key),
			}
		}
		for _, content := range c.After {
			if content.AllocationPct < 1 || content.AllocationPct > 100 {
				return applied, &contract.EditError{
					Code:    contract.EditErrInvalidAllocation,
					Message: fmt.Sprintf("cell %s: allocation %d%% must be between 1 and 100", c.Key, content.AllocationPct),
				}
			}
		}
	}

	applied = contract.Changeset{Label: cs.Label, Restore: cs.Restore}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteAssignmentRepo(tx)
		checked := make(map[string]bool)
		for _, c := range cs.Changes {
			before, err := cellContents(ctx, repo, c.Key)
			if err != nil {
				return err
			}
			// Rows already stored as-is, and rows an undo or redo puts back,
			// stay writable even when their project was archived or the
			// assignee deactivated since.
			for _, content := range c.After {
				pair := c.Key.AssigneeID + "|" + content.ProjectID
				if cs.Restore || checked[pair] || hasEntry(before, content) {
					continue
				}
				if err := checkAssignable(ctx, tx, c.Key.AssigneeID, content.ProjectID); err != nil {
					return err
				}
				checked[pair] = true
			}

			change := contract.CellChange{Key: c.Key, Before: before, After: c.After}
			if change.IsNoop() {
				continue
			}
			if err := writeCell(ctx, repo, change); err != nil {
				return err
			}
			applied.Changes = append(applied.Changes, change)
		}
		return nil
	})
	if err != nil {
		return contract.Changeset{}, err
	}
	fields["applied"] = len(applied.Changes)
	return applied, nil
}

// hasEntry reports whether cell already holds content's project at the
// same allocation.
func hasEntry(cell []contract.CellContent, content contract.CellContent) bool {
	for _, c := range cell {
		if c.ProjectID == content.ProjectID && c.AllocationPct == content.AllocationPct {
			return true
		}
	}
	return false
}

// checkAssignable rejects archived projects and inactive assignees.
func checkAssignable(ctx context.Context, tx db.DBTX, assigneeID, projectID string) error {
	assignee, err := repository.NewSQLiteAssigneeRepo(tx).GetByID(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !assignee.Active {
		return &contract.EditError{
			Code:    contract.EditErrInactiveAssignee,
			Message: fmt.Sprintf("assignee %q is inactive", assignee.Name),
		}
	}
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.IsArchived() {
		return &contract.EditError{
			Code:    contract.EditErrArchivedProject,
			Message: fmt.Sprintf("project %s is archived", project.ShortID),
		}
	}
	return nil
}

func cellContents(ctx context.Context, repo repository.AssignmentRepo, key domain.CellKey) ([]contract.CellContent, error) {
	rows, err := repo.ListByCell(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return app.ContentsOf(rows), nil
}

// writeCell replaces the cell's stored rows with change.After.
func writeCell(ctx context.Context, repo repository.AssignmentRepo, change contract.CellChange) error {
	if change.IsNoop() {
		return nil
	}
	if err := repo.DeleteCell(ctx, change.Key); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, c := range change.After {
		a := &domain.Assignment{
			ID:            uuid.New().String(),
			AssigneeID:    change.Key.AssigneeID,
			ProjectID:     c.ProjectID,
			WeekStart:     change.Key.WeekStart,
			AllocationPct: c.AllocationPct,
			Note:          c.Note,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Upsert(ctx, a); err != nil {
			return fmt.Errorf("writing cell %s: %w", change.Key, err)
		}
	}
	return nil
}

// mondayRange normalises both ends to their Mondays and lists every week
// between them inclusive.
func mondayRange(from, to time.Time) ([]time.Time, error) {
	if from.IsZero() {
		return nil, &contract.EditError{Code: contract.EditErrInvalidRange, Message: "a start week is required"}
	}
	if to.IsZero() {
		to = from
	}
	start, end := weeks.WeekStart(from), weeks.WeekStart(to)
	if end.Before(start) {
		return nil, &contract.EditError{
			Code:    contract.EditErrInvalidRange,
			Message: fmt.Sprintf("end week %s is before start week %s", end.Format(weeks.DateLayout), start.Format(weeks.DateLayout)),
		}
	}
	var out []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 0, 7) {
		out = append(out, m)
	}
	return out, nil
}
