package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/importer"
	"github.com/legoplanner/legoplanner/internal/repository"
)

type importService struct {
	projects    repository.ProjectRepo
	assignees   repository.AssigneeRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewImportService(
	projects repository.ProjectRepo,
	assignees repository.AssigneeRepo,
	assignments repository.AssignmentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		projects:    projects,
		assignees:   assignees,
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*contract.ImportResult, error) {
	doc, err := importer.LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportDocument(ctx, doc)
}

func (s *importService) ImportDocument(ctx context.Context, doc *importer.Document) (result *contract.ImportResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import", time.Now().UTC(), fields, &err)

	existing, projectIDs, assigneeIDs, err := s.existing(ctx)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidateDocument(doc, existing); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	converted, err := importer.Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("converting import document: %w", err)
	}
	for _, p := range converted.Projects {
		projectIDs[p.ShortID] = p.ID
	}
	for _, a := range converted.Assignees {
		assigneeIDs[strings.ToLower(a.Name)] = a.ID
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txAssignees := repository.NewSQLiteAssigneeRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		for _, p := range converted.Projects {
			if err := txProjects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %s: %w", p.ShortID, err)
			}
		}
		for _, a := range converted.Assignees {
			if err := txAssignees.Create(ctx, a); err != nil {
				return fmt.Errorf("creating assignee %q: %w", a.Name, err)
			}
		}
		now := time.Now().UTC()
		for _, pa := range converted.Assignments {
			a := &domain.Assignment{
				ID:            uuid.New().String(),
				AssigneeID:    assigneeIDs[strings.ToLower(pa.AssigneeName)],
				ProjectID:     projectIDs[pa.ProjectShortID],
				WeekStart:     pa.WeekStart,
				AllocationPct: pa.AllocationPct,
				Note:          pa.Note,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := txAssignments.Upsert(ctx, a); err != nil {
				return fmt.Errorf("creating assignment %s/%s@%s: %w",
					pa.AssigneeName, pa.ProjectShortID, pa.WeekStart.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["projects"] = len(converted.Projects)
	fields["assignees"] = len(converted.Assignees)
	fields["assignments"] = len(converted.Assignments)
	return &contract.ImportResult{
		Projects:    converted.Projects,
		Assignees:   converted.Assignees,
		Assignments: len(converted.Assignments),
	}, nil
}

// Export writes every project, assignee and assignment in the import schema.
func (s *importService) Export(ctx context.Context, w io.Writer, format importer.Format, includeArchived bool) error {
	projects, err := s.projects.List(ctx, repository.ProjectFilter{IncludeArchived: includeArchived})
	if err != nil {
		return err
	}
	assignees, err := s.assignees.List(ctx, true)
	if err != nil {
		return err
	}
	var assignments []domain.Assignment
	for _, p := range projects {
		as, err := s.assignments.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		assignments = append(assignments, as...)
	}
	return importer.Encode(w, importer.Build(projects, assignees, assignments), format)
}

// existing returns lookup sets for validation plus short ID and name to ID
// maps for resolving assignment references.
func (s *importService) existing(ctx context.Context) (importer.Existing, map[string]string, map[string]string, error) {
	projects, err := s.projects.List(ctx, repository.ProjectFilter{IncludeArchived: true})
	if err != nil {
		return importer.Existing{}, nil, nil, err
	}
	assignees, err := s.assignees.List(ctx, true)
	if err != nil {
		return importer.Existing{}, nil, nil, err
	}

	ex := importer.Existing{
		ShortIDs:      make(map[string]bool, len(projects)),
		AssigneeNames: make(map[string]bool, len(assignees)),
	}
	projectIDs := make(map[string]string, len(projects))
	assigneeIDs := make(map[string]string, len(assignees))
	for _, p := range projects {
		id := strings.ToUpper(p.ShortID)
		ex.ShortIDs[id] = true
		projectIDs[id] = p.ID
	}
	for _, a := range assignees {
		name := strings.ToLower(a.Name)
		ex.AssigneeNames[name] = true
		assigneeIDs[name] = a.ID
	}
	return ex, projectIDs, assigneeIDs, nil
}

func formatValidationErrors(errs []error) error {
	var list string
	for _, e := range errs {
		list += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w (%d errors):%s", ErrImportInvalid, len(errs), list)
}
