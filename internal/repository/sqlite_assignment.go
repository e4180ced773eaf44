package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(db db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: db}
}

const assignmentColumns = `x.id, x.assignee_id, x.project_id, x.week_start, x.allocation_pct, x.note, x.created_at, x.updated_at`

// Upsert inserts the assignment or, when the (assignee, project, week) cell
// already holds one, overwrites its allocation and note. The stored ID wins
// over a.ID on conflict and is written back into a.
func (r *SQLiteAssignmentRepo) Upsert(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (id, assignee_id, project_id, week_start, allocation_pct, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(assignee_id, project_id, week_start) DO UPDATE
		SET allocation_pct = excluded.allocation_pct, note = excluded.note, updated_at = excluded.updated_at
		RETURNING id, created_at`
	var id, createdAt string
	err := r.db.QueryRowContext(ctx, query,
		a.ID,
		a.AssigneeID,
		a.ProjectID,
		a.WeekStart.Format(dateLayout),
		a.AllocationPct,
		a.Note,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("upserting assignment: %w", err)
	}
	a.ID = id
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		a.CreatedAt = t
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments x WHERE x.id = ?`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteAssignmentRepo) ListByRange(ctx context.Context, from, to time.Time, f AssignmentFilter) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments x`
	where := []string{"x.week_start >= ?", "x.week_start <= ?"}
	args := []any{from.Format(dateLayout), to.Format(dateLayout)}

	if len(f.Teams) > 0 {
		query += ` JOIN assignees a ON a.id = x.assignee_id`
		lowered := make([]string, len(f.Teams))
		for i, t := range f.Teams {
			lowered[i] = strings.ToLower(t)
		}
		var clause string
		clause, args = inClause("LOWER(a.team)", lowered, args)
		where = append(where, clause)
	}
	if len(f.AssigneeIDs) > 0 {
		var clause string
		clause, args = inClause("x.assignee_id", f.AssigneeIDs, args)
		where = append(where, clause)
	}
	if len(f.ProjectIDs) > 0 {
		var clause string
		clause, args = inClause("x.project_id", f.ProjectIDs, args)
		where = append(where, clause)
	}

	query += " WHERE " + strings.Join(where, " AND ") + " ORDER BY x.week_start, x.assignee_id, x.created_at"
	return r.query(ctx, query, args...)
}

func (r *SQLiteAssignmentRepo) ListByCell(ctx context.Context, key domain.CellKey) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments x
		WHERE x.assignee_id = ? AND x.week_start = ? ORDER BY x.created_at, x.id`
	return r.query(ctx, query, key.AssigneeID, key.WeekStart.Format(dateLayout))
}

func (r *SQLiteAssignmentRepo) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments x WHERE x.assignee_id = ? ORDER BY x.week_start`
	return r.query(ctx, query, assigneeID)
}

func (r *SQLiteAssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments x WHERE x.project_id = ? ORDER BY x.week_start`
	return r.query(ctx, query, projectID)
}

func (r *SQLiteAssignmentRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments WHERE project_id = ?`, projectID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting assignments: %w", err)
	}
	return n, nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) DeleteCell(ctx context.Context, key domain.CellKey) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE assignee_id = ? AND week_start = ?`,
		key.AssigneeID, key.WeekStart.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("clearing cell %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) DeleteRange(ctx context.Context, assigneeID, projectID string, from, to time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments
		WHERE assignee_id = ? AND project_id = ? AND week_start >= ? AND week_start <= ?`,
		assigneeID, projectID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("deleting assignment range: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteAssignmentRepo) query(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func scanAssignment(row scanner) (domain.Assignment, error) {
	var a domain.Assignment
	var weekStr, createdAtStr, updatedAtStr string

	err := row.Scan(&a.ID, &a.AssigneeID, &a.ProjectID, &weekStr, &a.AllocationPct, &a.Note, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, fmt.Errorf("assignment %w", ErrNotFound)
		}
		return a, fmt.Errorf("scanning assignment: %w", err)
	}

	var parseErr error
	a.WeekStart, parseErr = time.Parse(dateLayout, weekStr)
	if parseErr != nil {
		return a, fmt.Errorf("parsing week_start: %w", parseErr)
	}
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return a, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return a, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return a, nil
}
