package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/legoplanner/legoplanner/internal/db"
	"github.com/legoplanner/legoplanner/internal/domain"
)

// SQLiteAssigneeRepo implements AssigneeRepo using a SQLite database.
type SQLiteAssigneeRepo struct {
	db db.DBTX
}

// NewSQLiteAssigneeRepo creates a new SQLiteAssigneeRepo.
func NewSQLiteAssigneeRepo(db db.DBTX) *SQLiteAssigneeRepo {
	return &SQLiteAssigneeRepo{db: db}
}

const assigneeColumns = `id, name, email, role, team, capacity_pct, active, created_at, updated_at`

func (r *SQLiteAssigneeRepo) Create(ctx context.Context, a *domain.Assignee) error {
	query := `INSERT INTO assignees (` + assigneeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Email,
		a.Role,
		a.Team,
		a.CapacityPct,
		boolToInt(a.Active),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting assignee: %w", err)
	}
	return nil
}

func (r *SQLiteAssigneeRepo) GetByID(ctx context.Context, id string) (*domain.Assignee, error) {
	query := `SELECT ` + assigneeColumns + ` FROM assignees WHERE id = ?`
	return r.scanAssignee(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteAssigneeRepo) GetByName(ctx context.Context, name string) (*domain.Assignee, error) {
	query := `SELECT ` + assigneeColumns + ` FROM assignees WHERE LOWER(name) = LOWER(?)`
	return r.scanAssignee(r.db.QueryRowContext(ctx, query, name))
}

func (r *SQLiteAssigneeRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Assignee, error) {
	query := `SELECT ` + assigneeColumns + ` FROM assignees`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY LOWER(team), LOWER(name)`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	var out []*domain.Assignee
	for rows.Next() {
		a, err := r.scanAssignee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignees: %w", err)
	}
	return out, nil
}

func (r *SQLiteAssigneeRepo) Update(ctx context.Context, a *domain.Assignee) error {
	query := `UPDATE assignees SET name = ?, email = ?, role = ?, team = ?, capacity_pct = ?, active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name,
		a.Email,
		a.Role,
		a.Team,
		a.CapacityPct,
		boolToInt(a.Active),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assignee: %w", err)
	}
	return requireAffected(res, "assignee", a.ID)
}

func (r *SQLiteAssigneeRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE assignees SET active = 0, updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("deactivating assignee: %w", err)
	}
	return requireAffected(res, "assignee", id)
}

func (r *SQLiteAssigneeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignees WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting assignee: %w", err)
	}
	return nil
}

func (r *SQLiteAssigneeRepo) scanAssignee(row scanner) (*domain.Assignee, error) {
	var a domain.Assignee
	var active int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.Team, &a.CapacityPct, &active, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignee %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning assignee: %w", err)
	}
	a.Active = intToBool(active)

	var parseErr error
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &a, nil
}
