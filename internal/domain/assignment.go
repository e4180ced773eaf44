package domain

import (
	"fmt"
	"time"
)

// Assignment places one assignee on one project for one week.
type Assignment struct {
	ID            string
	AssigneeID    string
	ProjectID     string
	WeekStart     time.Time
	AllocationPct int
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *Assignment) Validate() error {
	if a.AssigneeID == "" {
		return fmt.Errorf("assignment requires an assignee")
	}
	if a.ProjectID == "" {
		return fmt.Errorf("assignment requires a project")
	}
	if a.WeekStart.Weekday() != time.Monday {
		return fmt.Errorf("week start %s is a %s, expected a Monday",
			a.WeekStart.Format("2006-01-02"), a.WeekStart.Weekday())
	}
	if a.AllocationPct < 1 || a.AllocationPct > 100 {
		return fmt.Errorf("allocation %d%% must be between 1 and 100", a.AllocationPct)
	}
	return nil
}

// CellKey identifies one grid cell: an assignee in a given week.
type CellKey struct {
	AssigneeID string
	WeekStart  time.Time
}

func (k CellKey) String() string {
	return k.AssigneeID + "@" + k.WeekStart.Format("2006-01-02")
}

// Key returns the cell this assignment occupies.
func (a *Assignment) Key() CellKey {
	return CellKey{AssigneeID: a.AssigneeID, WeekStart: a.WeekStart}
}

// TotalAllocation sums AllocationPct across assignments.
func TotalAllocation(as []Assignment) int {
	total := 0
	for _, a := range as {
		total += a.AllocationPct
	}
	return total
}
