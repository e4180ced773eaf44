package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const DefaultCapacityPct = 100

// Assignee is a team member who can be placed on projects week by week.
type Assignee struct {
	ID          string
	Name        string
	Email       string
	Role        string
	Team        string
	CapacityPct int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Assignee) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("assignee name is required")
	}
	if a.CapacityPct < 1 || a.CapacityPct > 100 {
		return fmt.Errorf("capacity %d%% must be between 1 and 100", a.CapacityPct)
	}
	if a.Email != "" {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			return fmt.Errorf("invalid email %q: %w", a.Email, err)
		}
	}
	return nil
}

// Initials returns up to two uppercase initials for compact grid labels.
func (a *Assignee) Initials() string {
	var out []rune
	for _, f := range strings.Fields(a.Name) {
		out = append(out, []rune(strings.ToUpper(f))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
